package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"gather/internal/contacts/service"
	apperrors "gather/pkg/errors"
	httputil "gather/pkg/http"
	"gather/pkg/logger"
	"gather/pkg/model"
)

type ContactHandler struct {
	service service.ContactService
	log     *logger.Logger
}

func NewContactHandler(service service.ContactService, log *logger.Logger) *ContactHandler {
	return &ContactHandler{
		service: service,
		log:     log,
	}
}

func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var contact model.Contact
	if err := json.NewDecoder(r.Body).Decode(&contact); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &contact); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, contact); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ContactHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	contact, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, contact); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ContactHandler) GetByIDs(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ids := httputil.ExtractIDs(r)
	if len(ids) == 0 {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("The 'ids' query parameter is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByIDs", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	contacts, err := h.service.GetByIDs(r.Context(), ids)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByIDs", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, contacts); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByIDs", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.ContactUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	contact, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, contact); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ContactHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/contacts", h.Create)
	router.GET("/api/v1/contacts", h.GetByIDs)
	router.GET("/api/v1/contacts/id/:id", h.GetByID)
	router.PATCH("/api/v1/contacts/id/:id", h.Update)
	router.DELETE("/api/v1/contacts/id/:id", h.Delete)
}
