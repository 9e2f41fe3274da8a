package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"gather/internal/cities/service"
	apperrors "gather/pkg/errors"
	httputil "gather/pkg/http"
	"gather/pkg/logger"
)

type CityHandler struct {
	service service.CityService
	log     *logger.Logger
}

func NewCityHandler(service service.CityService, log *logger.Logger) *CityHandler {
	return &CityHandler{
		service: service,
		log:     log,
	}
}

func (h *CityHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	city, err := h.service.Create(r.Context(), body)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, city); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *CityHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	city, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, city); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CityHandler) GetBySlug(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	city, err := h.service.GetBySlug(r.Context(), ps.ByName("slug"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetBySlug", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, city); err != nil {
		h.log.Error("failed to write success response", "handler", "GetBySlug", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CityHandler) GetByIDs(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ids := httputil.ExtractIDs(r)
	if len(ids) == 0 {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("The 'ids' query parameter is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByIDs", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	cities, err := h.service.GetByIDs(r.Context(), ids)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByIDs", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, cities); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByIDs", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CityHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	city, err := h.service.Update(r.Context(), ps.ByName("id"), body)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, city); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CityHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/cities", h.Create)
	router.GET("/api/v1/cities", h.GetByIDs)
	router.GET("/api/v1/cities/id/:id", h.GetByID)
	router.GET("/api/v1/cities/slug/:slug", h.GetBySlug)
	router.PATCH("/api/v1/cities/id/:id", h.Update)
}
