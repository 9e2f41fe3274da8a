package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"gather/internal/communities/service"
	apperrors "gather/pkg/errors"
	httputil "gather/pkg/http"
	"gather/pkg/logger"
)

type CommunityHandler struct {
	service service.CommunityService
	log     *logger.Logger
}

func NewCommunityHandler(service service.CommunityService, log *logger.Logger) *CommunityHandler {
	return &CommunityHandler{
		service: service,
		log:     log,
	}
}

func (h *CommunityHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	community, err := h.service.Create(r.Context(), body)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, community); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *CommunityHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	community, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, community); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CommunityHandler) GetBySlug(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	community, err := h.service.GetBySlug(r.Context(), ps.ByName("slug"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetBySlug", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, community); err != nil {
		h.log.Error("failed to write success response", "handler", "GetBySlug", "operation", "WriteSuccess", "error", err)
	}
}

// List serves GET /communities: either ?ids= lookups or a paginated
// ?city_id= listing.
func (h *CommunityHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if cityID := r.URL.Query().Get("city_id"); cityID != "" {
		h.listByCity(w, r, cityID)
		return
	}

	ids := httputil.ExtractIDs(r)
	if len(ids) == 0 {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Either the 'ids' or the 'city_id' query parameter is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	communities, err := h.service.GetByIDs(r.Context(), ids)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, communities); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CommunityHandler) listByCity(w http.ResponseWriter, r *http.Request, cityID string) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	communities, total, err := h.service.GetByCity(r.Context(), cityID, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, communities, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *CommunityHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	community, err := h.service.Update(r.Context(), ps.ByName("id"), body)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, community); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CommunityHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/communities", h.Create)
	router.GET("/api/v1/communities", h.List)
	router.GET("/api/v1/communities/id/:id", h.GetByID)
	router.GET("/api/v1/communities/slug/:slug", h.GetBySlug)
	router.PATCH("/api/v1/communities/id/:id", h.Update)
}
