package handler

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"gather/internal/classes/service"
	apperrors "gather/pkg/errors"
	httputil "gather/pkg/http"
	"gather/pkg/logger"
	"gather/pkg/model"
	"gather/pkg/signup"
)

const formatCSV = "csv"

type ClassHandler struct {
	service service.ClassService
	log     *logger.Logger
}

func NewClassHandler(service service.ClassService, log *logger.Logger) *ClassHandler {
	return &ClassHandler{
		service: service,
		log:     log,
	}
}

func (h *ClassHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var class model.Class
	if err := json.NewDecoder(r.Body).Decode(&class); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &class); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, class); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ClassHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	class, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, class); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ClassHandler) GetByCommunity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	communityID := r.URL.Query().Get("community_id")
	if communityID == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("The 'community_id' query parameter is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByCommunity", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByCommunity", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	classes, total, err := h.service.GetByCommunity(r.Context(), communityID, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByCommunity", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, classes, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetByCommunity", "operation", "WritePaginated", "error", err)
	}
}

func (h *ClassHandler) Signup(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var entry signup.Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil || entry == nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Signup", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	receipt, err := h.service.Signup(r.Context(), ps.ByName("id"), entry)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Signup", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, receipt); err != nil {
		h.log.Error("failed to write created response", "handler", "Signup", "operation", "WriteCreated", "error", err)
	}
}

func (h *ClassHandler) CancelSignup(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.CancelSignup(r.Context(), ps.ByName("token")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CancelSignup", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

// Signups returns the projected signup table, as JSON or with ?format=csv as
// a CSV attachment.
func (h *ClassHandler) Signups(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	projection, err := h.service.Signups(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Signups", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if r.URL.Query().Get("format") != formatCSV {
		if err := httputil.WriteSuccess(w, projection); err != nil {
			h.log.Error("failed to write success response", "handler", "Signups", "operation", "WriteSuccess", "error", err)
		}
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": "signups-" + id + ".csv",
	}))
	w.WriteHeader(http.StatusOK)
	if err := projection.CSV(w); err != nil {
		h.log.Error("failed to write CSV response", "handler", "Signups", "operation", "CSV", "error", err)
	}
}

func (h *ClassHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/classes", h.Create)
	router.GET("/api/v1/classes", h.GetByCommunity)
	router.GET("/api/v1/classes/id/:id", h.GetByID)
	router.POST("/api/v1/classes/id/:id/signups", h.Signup)
	router.GET("/api/v1/classes/id/:id/signups", h.Signups)
	router.DELETE("/api/v1/classes/signups/:token", h.CancelSignup)
}
