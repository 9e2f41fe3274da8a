package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"gather/internal/donations/service"
	httputil "gather/pkg/http"
	"gather/pkg/logger"
	"gather/pkg/model"
)

type DonationHandler struct {
	service service.DonationService
	log     *logger.Logger
}

func NewDonationHandler(service service.DonationService, log *logger.Logger) *DonationHandler {
	return &DonationHandler{
		service: service,
		log:     log,
	}
}

func (h *DonationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var donation model.Donation
	if err := json.NewDecoder(r.Body).Decode(&donation); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &donation); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, donation); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *DonationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	donation, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, donation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *DonationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/donations", h.Create)
	router.GET("/api/v1/donations/id/:id", h.GetByID)
}
