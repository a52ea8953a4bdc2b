package adaptor

import (
	"net/http"

	"venue-booking/internal/dto/request"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

type FieldHandler struct {
	service usecase.FieldService
	log     *zap.Logger
}

func NewFieldHandler(service usecase.FieldService, log *zap.Logger) *FieldHandler {
	return &FieldHandler{
		service: service,
		log:     log.With(zap.String("handler", "field")),
	}
}

// Index handles GET /api/v1/venues/{venue_id}/fields
func (h *FieldHandler) Index(w http.ResponseWriter, r *http.Request) {
	venueID, ok := pathID(r, "venue_id")
	if !ok {
		utils.ResponseNotFound(w, "venue not found")
		return
	}

	fields, err := h.service.List(r.Context(), venueID)
	if err != nil {
		h.handleServiceError(w, err, "list fields", http.StatusUnprocessableEntity)
		return
	}

	utils.ResponseSuccess(w, "success", fields)
}

// Show handles GET /api/v1/venues/{venue_id}/fields/{id}
func (h *FieldHandler) Show(w http.ResponseWriter, r *http.Request) {
	venueID, ok1 := pathID(r, "venue_id")
	id, ok2 := pathID(r, "id")
	if !ok1 || !ok2 {
		utils.ResponseNotFound(w, "field not found")
		return
	}

	field, err := h.service.Get(r.Context(), venueID, id)
	if err != nil {
		h.handleServiceError(w, err, "get field", http.StatusUnprocessableEntity)
		return
	}

	utils.ResponseSuccess(w, "success", field)
}

// Store handles POST /api/v1/venues/{venue_id}/fields
func (h *FieldHandler) Store(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	venueID, ok := pathID(r, "venue_id")
	if !ok {
		utils.ResponseNotFound(w, "venue not found")
		return
	}

	var req request.FieldRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	field, err := h.service.Create(r.Context(), userID, venueID, &req)
	if err != nil {
		h.handleServiceError(w, err, "create field", http.StatusUnprocessableEntity)
		return
	}

	utils.ResponseCreated(w, "field created", field)
}

// Update handles PUT /api/v1/venues/{venue_id}/fields/{id}
func (h *FieldHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	venueID, ok1 := pathID(r, "venue_id")
	id, ok2 := pathID(r, "id")
	if !ok1 || !ok2 {
		utils.ResponseNotFound(w, "field not found")
		return
	}

	var req request.FieldRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	field, err := h.service.Update(r.Context(), userID, venueID, id, &req)
	if err != nil {
		h.handleServiceError(w, err, "update field", http.StatusBadRequest)
		return
	}

	utils.ResponseSuccess(w, "field updated", field)
}

// Destroy handles DELETE /api/v1/venues/{venue_id}/fields/{id}
func (h *FieldHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	venueID, ok1 := pathID(r, "venue_id")
	id, ok2 := pathID(r, "id")
	if !ok1 || !ok2 {
		utils.ResponseNotFound(w, "field not found")
		return
	}

	if err := h.service.Delete(r.Context(), userID, venueID, id); err != nil {
		h.handleServiceError(w, err, "delete field", http.StatusBadRequest)
		return
	}

	utils.ResponseSuccess(w, "field deleted", nil)
}

func (h *FieldHandler) handleServiceError(w http.ResponseWriter, err error, operation string, validationCode int) {
	handleCommonError(w, h.log, err, operation, validationCode)
}
