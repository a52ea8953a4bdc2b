package adaptor

import (
	"net/http"

	"venue-booking/internal/dto/request"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

type VenueHandler struct {
	service usecase.VenueService
	log     *zap.Logger
}

func NewVenueHandler(service usecase.VenueService, log *zap.Logger) *VenueHandler {
	return &VenueHandler{
		service: service,
		log:     log.With(zap.String("handler", "venue")),
	}
}

// Index handles GET /api/v1/venues
func (h *VenueHandler) Index(w http.ResponseWriter, r *http.Request) {
	venues, err := h.service.List(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "list venues")
		return
	}

	utils.ResponseSuccess(w, "success", venues)
}

// Store handles POST /api/v1/venues
func (h *VenueHandler) Store(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.VenueRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	venue, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(w, err, "create venue")
		return
	}

	utils.ResponseCreated(w, "venue created", venue)
}

// Show handles GET /api/v1/venues/{id}?play_date=YYYY-MM-DD
func (h *VenueHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.ResponseNotFound(w, "venue not found")
		return
	}

	venue, err := h.service.Get(r.Context(), id, r.URL.Query().Get("play_date"))
	if err != nil {
		h.handleServiceError(w, err, "get venue")
		return
	}

	utils.ResponseSuccess(w, "success", venue)
}

// Update handles PUT /api/v1/venues/{id}
func (h *VenueHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		utils.ResponseNotFound(w, "venue not found")
		return
	}

	var req request.VenueRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	venue, err := h.service.Update(r.Context(), userID, id, &req)
	if err != nil {
		h.handleServiceError(w, err, "update venue")
		return
	}

	utils.ResponseSuccess(w, "venue updated", venue)
}

// Destroy handles DELETE /api/v1/venues/{id}
func (h *VenueHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		utils.ResponseNotFound(w, "venue not found")
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		h.handleServiceError(w, err, "delete venue")
		return
	}

	utils.ResponseSuccess(w, "venue deleted", nil)
}

func (h *VenueHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	handleCommonError(w, h.log, err, operation, http.StatusUnprocessableEntity)
}
