package adaptor

import (
	"errors"
	"fmt"
	"net/http"

	"venue-booking/internal/dto/request"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// Book handles POST /api/v1/venues/{id}/bookings
func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	venueID, ok := pathID(r, "id")
	if !ok {
		utils.ResponseNotFound(w, "venue not found")
		return
	}

	var req request.CreateBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.Create(r.Context(), userID, venueID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNotFound):
			h.log.Warn("create booking failed - field not in venue", zap.Error(err))
			utils.ResponseNotFound(w, fmt.Sprintf("field with ID %d is not in this venue", req.FieldID))
		case errors.Is(err, usecase.ErrConflict):
			h.log.Warn("create booking failed - overlap", zap.Error(err))
			utils.ResponseConflict(w, "field is already booked for that time")
		default:
			h.handleServiceError(w, err, "create booking")
		}
		return
	}

	utils.ResponseCreated(w, "booking created", booking)
}

// Index handles GET /api/v1/bookings?page=&per_page=&field_id=&play_date=
func (h *BookingHandler) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := request.BookingListRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(q.Get("page"), 1),
			PerPage: utils.ParseInt(q.Get("per_page"), 10),
		},
		PlayDate: q.Get("play_date"),
	}
	if raw := q.Get("field_id"); raw != "" {
		fieldID, ok := utils.ParseID(raw)
		if !ok {
			utils.ResponseBadRequest(w, "validation failed", map[string]string{"field_id": "Must be a positive integer"})
			return
		}
		req.FieldID = fieldID
	}

	bookings, err := h.service.List(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// Show handles GET /api/v1/bookings/{id}
func (h *BookingHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.ResponseNotFound(w, "booking not found")
		return
	}

	booking, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// Join handles PUT /api/v1/bookings/{id}/join
func (h *BookingHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		utils.ResponseNotFound(w, "booking not found")
		return
	}

	if err := h.service.Join(r.Context(), userID, id); err != nil {
		if errors.Is(err, usecase.ErrConflict) {
			utils.ResponseConflict(w, "already joined this booking")
			return
		}
		h.handleServiceError(w, err, "join booking")
		return
	}

	utils.ResponseSuccess(w, "joined booking", nil)
}

// Unjoin handles PUT /api/v1/bookings/{id}/unjoin
func (h *BookingHandler) Unjoin(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		utils.ResponseNotFound(w, "booking not found")
		return
	}

	if err := h.service.Unjoin(r.Context(), userID, id); err != nil {
		if errors.Is(err, usecase.ErrConflict) {
			utils.ResponseConflict(w, "not joined to this booking")
			return
		}
		h.handleServiceError(w, err, "unjoin booking")
		return
	}

	utils.ResponseSuccess(w, "left booking", nil)
}

// Schedule handles GET /api/v1/schedule
func (h *BookingHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	bookings, err := h.service.Schedule(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err, "schedule")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

func (h *BookingHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	handleCommonError(w, h.log, err, operation, http.StatusBadRequest)
}
