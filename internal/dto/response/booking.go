package response

import (
	"time"

	"venue-booking/internal/data/entity"
)

type BookingResponse struct {
	ID            int64            `json:"id"`
	PlayDateStart time.Time        `json:"play_date_start"`
	PlayDateEnd   time.Time        `json:"play_date_end"`
	FieldID       int64            `json:"field_id"`
	FieldName     string           `json:"field_name,omitempty"`
	FieldType     entity.FieldType `json:"field_type,omitempty"`
	VenueID       int64            `json:"venue_id,omitempty"`
	VenueName     string           `json:"venue_name,omitempty"`
	UserIDBooking int64            `json:"user_id_booking"`
	PlayersCount  int              `json:"players_count"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type BookingDetailResponse struct {
	BookingResponse
	Players []UserResponse `json:"players"`
}

func BookingToResponse(b *entity.BookingSummary) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		PlayDateStart: b.PlayDateStart,
		PlayDateEnd:   b.PlayDateEnd,
		FieldID:       b.FieldID,
		FieldName:     b.FieldName,
		FieldType:     b.FieldType,
		VenueID:       b.VenueID,
		VenueName:     b.VenueName,
		UserIDBooking: b.UserIDBooking,
		PlayersCount:  b.PlayersCount,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func BookingsToResponse(bookings []*entity.BookingSummary) []BookingResponse {
	result := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, BookingToResponse(b))
	}
	return result
}

// NewBookingResponse is used right after creation, before any join data exists
func NewBookingResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		PlayDateStart: b.PlayDateStart,
		PlayDateEnd:   b.PlayDateEnd,
		FieldID:       b.FieldID,
		UserIDBooking: b.UserIDBooking,
		PlayersCount:  1,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func BookingDetailToResponse(b *entity.BookingSummary, players []*entity.User) BookingDetailResponse {
	return BookingDetailResponse{
		BookingResponse: BookingToResponse(b),
		Players:         UsersToResponse(players),
	}
}
