package request

type CreateBookingRequest struct {
	FieldID       int64  `json:"field_id" validate:"required,gt=0"`
	PlayDateStart string `json:"play_date_start" validate:"required,playtime"`
	PlayDateEnd   string `json:"play_date_end" validate:"required,playtime"`
}

// BookingListRequest is read from the query string of GET /bookings
type BookingListRequest struct {
	PaginatedRequest
	FieldID  int64
	PlayDate string
}
