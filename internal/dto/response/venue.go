package response

import (
	"time"

	"venue-booking/internal/data/entity"
)

type FieldResponse struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	Type      entity.FieldType `json:"type"`
	VenueID   int64            `json:"venue_id"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`

	// only filled on venue show with ?play_date=
	Bookings []BookingResponse `json:"bookings,omitempty"`
}

type VenueResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Address   string          `json:"address"`
	UserID    int64           `json:"user_id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Fields    []FieldResponse `json:"fields"`
}

func FieldToResponse(field *entity.Field) FieldResponse {
	return FieldResponse{
		ID:        field.ID,
		Name:      field.Name,
		Type:      field.Type,
		VenueID:   field.VenueID,
		CreatedAt: field.CreatedAt,
		UpdatedAt: field.UpdatedAt,
	}
}

func FieldsToResponse(fields []*entity.Field) []FieldResponse {
	result := make([]FieldResponse, 0, len(fields))
	for _, f := range fields {
		result = append(result, FieldToResponse(f))
	}
	return result
}

func VenueToResponse(venue *entity.Venue) VenueResponse {
	return VenueResponse{
		ID:        venue.ID,
		Name:      venue.Name,
		Phone:     venue.Phone,
		Address:   venue.Address,
		UserID:    venue.UserID,
		CreatedAt: venue.CreatedAt,
		UpdatedAt: venue.UpdatedAt,
		Fields:    FieldsToResponse(venue.Fields),
	}
}

func VenuesToResponse(venues []*entity.Venue) []VenueResponse {
	result := make([]VenueResponse, 0, len(venues))
	for _, v := range venues {
		result = append(result, VenueToResponse(v))
	}
	return result
}

// VenueWithBookings attaches the day's bookings to each field of the venue
func VenueWithBookings(venue *entity.Venue, bookings []*entity.BookingSummary) VenueResponse {
	resp := VenueToResponse(venue)

	byField := make(map[int64][]BookingResponse)
	for _, b := range bookings {
		byField[b.FieldID] = append(byField[b.FieldID], BookingToResponse(b))
	}

	for i := range resp.Fields {
		if list, ok := byField[resp.Fields[i].ID]; ok {
			resp.Fields[i].Bookings = list
		} else {
			resp.Fields[i].Bookings = []BookingResponse{}
		}
	}

	return resp
}
