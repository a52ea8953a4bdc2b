// Package events publishes and consumes booking events over RabbitMQ.
package events

import "time"

const RoutingKeyBookingCreated = "booking.created"

type BookingCreated struct {
	BookingID     int64     `json:"booking_id"`
	FieldID       int64     `json:"field_id"`
	FieldName     string    `json:"field_name"`
	VenueID       int64     `json:"venue_id"`
	UserID        int64     `json:"user_id"`
	PlayDateStart time.Time `json:"play_date_start"`
	PlayDateEnd   time.Time `json:"play_date_end"`
	CreatedAt     time.Time `json:"created_at"`
}
