package entity

import "time"

type Booking struct {
	Base
	PlayDateStart time.Time `db:"play_date_start"`
	PlayDateEnd   time.Time `db:"play_date_end"`
	FieldID       int64     `db:"field_id"`
	UserIDBooking int64     `db:"user_id_booking"`
}

// BookingSummary is a booking row with its field, venue and player count
type BookingSummary struct {
	Booking
	FieldName    string    `db:"field_name"`
	FieldType    FieldType `db:"field_type"`
	VenueID      int64     `db:"venue_id"`
	VenueName    string    `db:"venue_name"`
	PlayersCount int       `db:"players_count"`
}
