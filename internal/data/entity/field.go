package entity

type FieldType string

const (
	FieldTypeSoccer     FieldType = "soccer"
	FieldTypeMiniSoccer FieldType = "minisoccer"
	FieldTypeFutsal     FieldType = "futsal"
	FieldTypeBasketball FieldType = "basketball"
	FieldTypeVolleyball FieldType = "volleyball"
)

type Field struct {
	Base
	Name    string    `db:"name"`
	Type    FieldType `db:"type"`
	VenueID int64     `db:"venue_id"`
}
