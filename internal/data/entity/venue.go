package entity

type Venue struct {
	Base
	Name    string `db:"name"`
	Phone   string `db:"phone"`
	Address string `db:"address"`
	UserID  int64  `db:"user_id"` // owner

	Fields []*Field `db:"-"`
}
