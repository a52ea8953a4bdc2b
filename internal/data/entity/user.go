package entity

type UserRole string

const (
	RoleOwner UserRole = "owner"
	RoleUser  UserRole = "user"
)

type User struct {
	Base
	Name         string   `db:"name"`
	Email        string   `db:"email"`
	PasswordHash string   `db:"password"`
	Role         UserRole `db:"role"`
	IsVerified   bool     `db:"is_verified"`
}
