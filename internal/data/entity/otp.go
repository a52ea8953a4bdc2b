package entity

import "time"

type OTPCode struct {
	BaseSimple
	UserID    int64      `db:"user_id"`
	OTPCode   string     `db:"otp_code"`
	ExpiresAt time.Time  `db:"expires_at"`
	UsedAt    *time.Time `db:"used_at"`
}
