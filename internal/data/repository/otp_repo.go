package repository

import (
	"context"
	"errors"
	"fmt"

	"venue-booking/internal/data/entity"
	"venue-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ErrOTPUsed means another request burned the code first
var ErrOTPUsed = errors.New("otp already used")

type OTPRepository interface {
	Create(ctx context.Context, otp *entity.OTPCode) error
	FindValidOTP(ctx context.Context, userID int64, otpCode string) (*entity.OTPCode, error)
	Redeem(ctx context.Context, otpID, userID int64) error
}

type otpRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOTPRepository(db database.PgxIface, log *zap.Logger) OTPRepository {
	return &otpRepository{
		db:  db,
		log: log.With(zap.String("repository", "otp")),
	}
}

func (r *otpRepository) Create(ctx context.Context, otp *entity.OTPCode) error {
	query := `
		INSERT INTO otp_codes (user_id, otp_code, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		otp.UserID,
		otp.OTPCode,
		otp.ExpiresAt,
	).Scan(&otp.ID, &otp.CreatedAt)

	if err != nil {
		r.log.Error("Failed to create OTP",
			zap.Error(err),
			zap.Int64("user_id", otp.UserID),
		)
		return fmt.Errorf("create OTP for user %d: %w", otp.UserID, err)
	}

	return nil
}

// FindValidOTP only matches codes issued to userID, so two users holding
// the same digits never verify each other.
func (r *otpRepository) FindValidOTP(ctx context.Context, userID int64, otpCode string) (*entity.OTPCode, error) {
	query := `
		SELECT id, user_id, otp_code, expires_at, used_at, created_at
		FROM otp_codes
		WHERE user_id = $1
		  AND otp_code = $2
		  AND used_at IS NULL
		  AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`

	var otp entity.OTPCode
	err := r.db.QueryRow(ctx, query, userID, otpCode).Scan(
		&otp.ID,
		&otp.UserID,
		&otp.OTPCode,
		&otp.ExpiresAt,
		&otp.UsedAt,
		&otp.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find valid OTP",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return nil, fmt.Errorf("find valid OTP for user %d: %w", userID, err)
	}

	return &otp, nil
}

// Redeem burns the code and verifies its user in one transaction.
// Losing a race for the same code returns ErrOTPUsed and changes nothing.
func (r *otpRepository) Redeem(ctx context.Context, otpID, userID int64) error {
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx,
			`UPDATE otp_codes SET used_at = NOW() WHERE id = $1 AND user_id = $2 AND used_at IS NULL`,
			otpID, userID)
		if err != nil {
			return fmt.Errorf("mark OTP %d as used: %w", otpID, err)
		}
		if result.RowsAffected() == 0 {
			return ErrOTPUsed
		}

		result, err = tx.Exec(ctx,
			`UPDATE users SET is_verified = TRUE, updated_at = NOW() WHERE id = $1`,
			userID)
		if err != nil {
			return fmt.Errorf("verify user %d: %w", userID, err)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("user %d not found", userID)
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrOTPUsed) {
		r.log.Error("Failed to redeem OTP",
			zap.Error(err),
			zap.Int64("otp_id", otpID),
			zap.Int64("user_id", userID),
		)
	}
	return err
}
