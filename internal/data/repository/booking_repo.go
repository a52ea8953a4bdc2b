package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var (
	ErrBookingOverlap = errors.New("booking overlaps an existing booking on this field")
	ErrFieldGone      = errors.New("field no longer exists")
	ErrAlreadyJoined  = errors.New("user already joined this booking")
	ErrNotJoined      = errors.New("user has not joined this booking")
)

// BookingFilter narrows FindAll and CountAll. Zero values mean no filter.
type BookingFilter struct {
	FieldID int64
	Day     time.Time
}

type BookingRepository interface {
	CreateWithParticipant(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id int64) (*entity.BookingSummary, error)
	FindAll(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.BookingSummary, error)
	CountAll(ctx context.Context, filter BookingFilter) (int64, error)
	FindByVenueAndDay(ctx context.Context, venueID int64, day time.Time) ([]*entity.BookingSummary, error)
	FindJoinedByUser(ctx context.Context, userID int64) ([]*entity.BookingSummary, error)
	FindPlayers(ctx context.Context, bookingID int64) ([]*entity.User, error)
	Join(ctx context.Context, userID, bookingID int64) error
	Unjoin(ctx context.Context, userID, bookingID int64) error
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingSummarySelect = `
	SELECT b.id, b.play_date_start, b.play_date_end, b.field_id, b.user_id_booking,
	       b.created_at, b.updated_at,
	       f.name, f.type, v.id, v.name,
	       (SELECT COUNT(*) FROM user_has_bookings uhb WHERE uhb.booking_id = b.id) AS players_count
	FROM bookings b
	JOIN fields f ON f.id = b.field_id
	JOIN venues v ON v.id = f.venue_id
`

// CreateWithParticipant inserts the booking and the booker's join row in one
// transaction. The field row is locked first so concurrent bookings on the
// same field are checked for overlap one at a time.
func (r *bookingRepository) CreateWithParticipant(ctx context.Context, booking *entity.Booking) error {
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var fieldID int64
		err := tx.QueryRow(ctx, `SELECT id FROM fields WHERE id = $1 FOR UPDATE`, booking.FieldID).Scan(&fieldID)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrFieldGone
		}
		if err != nil {
			return fmt.Errorf("lock field %d: %w", booking.FieldID, err)
		}

		var overlap bool
		err = tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM bookings
				WHERE field_id = $1
				  AND play_date_start < $3
				  AND play_date_end > $2
			)
		`, booking.FieldID, booking.PlayDateStart, booking.PlayDateEnd).Scan(&overlap)
		if err != nil {
			return fmt.Errorf("check booking overlap: %w", err)
		}
		if overlap {
			return ErrBookingOverlap
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO bookings (play_date_start, play_date_end, field_id, user_id_booking)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at, updated_at
		`,
			booking.PlayDateStart,
			booking.PlayDateEnd,
			booking.FieldID,
			booking.UserIDBooking,
		).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO user_has_bookings (user_id, booking_id)
			VALUES ($1, $2)
		`, booking.UserIDBooking, booking.ID)
		if err != nil {
			return fmt.Errorf("insert booking participant: %w", err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrBookingOverlap) || errors.Is(err, ErrFieldGone) {
			r.log.Warn("Booking rejected",
				zap.Error(err),
				zap.Int64("field_id", booking.FieldID),
				zap.Int64("user_id", booking.UserIDBooking),
			)
			return err
		}
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.Int64("field_id", booking.FieldID),
			zap.Int64("user_id", booking.UserIDBooking),
		)
		return fmt.Errorf("create booking on field %d: %w", booking.FieldID, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id int64) (*entity.BookingSummary, error) {
	query := bookingSummarySelect + ` WHERE b.id = $1`

	booking, err := scanBookingSummary(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.Int64("booking_id", id),
		)
		return nil, fmt.Errorf("find booking by ID %d: %w", id, err)
	}

	return booking, nil
}

func buildBookingFilter(filter BookingFilter) (string, []interface{}) {
	var clauses []string
	args := []interface{}{}
	argCount := 1

	if filter.FieldID > 0 {
		clauses = append(clauses, fmt.Sprintf("b.field_id = $%d", argCount))
		args = append(args, filter.FieldID)
		argCount++
	}

	if !filter.Day.IsZero() {
		start := dayStart(filter.Day)
		clauses = append(clauses, fmt.Sprintf("b.play_date_start >= $%d AND b.play_date_start < $%d", argCount, argCount+1))
		args = append(args, start, start.AddDate(0, 0, 1))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *bookingRepository) FindAll(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.BookingSummary, error) {
	where, args := buildBookingFilter(filter)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(bookingSummarySelect)
	queryBuilder.WriteString(where)
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY b.play_date_start LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find all bookings",
			zap.Error(err),
			zap.Int64("field_id", filter.FieldID),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all bookings limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	return r.collectSummaries(rows)
}

func (r *bookingRepository) CountAll(ctx context.Context, filter BookingFilter) (int64, error) {
	where, args := buildBookingFilter(filter)
	query := `SELECT COUNT(*) FROM bookings b` + where

	var total int64
	err := r.db.QueryRow(ctx, query, args...).Scan(&total)
	if err != nil {
		r.log.Error("Failed to count bookings",
			zap.Error(err),
			zap.Int64("field_id", filter.FieldID),
		)
		return 0, fmt.Errorf("count all bookings: %w", err)
	}

	return total, nil
}

// FindByVenueAndDay lists the bookings of every field in the venue that
// start on the given calendar day.
func (r *bookingRepository) FindByVenueAndDay(ctx context.Context, venueID int64, day time.Time) ([]*entity.BookingSummary, error) {
	start := dayStart(day)
	query := bookingSummarySelect + `
		WHERE v.id = $1
		  AND b.play_date_start >= $2
		  AND b.play_date_start < $3
		ORDER BY b.field_id, b.play_date_start
	`

	rows, err := r.db.Query(ctx, query, venueID, start, start.AddDate(0, 0, 1))
	if err != nil {
		r.log.Error("Failed to find bookings by venue and day",
			zap.Error(err),
			zap.Int64("venue_id", venueID),
			zap.Time("day", start),
		)
		return nil, fmt.Errorf("find bookings for venue %d: %w", venueID, err)
	}
	defer rows.Close()

	return r.collectSummaries(rows)
}

// FindJoinedByUser is the user's play schedule
func (r *bookingRepository) FindJoinedByUser(ctx context.Context, userID int64) ([]*entity.BookingSummary, error) {
	query := bookingSummarySelect + `
		JOIN user_has_bookings me ON me.booking_id = b.id
		WHERE me.user_id = $1
		ORDER BY b.play_date_start
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find joined bookings",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return nil, fmt.Errorf("find bookings joined by user %d: %w", userID, err)
	}
	defer rows.Close()

	return r.collectSummaries(rows)
}

func (r *bookingRepository) FindPlayers(ctx context.Context, bookingID int64) ([]*entity.User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.role, u.is_verified, u.created_at, u.updated_at
		FROM user_has_bookings uhb
		JOIN users u ON u.id = uhb.user_id
		WHERE uhb.booking_id = $1
		ORDER BY uhb.created_at, u.id
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find booking players",
			zap.Error(err),
			zap.Int64("booking_id", bookingID),
		)
		return nil, fmt.Errorf("find players of booking %d: %w", bookingID, err)
	}
	defer rows.Close()

	players := []*entity.User{}
	for rows.Next() {
		var user entity.User
		err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.Role,
			&user.IsVerified,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan player row", zap.Error(err))
			return nil, fmt.Errorf("scan player row: %w", err)
		}
		players = append(players, &user)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate player rows: %w", err)
	}

	return players, nil
}

func (r *bookingRepository) Join(ctx context.Context, userID, bookingID int64) error {
	query := `
		INSERT INTO user_has_bookings (user_id, booking_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, booking_id) DO NOTHING
	`

	result, err := r.db.Exec(ctx, query, userID, bookingID)
	if err != nil {
		r.log.Error("Failed to join booking",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.Int64("booking_id", bookingID),
		)
		return fmt.Errorf("join booking %d: %w", bookingID, err)
	}

	if result.RowsAffected() == 0 {
		return ErrAlreadyJoined
	}

	return nil
}

func (r *bookingRepository) Unjoin(ctx context.Context, userID, bookingID int64) error {
	query := `DELETE FROM user_has_bookings WHERE user_id = $1 AND booking_id = $2`

	result, err := r.db.Exec(ctx, query, userID, bookingID)
	if err != nil {
		r.log.Error("Failed to unjoin booking",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.Int64("booking_id", bookingID),
		)
		return fmt.Errorf("unjoin booking %d: %w", bookingID, err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotJoined
	}

	return nil
}

func (r *bookingRepository) collectSummaries(rows pgx.Rows) ([]*entity.BookingSummary, error) {
	bookings := []*entity.BookingSummary{}
	for rows.Next() {
		booking, err := scanBookingSummary(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

func scanBookingSummary(row pgx.Row) (*entity.BookingSummary, error) {
	var b entity.BookingSummary
	err := row.Scan(
		&b.ID,
		&b.PlayDateStart,
		&b.PlayDateEnd,
		&b.FieldID,
		&b.UserIDBooking,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.FieldName,
		&b.FieldType,
		&b.VenueID,
		&b.VenueName,
		&b.PlayersCount,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
