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

type VenueRepository interface {
	Create(ctx context.Context, venue *entity.Venue) error
	FindAll(ctx context.Context) ([]*entity.Venue, error)
	FindByID(ctx context.Context, id int64) (*entity.Venue, error)
	Update(ctx context.Context, venue *entity.Venue) error
	Delete(ctx context.Context, id int64) error
}

type venueRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewVenueRepository(db database.PgxIface, log *zap.Logger) VenueRepository {
	return &venueRepository{
		db:  db,
		log: log.With(zap.String("repository", "venue")),
	}
}

func (r *venueRepository) Create(ctx context.Context, venue *entity.Venue) error {
	query := `
		INSERT INTO venues (name, phone, address, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		venue.Name,
		venue.Phone,
		venue.Address,
		venue.UserID,
	).Scan(&venue.ID, &venue.CreatedAt, &venue.UpdatedAt)

	if err != nil {
		r.log.Error("Failed to create venue",
			zap.Error(err),
			zap.String("name", venue.Name),
			zap.Int64("user_id", venue.UserID),
		)
		return fmt.Errorf("create venue %s: %w", venue.Name, err)
	}

	return nil
}

// FindAll returns every venue with its fields preloaded
func (r *venueRepository) FindAll(ctx context.Context) ([]*entity.Venue, error) {
	query := `
		SELECT id, name, phone, address, user_id, created_at, updated_at
		FROM venues
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find all venues", zap.Error(err))
		return nil, fmt.Errorf("find all venues: %w", err)
	}
	defer rows.Close()

	venues := []*entity.Venue{}
	byID := map[int64]*entity.Venue{}
	ids := []int64{}
	for rows.Next() {
		var venue entity.Venue
		err := rows.Scan(
			&venue.ID,
			&venue.Name,
			&venue.Phone,
			&venue.Address,
			&venue.UserID,
			&venue.CreatedAt,
			&venue.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan venue row", zap.Error(err))
			return nil, fmt.Errorf("scan venue row: %w", err)
		}
		venue.Fields = []*entity.Field{}
		venues = append(venues, &venue)
		byID[venue.ID] = &venue
		ids = append(ids, venue.ID)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate venue rows: %w", err)
	}

	if len(ids) == 0 {
		return venues, nil
	}

	fields, err := r.findFields(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, field := range fields {
		if venue, ok := byID[field.VenueID]; ok {
			venue.Fields = append(venue.Fields, field)
		}
	}

	return venues, nil
}

// FindByID returns the venue with its fields, or nil when it does not exist
func (r *venueRepository) FindByID(ctx context.Context, id int64) (*entity.Venue, error) {
	query := `
		SELECT id, name, phone, address, user_id, created_at, updated_at
		FROM venues
		WHERE id = $1
	`

	var venue entity.Venue
	err := r.db.QueryRow(ctx, query, id).Scan(
		&venue.ID,
		&venue.Name,
		&venue.Phone,
		&venue.Address,
		&venue.UserID,
		&venue.CreatedAt,
		&venue.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find venue by ID",
			zap.Error(err),
			zap.Int64("venue_id", id),
		)
		return nil, fmt.Errorf("find venue by ID %d: %w", id, err)
	}

	fields, err := r.findFields(ctx, []int64{venue.ID})
	if err != nil {
		return nil, err
	}
	venue.Fields = fields

	return &venue, nil
}

func (r *venueRepository) findFields(ctx context.Context, venueIDs []int64) ([]*entity.Field, error) {
	query := `
		SELECT id, name, type, venue_id, created_at, updated_at
		FROM fields
		WHERE venue_id = ANY($1)
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, venueIDs)
	if err != nil {
		r.log.Error("Failed to load venue fields",
			zap.Error(err),
			zap.Int64s("venue_ids", venueIDs),
		)
		return nil, fmt.Errorf("load venue fields: %w", err)
	}
	defer rows.Close()

	fields, err := scanFields(rows)
	if err != nil {
		r.log.Error("Failed to scan field row", zap.Error(err))
		return nil, err
	}

	return fields, nil
}

func (r *venueRepository) Update(ctx context.Context, venue *entity.Venue) error {
	query := `
		UPDATE venues
		SET name = $2, phone = $3, address = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		venue.ID,
		venue.Name,
		venue.Phone,
		venue.Address,
	).Scan(&venue.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("venue %d not found", venue.ID)
	}
	if err != nil {
		r.log.Error("Failed to update venue",
			zap.Error(err),
			zap.Int64("venue_id", venue.ID),
		)
		return fmt.Errorf("update venue %d: %w", venue.ID, err)
	}

	return nil
}

// Delete removes the venue. Fields, their bookings and join rows go with it
// through ON DELETE CASCADE.
func (r *venueRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM venues WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete venue",
			zap.Error(err),
			zap.Int64("venue_id", id),
		)
		return fmt.Errorf("delete venue %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("venue %d not found", id)
	}

	return nil
}
