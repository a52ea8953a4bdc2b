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

type FieldRepository interface {
	Create(ctx context.Context, field *entity.Field) error
	FindByID(ctx context.Context, id int64) (*entity.Field, error)
	FindByIDAndVenue(ctx context.Context, id, venueID int64) (*entity.Field, error)
	FindByVenueID(ctx context.Context, venueID int64) ([]*entity.Field, error)
	Update(ctx context.Context, field *entity.Field) error
	Delete(ctx context.Context, id int64) error
}

type fieldRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewFieldRepository(db database.PgxIface, log *zap.Logger) FieldRepository {
	return &fieldRepository{
		db:  db,
		log: log.With(zap.String("repository", "field")),
	}
}

const fieldColumns = `id, name, type, venue_id, created_at, updated_at`

func (r *fieldRepository) Create(ctx context.Context, field *entity.Field) error {
	query := `
		INSERT INTO fields (name, type, venue_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		field.Name,
		field.Type,
		field.VenueID,
	).Scan(&field.ID, &field.CreatedAt, &field.UpdatedAt)

	if err != nil {
		r.log.Error("Failed to create field",
			zap.Error(err),
			zap.String("name", field.Name),
			zap.Int64("venue_id", field.VenueID),
		)
		return fmt.Errorf("create field %s: %w", field.Name, err)
	}

	return nil
}

func (r *fieldRepository) FindByID(ctx context.Context, id int64) (*entity.Field, error) {
	query := `SELECT ` + fieldColumns + ` FROM fields WHERE id = $1`

	field, err := scanField(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find field by ID",
			zap.Error(err),
			zap.Int64("field_id", id),
		)
		return nil, fmt.Errorf("find field by ID %d: %w", id, err)
	}

	return field, nil
}

func (r *fieldRepository) FindByIDAndVenue(ctx context.Context, id, venueID int64) (*entity.Field, error) {
	query := `SELECT ` + fieldColumns + ` FROM fields WHERE id = $1 AND venue_id = $2`

	field, err := scanField(r.db.QueryRow(ctx, query, id, venueID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find field by venue",
			zap.Error(err),
			zap.Int64("field_id", id),
			zap.Int64("venue_id", venueID),
		)
		return nil, fmt.Errorf("find field %d in venue %d: %w", id, venueID, err)
	}

	return field, nil
}

func (r *fieldRepository) FindByVenueID(ctx context.Context, venueID int64) ([]*entity.Field, error) {
	query := `SELECT ` + fieldColumns + ` FROM fields WHERE venue_id = $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, venueID)
	if err != nil {
		r.log.Error("Failed to find fields by venue",
			zap.Error(err),
			zap.Int64("venue_id", venueID),
		)
		return nil, fmt.Errorf("find fields by venue %d: %w", venueID, err)
	}
	defer rows.Close()

	fields, err := scanFields(rows)
	if err != nil {
		r.log.Error("Failed to scan field row", zap.Error(err))
		return nil, err
	}

	return fields, nil
}

func (r *fieldRepository) Update(ctx context.Context, field *entity.Field) error {
	query := `
		UPDATE fields
		SET name = $2, type = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		field.ID,
		field.Name,
		field.Type,
	).Scan(&field.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("field %d not found", field.ID)
	}
	if err != nil {
		r.log.Error("Failed to update field",
			zap.Error(err),
			zap.Int64("field_id", field.ID),
		)
		return fmt.Errorf("update field %d: %w", field.ID, err)
	}

	return nil
}

func (r *fieldRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM fields WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete field",
			zap.Error(err),
			zap.Int64("field_id", id),
		)
		return fmt.Errorf("delete field %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("field %d not found", id)
	}

	return nil
}

func scanField(row pgx.Row) (*entity.Field, error) {
	var field entity.Field
	err := row.Scan(
		&field.ID,
		&field.Name,
		&field.Type,
		&field.VenueID,
		&field.CreatedAt,
		&field.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &field, nil
}

func scanFields(rows pgx.Rows) ([]*entity.Field, error) {
	fields := []*entity.Field{}
	for rows.Next() {
		field, err := scanField(rows)
		if err != nil {
			return nil, fmt.Errorf("scan field row: %w", err)
		}
		fields = append(fields, field)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate field rows: %w", err)
	}

	return fields, nil
}
