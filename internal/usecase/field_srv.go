package usecase

import (
	"context"
	"fmt"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/request"
	"venue-booking/internal/dto/response"

	"go.uber.org/zap"
)

type FieldService interface {
	List(ctx context.Context, venueID int64) ([]response.FieldResponse, error)
	Get(ctx context.Context, venueID, id int64) (*response.FieldResponse, error)
	Create(ctx context.Context, ownerID, venueID int64, req *request.FieldRequest) (*response.FieldResponse, error)
	Update(ctx context.Context, ownerID, venueID, id int64, req *request.FieldRequest) (*response.FieldResponse, error)
	Delete(ctx context.Context, ownerID, venueID, id int64) error
}

type fieldService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewFieldService(repo *repository.Repository, log *zap.Logger) FieldService {
	return &fieldService{
		repo: repo,
		log:  log.With(zap.String("service", "field")),
	}
}

func (s *fieldService) List(ctx context.Context, venueID int64) ([]response.FieldResponse, error) {
	fields, err := s.repo.Field.FindByVenueID(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}
	return response.FieldsToResponse(fields), nil
}

func (s *fieldService) Get(ctx context.Context, venueID, id int64) (*response.FieldResponse, error) {
	field, err := s.repo.Field.FindByIDAndVenue(ctx, id, venueID)
	if err != nil {
		return nil, fmt.Errorf("find field: %w", err)
	}
	if field == nil {
		return nil, fmt.Errorf("field %d in venue %d: %w", id, venueID, ErrNotFound)
	}

	resp := response.FieldToResponse(field)
	return &resp, nil
}

func (s *fieldService) Create(ctx context.Context, ownerID, venueID int64, req *request.FieldRequest) (*response.FieldResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create field validation failed", zap.Error(err))
		return nil, err
	}

	venue, err := loadOwnedVenue(ctx, s.repo.Venue, s.log, ownerID, venueID)
	if err != nil {
		return nil, err
	}

	field := &entity.Field{
		Name:    req.Name,
		Type:    entity.FieldType(req.Type),
		VenueID: venue.ID,
	}
	if err := s.repo.Field.Create(ctx, field); err != nil {
		return nil, fmt.Errorf("create field: %w", err)
	}

	s.log.Info("Field created",
		zap.Int64("field_id", field.ID),
		zap.Int64("venue_id", venue.ID))

	resp := response.FieldToResponse(field)
	return &resp, nil
}

func (s *fieldService) Update(ctx context.Context, ownerID, venueID, id int64, req *request.FieldRequest) (*response.FieldResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Update field validation failed", zap.Error(err))
		return nil, err
	}

	field, err := s.ownedField(ctx, ownerID, venueID, id)
	if err != nil {
		return nil, err
	}

	field.Name = req.Name
	field.Type = entity.FieldType(req.Type)
	if err := s.repo.Field.Update(ctx, field); err != nil {
		return nil, fmt.Errorf("update field: %w", err)
	}

	s.log.Info("Field updated", zap.Int64("field_id", field.ID))

	resp := response.FieldToResponse(field)
	return &resp, nil
}

func (s *fieldService) Delete(ctx context.Context, ownerID, venueID, id int64) error {
	field, err := s.ownedField(ctx, ownerID, venueID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Field.Delete(ctx, field.ID); err != nil {
		return fmt.Errorf("delete field: %w", err)
	}

	s.log.Info("Field deleted",
		zap.Int64("field_id", field.ID),
		zap.Int64("venue_id", venueID))
	return nil
}

func (s *fieldService) ownedField(ctx context.Context, ownerID, venueID, id int64) (*entity.Field, error) {
	venue, err := loadOwnedVenue(ctx, s.repo.Venue, s.log, ownerID, venueID)
	if err != nil {
		return nil, err
	}

	field, err := s.repo.Field.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find field: %w", err)
	}
	if field == nil || field.VenueID != venue.ID {
		return nil, fmt.Errorf("field %d in venue %d: %w", id, venueID, ErrNotFound)
	}

	return field, nil
}
