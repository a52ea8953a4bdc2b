package usecase

import (
	"context"
	"fmt"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/request"
	"venue-booking/internal/dto/response"

	"go.uber.org/zap"
)

const playDateLayout = "2006-01-02"

type VenueService interface {
	List(ctx context.Context) ([]response.VenueResponse, error)
	Create(ctx context.Context, ownerID int64, req *request.VenueRequest) (*response.VenueResponse, error)
	Get(ctx context.Context, id int64, playDate string) (*response.VenueResponse, error)
	Update(ctx context.Context, ownerID, id int64, req *request.VenueRequest) (*response.VenueResponse, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

type venueService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewVenueService(repo *repository.Repository, log *zap.Logger) VenueService {
	return &venueService{
		repo: repo,
		log:  log.With(zap.String("service", "venue")),
	}
}

func (s *venueService) List(ctx context.Context) ([]response.VenueResponse, error) {
	venues, err := s.repo.Venue.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	return response.VenuesToResponse(venues), nil
}

func (s *venueService) Create(ctx context.Context, ownerID int64, req *request.VenueRequest) (*response.VenueResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create venue validation failed", zap.Error(err))
		return nil, err
	}

	venue := &entity.Venue{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		UserID:  ownerID,
		Fields:  []*entity.Field{},
	}
	if err := s.repo.Venue.Create(ctx, venue); err != nil {
		return nil, fmt.Errorf("create venue: %w", err)
	}

	s.log.Info("Venue created",
		zap.Int64("venue_id", venue.ID),
		zap.Int64("owner_id", ownerID))

	resp := response.VenueToResponse(venue)
	return &resp, nil
}

// Get returns the venue with its fields. A non-empty playDate (YYYY-MM-DD)
// also attaches that day's bookings to each field.
func (s *venueService) Get(ctx context.Context, id int64, playDate string) (*response.VenueResponse, error) {
	var day time.Time
	if playDate != "" {
		parsed, err := time.ParseInLocation(playDateLayout, playDate, time.Local)
		if err != nil {
			return nil, validationError(map[string]string{"play_date": "Must be a date like 2006-01-02"})
		}
		day = parsed
	}

	venue, err := s.repo.Venue.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find venue: %w", err)
	}
	if venue == nil {
		return nil, fmt.Errorf("venue %d: %w", id, ErrNotFound)
	}

	if day.IsZero() {
		resp := response.VenueToResponse(venue)
		return &resp, nil
	}

	bookings, err := s.repo.Booking.FindByVenueAndDay(ctx, venue.ID, day)
	if err != nil {
		return nil, fmt.Errorf("find venue bookings: %w", err)
	}

	resp := response.VenueWithBookings(venue, bookings)
	return &resp, nil
}

func (s *venueService) Update(ctx context.Context, ownerID, id int64, req *request.VenueRequest) (*response.VenueResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Update venue validation failed", zap.Error(err))
		return nil, err
	}

	venue, err := s.ownedVenue(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	venue.Name = req.Name
	venue.Phone = req.Phone
	venue.Address = req.Address
	if err := s.repo.Venue.Update(ctx, venue); err != nil {
		return nil, fmt.Errorf("update venue: %w", err)
	}

	s.log.Info("Venue updated", zap.Int64("venue_id", venue.ID))

	resp := response.VenueToResponse(venue)
	return &resp, nil
}

func (s *venueService) Delete(ctx context.Context, ownerID, id int64) error {
	venue, err := s.ownedVenue(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Venue.Delete(ctx, venue.ID); err != nil {
		return fmt.Errorf("delete venue: %w", err)
	}

	s.log.Info("Venue deleted",
		zap.Int64("venue_id", venue.ID),
		zap.Int64("owner_id", ownerID))
	return nil
}

func (s *venueService) ownedVenue(ctx context.Context, ownerID, id int64) (*entity.Venue, error) {
	return loadOwnedVenue(ctx, s.repo.Venue, s.log, ownerID, id)
}

// loadOwnedVenue returns ErrNotFound for a missing venue and ErrForbidden
// when ownerID does not own it.
func loadOwnedVenue(ctx context.Context, venues repository.VenueRepository, log *zap.Logger, ownerID, id int64) (*entity.Venue, error) {
	venue, err := venues.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find venue: %w", err)
	}
	if venue == nil {
		return nil, fmt.Errorf("venue %d: %w", id, ErrNotFound)
	}
	if venue.UserID != ownerID {
		log.Warn("Venue ownership check failed",
			zap.Int64("venue_id", id),
			zap.Int64("owner_id", venue.UserID),
			zap.Int64("caller_id", ownerID))
		return nil, fmt.Errorf("venue %d: %w", id, ErrForbidden)
	}
	return venue, nil
}
