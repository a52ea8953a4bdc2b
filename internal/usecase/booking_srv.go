package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/request"
	"venue-booking/internal/dto/response"
	"venue-booking/internal/events"
	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

type BookingService interface {
	Create(ctx context.Context, userID, venueID int64, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	List(ctx context.Context, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	Get(ctx context.Context, id int64) (*response.BookingDetailResponse, error)
	Join(ctx context.Context, userID, id int64) error
	Unjoin(ctx context.Context, userID, id int64) error
	Schedule(ctx context.Context, userID int64) ([]response.BookingResponse, error)
}

type bookingService struct {
	repo      *repository.Repository
	publisher events.Publisher
	log       *zap.Logger
}

func NewBookingService(repo *repository.Repository, publisher events.Publisher, log *zap.Logger) BookingService {
	return &bookingService{
		repo:      repo,
		publisher: publisher,
		log:       log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) Create(ctx context.Context, userID, venueID int64, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	// 1. Validate request
	if err := validate(req); err != nil {
		s.log.Warn("Create booking validation failed", zap.Error(err))
		return nil, err
	}

	start, _ := utils.ParsePlayTime(req.PlayDateStart)
	end, _ := utils.ParsePlayTime(req.PlayDateEnd)
	if !end.After(start) {
		return nil, validationError(map[string]string{
			"play_date_end": "Must be after play_date_start",
		})
	}

	// 2. Field must exist and sit in the path's venue
	field, err := s.repo.Field.FindByID(ctx, req.FieldID)
	if err != nil {
		return nil, fmt.Errorf("find field: %w", err)
	}
	if field == nil || field.VenueID != venueID {
		s.log.Warn("Field not in venue",
			zap.Int64("field_id", req.FieldID),
			zap.Int64("venue_id", venueID))
		return nil, fmt.Errorf("field with ID %d is not in this venue: %w", req.FieldID, ErrNotFound)
	}

	// 3. Booking and the booker's join row, atomically
	booking := &entity.Booking{
		PlayDateStart: start,
		PlayDateEnd:   end,
		FieldID:       field.ID,
		UserIDBooking: userID,
	}
	if err := s.repo.Booking.CreateWithParticipant(ctx, booking); err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingOverlap):
			return nil, fmt.Errorf("field %d already booked in that range: %w", field.ID, ErrConflict)
		case errors.Is(err, repository.ErrFieldGone):
			return nil, fmt.Errorf("field with ID %d is not in this venue: %w", field.ID, ErrNotFound)
		default:
			return nil, fmt.Errorf("create booking: %w", err)
		}
	}

	s.log.Info("Booking created",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("field_id", field.ID),
		zap.Int64("user_id", userID))

	// 4. Notify; the booking is already committed
	event := events.BookingCreated{
		BookingID:     booking.ID,
		FieldID:       field.ID,
		FieldName:     field.Name,
		VenueID:       venueID,
		UserID:        userID,
		PlayDateStart: booking.PlayDateStart,
		PlayDateEnd:   booking.PlayDateEnd,
		CreatedAt:     booking.CreatedAt,
	}
	if err := s.publisher.PublishBookingCreated(ctx, event); err != nil {
		s.log.Error("Failed to publish booking event",
			zap.Error(err),
			zap.Int64("booking_id", booking.ID))
	}

	resp := response.NewBookingResponse(booking)
	resp.FieldName = field.Name
	resp.FieldType = field.Type
	resp.VenueID = venueID
	return &resp, nil
}

func (s *bookingService) List(ctx context.Context, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	filter := repository.BookingFilter{FieldID: req.FieldID}
	if req.PlayDate != "" {
		day, err := time.ParseInLocation(playDateLayout, req.PlayDate, time.Local)
		if err != nil {
			return nil, validationError(map[string]string{"play_date": "Must be a date like 2006-01-02"})
		}
		filter.Day = day
	}

	limit, offset := req.Limit(), req.Offset()

	bookings, err := s.repo.Booking.FindAll(ctx, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	total, err := s.repo.Booking.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	page := req.Page
	if page < 1 {
		page = 1
	}

	return response.NewPaginatedResponse(response.BookingsToResponse(bookings), page, limit, total), nil
}

func (s *bookingService) Get(ctx context.Context, id int64) (*response.BookingDetailResponse, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	players, err := s.repo.Booking.FindPlayers(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("find players: %w", err)
	}

	resp := response.BookingDetailToResponse(booking, players)
	return &resp, nil
}

func (s *bookingService) Join(ctx context.Context, userID, id int64) error {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Booking.Join(ctx, userID, booking.ID); err != nil {
		if errors.Is(err, repository.ErrAlreadyJoined) {
			return fmt.Errorf("booking %d: %w", id, ErrConflict)
		}
		return fmt.Errorf("join booking: %w", err)
	}

	s.log.Info("User joined booking",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("user_id", userID))
	return nil
}

func (s *bookingService) Unjoin(ctx context.Context, userID, id int64) error {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Booking.Unjoin(ctx, userID, booking.ID); err != nil {
		if errors.Is(err, repository.ErrNotJoined) {
			return fmt.Errorf("booking %d: %w", id, ErrConflict)
		}
		return fmt.Errorf("unjoin booking: %w", err)
	}

	s.log.Info("User left booking",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("user_id", userID))
	return nil
}

func (s *bookingService) Schedule(ctx context.Context, userID int64) ([]response.BookingResponse, error) {
	bookings, err := s.repo.Booking.FindJoinedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find schedule: %w", err)
	}
	return response.BookingsToResponse(bookings), nil
}

func (s *bookingService) findBooking(ctx context.Context, id int64) (*entity.BookingSummary, error) {
	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %d: %w", id, ErrNotFound)
	}
	return booking, nil
}
