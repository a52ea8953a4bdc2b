package usecase

import (
	"venue-booking/internal/data/repository"
	"venue-booking/internal/events"
	"venue-booking/pkg/mailer"
	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	Venue   VenueService
	Field   FieldService
	Booking BookingService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	mail mailer.Mailer,
	publisher events.Publisher,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:    NewAuthService(repo, config, mail, log),
		Venue:   NewVenueService(repo, log),
		Field:   NewFieldService(repo, log),
		Booking: NewBookingService(repo, publisher, log),
	}
}
