package wire

import (
	"venue-booking/internal/adaptor"
	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/pkg/middleware"
	"venue-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PLAYER ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(authChain(repo, config, log))
		r.Use(middleware.Verified(log))
		r.Use(middleware.Role(entity.RoleUser, log))

		r.Post("/venues/{id}/bookings", bookingHandler.Book)
		r.Get("/schedule", bookingHandler.Schedule)
		r.Get("/bookings", bookingHandler.Index)
		r.Get("/bookings/{id}", bookingHandler.Show)
		r.Put("/bookings/{id}/join", bookingHandler.Join)
		r.Put("/bookings/{id}/unjoin", bookingHandler.Unjoin)
	})
}
