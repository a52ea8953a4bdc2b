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

func wireVenue(
	r chi.Router,
	venueHandler *adaptor.VenueHandler,
	fieldHandler *adaptor.FieldHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== OWNER ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(authChain(repo, config, log))
		r.Use(middleware.Verified(log))
		r.Use(middleware.Role(entity.RoleOwner, log))

		r.Get("/venues", venueHandler.Index)
		r.Post("/venues", venueHandler.Store)
		r.Get("/venues/{id}", venueHandler.Show)
		r.Put("/venues/{id}", venueHandler.Update)
		r.Delete("/venues/{id}", venueHandler.Destroy)

		r.Route("/venues/{venue_id}/fields", func(r chi.Router) {
			r.Get("/", fieldHandler.Index)
			r.Post("/", fieldHandler.Store)
			r.Get("/{id}", fieldHandler.Show)
			r.Put("/{id}", fieldHandler.Update)
			r.Delete("/{id}", fieldHandler.Destroy)
		})
	})
}
