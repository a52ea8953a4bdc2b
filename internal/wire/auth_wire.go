package wire

import (
	"venue-booking/internal/adaptor"
	"venue-booking/internal/data/repository"
	"venue-booking/pkg/middleware"
	"venue-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	repo *repository.Repository,
	config *utils.Config,
	infra Infra,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(config.RateLimit, infra.Redis, log))

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/verifikasi-otp", authHandler.VerifyOTP)
	})

	// ==================== PROTECTED ROUTES ====================
	// verification is not required to log out or read the profile
	r.Group(func(r chi.Router) {
		r.Use(authChain(repo, config, log))

		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})
}
