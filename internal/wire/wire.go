// internal/wire/wire.go
package wire

import (
	"context"
	"net/http"
	"time"

	"venue-booking/internal/adaptor"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/events"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/mailer"
	"venue-booking/pkg/middleware"
	"venue-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Infra holds the outbound clients built in main. Redis may be nil.
type Infra struct {
	DB        Pinger
	Redis     *redis.Client
	Mailer    mailer.Mailer
	Publisher events.Publisher
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	Router *chi.Mux
}

func Wiring(repo *repository.Repository, config *utils.Config, infra Infra, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, infra.Mailer, infra.Publisher, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, config, infra, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	infra Infra,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	r.Route("/api/v1", func(r chi.Router) {
		wireAuth(r, handler.Auth, repo, config, infra, logger)
		wireVenue(r, handler.Venue, handler.Field, repo, config, logger)
		wireBooking(r, handler.Booking, repo, config, logger)
	})

	r.Get("/health", healthHandler(infra.DB))

	return r
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				utils.ResponseJSON(w, http.StatusServiceUnavailable, "database unavailable", nil, err.Error())
				return
			}
		}
		utils.ResponseSuccess(w, "OK", nil)
	}
}

// authChain is bearer token + live session + user lookup
func authChain(repo *repository.Repository, config *utils.Config, log *zap.Logger) func(http.Handler) http.Handler {
	return middleware.AuthToken(config.JWT.Secret, repo.Session, repo.User, log)
}
