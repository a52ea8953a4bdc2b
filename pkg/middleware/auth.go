package middleware

import (
	"context"
	"net/http"
	"strings"

	"venue-booking/internal/data/entity"
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SessionFinder interface {
	FindValidSession(ctx context.Context, id uuid.UUID) (*entity.Session, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*entity.User, error)
}

// AuthToken validates the bearer JWT, requires its session to still be live
// and loads the user so Verified and Role see current data.
func AuthToken(secret string, sessions SessionFinder, users UserFinder, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			userID, sessionID, _, err := utils.ParseToken(secret, strings.TrimSpace(token))
			if err != nil {
				logger.Warn("Rejected bearer token", zap.Error(err))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			// Find live session
			session, err := sessions.FindValidSession(r.Context(), sessionID)
			if err != nil {
				logger.Error("Failed to validate session",
					zap.String("session_id", sessionID.String()),
					zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}
			if session == nil || session.UserID != userID {
				logger.Warn("Invalid or revoked session", zap.String("session_id", sessionID.String()))
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				logger.Error("Failed to load token user",
					zap.Int64("user_id", userID),
					zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}
			if user == nil {
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			ctx := utils.SetUserContext(r.Context(), user.ID, string(user.Role), user.IsVerified)
			ctx = utils.SetSessionContext(ctx, session.ID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Verified rejects users who have not confirmed their OTP yet
func Verified(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !utils.IsVerifiedFromContext(r.Context()) {
				userID, _ := utils.GetUserIDFromContext(r.Context())
				logger.Warn("Unverified account blocked",
					zap.Int64("user_id", userID),
					zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "account not verified")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Role only lets the given role through
func Role(role entity.UserRole, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current, ok := utils.GetRoleFromContext(r.Context())
			if !ok || current != string(role) {
				userID, _ := utils.GetUserIDFromContext(r.Context())
				logger.Warn("Role check failed",
					zap.Int64("user_id", userID),
					zap.String("role", current),
					zap.String("required", string(role)),
					zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
