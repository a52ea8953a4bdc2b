package adaptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"venue-booking/internal/usecase"
	"venue-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	Auth    *AuthHandler
	Venue   *VenueHandler
	Field   *FieldHandler
	Booking *BookingHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		Venue:   NewVenueHandler(service.Venue, log),
		Field:   NewFieldHandler(service.Field, log),
		Booking: NewBookingHandler(service.Booking, log),
	}
}

// decodeJSON reads a single JSON object from the body. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// validationFields returns the per-field messages of a validation error
func validationFields(err error) any {
	var verr *usecase.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return err.Error()
}

func pathID(r *http.Request, name string) (int64, bool) {
	return utils.ParseID(chi.URLParam(r, name))
}

// currentUser is set by the auth middleware, so a miss means the route was wired without it
func currentUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
	}
	return userID, ok
}

// handleCommonError maps the sentinel errors shared by every handler.
// validationCode is 400 or 422 depending on the endpoint.
func handleCommonError(w http.ResponseWriter, log *zap.Logger, err error, operation string, validationCode int) {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		log.Warn(operation+" validation failed", zap.Error(err))
		if validationCode == http.StatusUnprocessableEntity {
			utils.ResponseUnprocessable(w, "validation failed", validationFields(err))
			return
		}
		utils.ResponseBadRequest(w, "validation failed", validationFields(err))

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, "resource not found")

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseUnauthorized(w, "access denied")

	case errors.Is(err, usecase.ErrConflict):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, "request conflicts with current state")

	case errors.Is(err, usecase.ErrAlreadyExists):
		log.Warn(operation+" failed - already exists", zap.Error(err))
		utils.ResponseBadRequest(w, "resource already exists", nil)

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
