package adaptor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"venue-booking/internal/dto/request"
	"venue-booking/internal/dto/response"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAuth struct {
	err error
}

func (s stubAuth) Register(context.Context, *request.RegisterRequest) (*response.UserResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &response.UserResponse{ID: 1, Email: "a@example.com"}, nil
}

func (s stubAuth) Login(context.Context, *request.LoginRequest, usecase.ClientInfo) (*response.TokenResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &response.TokenResponse{Token: "tok", Type: "bearer"}, nil
}

func (s stubAuth) VerifyOTP(context.Context, *request.VerifyOTPRequest) error { return s.err }

func (s stubAuth) Logout(context.Context, uuid.UUID) error { return s.err }

func (s stubAuth) Me(context.Context, int64) (*response.UserResponse, error) {
	return &response.UserResponse{ID: 1}, s.err
}

type stubBooking struct {
	err        error
	gotVenueID int64
	gotList    *request.BookingListRequest
}

func (s *stubBooking) Create(_ context.Context, _ int64, venueID int64, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	s.gotVenueID = venueID
	if s.err != nil {
		return nil, s.err
	}
	return &response.BookingResponse{ID: 9, FieldID: req.FieldID, PlayersCount: 1}, nil
}

func (s *stubBooking) List(_ context.Context, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	s.gotList = req
	return response.NewPaginatedResponse([]response.BookingResponse{}, req.Page, req.Limit(), 0), s.err
}

func (s *stubBooking) Get(context.Context, int64) (*response.BookingDetailResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &response.BookingDetailResponse{}, nil
}

func (s *stubBooking) Join(context.Context, int64, int64) error   { return s.err }
func (s *stubBooking) Unjoin(context.Context, int64, int64) error { return s.err }

func (s *stubBooking) Schedule(context.Context, int64) ([]response.BookingResponse, error) {
	return []response.BookingResponse{}, s.err
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var body utils.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func asUser(r *http.Request) *http.Request {
	ctx := utils.SetUserContext(r.Context(), 5, "user", true)
	ctx = utils.SetSessionContext(ctx, uuid.New())
	return r.WithContext(ctx)
}

func TestAuthHandler_ErrorMapping(t *testing.T) {
	validation := &usecase.ValidationError{Fields: map[string]string{"email": "Invalid email format"}}

	tests := []struct {
		name     string
		call     func(h *AuthHandler) http.HandlerFunc
		err      error
		body     string
		wantCode int
		wantMsg  string
	}{
		{"register ok", func(h *AuthHandler) http.HandlerFunc { return h.Register }, nil, `{}`, http.StatusCreated, "Register Success, please verify your otp code"},
		{"register validation", func(h *AuthHandler) http.HandlerFunc { return h.Register }, validation, `{}`, http.StatusUnprocessableEntity, "validation failed"},
		{"register duplicate", func(h *AuthHandler) http.HandlerFunc { return h.Register }, fmt.Errorf("x: %w", usecase.ErrAlreadyExists), `{}`, http.StatusBadRequest, "email already registered"},
		{"register bad json", func(h *AuthHandler) http.HandlerFunc { return h.Register }, nil, `{`, http.StatusBadRequest, "Invalid request body"},
		{"login ok", func(h *AuthHandler) http.HandlerFunc { return h.Login }, nil, `{}`, http.StatusOK, "login success"},
		{"login bad credentials", func(h *AuthHandler) http.HandlerFunc { return h.Login }, usecase.ErrInvalidCredentials, `{}`, http.StatusBadRequest, "login error"},
		{"login validation", func(h *AuthHandler) http.HandlerFunc { return h.Login }, validation, `{}`, http.StatusBadRequest, "login error"},
		{"otp ok", func(h *AuthHandler) http.HandlerFunc { return h.VerifyOTP }, nil, `{}`, http.StatusOK, "OTP verification success"},
		{"otp unknown email", func(h *AuthHandler) http.HandlerFunc { return h.VerifyOTP }, fmt.Errorf("x: %w", usecase.ErrNotFound), `{}`, http.StatusNotFound, "email not found"},
		{"otp mismatch", func(h *AuthHandler) http.HandlerFunc { return h.VerifyOTP }, usecase.ErrInvalidOTP, `{}`, http.StatusBadRequest, "OTP verification failed"},
		{"otp internal", func(h *AuthHandler) http.HandlerFunc { return h.VerifyOTP }, fmt.Errorf("db gone"), `{}`, http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(stubAuth{err: tt.err}, zap.NewNop())
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			tt.call(h)(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeBody(t, rec).Message)
		})
	}
}

func TestAuthHandler_LogoutNeedsSession(t *testing.T) {
	h := NewAuthHandler(stubAuth{}, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/v1/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.Logout(rec, asUser(httptest.NewRequest(http.MethodPost, "/api/v1/logout", nil)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func bookingRouter(svc *stubBooking) *chi.Mux {
	h := NewBookingHandler(svc, zap.NewNop())
	r := chi.NewRouter()
	r.Post("/venues/{id}/bookings", h.Book)
	r.Get("/bookings", h.Index)
	r.Get("/bookings/{id}", h.Show)
	r.Put("/bookings/{id}/join", h.Join)
	r.Put("/bookings/{id}/unjoin", h.Unjoin)
	return r
}

func TestBookingHandler_Book(t *testing.T) {
	body := `{"field_id":3,"play_date_start":"2026-03-10 08:00:00","play_date_end":"2026-03-10 10:00:00"}`

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"created", nil, http.StatusCreated, "booking created"},
		{"field in another venue", fmt.Errorf("x: %w", usecase.ErrNotFound), http.StatusNotFound, "field with ID 3 is not in this venue"},
		{"overlap", fmt.Errorf("x: %w", usecase.ErrConflict), http.StatusConflict, "field is already booked for that time"},
		{"validation", &usecase.ValidationError{Fields: map[string]string{"play_date_end": "Must be after play_date_start"}}, http.StatusBadRequest, "validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubBooking{err: tt.err}
			req := asUser(httptest.NewRequest(http.MethodPost, "/venues/12/bookings", strings.NewReader(body)))
			rec := httptest.NewRecorder()

			bookingRouter(svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeBody(t, rec).Message)
			assert.Equal(t, int64(12), svc.gotVenueID)
		})
	}
}

func TestBookingHandler_Book_Unauthenticated(t *testing.T) {
	svc := &stubBooking{}
	rec := httptest.NewRecorder()
	bookingRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/venues/12/bookings", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, svc.gotVenueID)
}

func TestBookingHandler_Index(t *testing.T) {
	svc := &stubBooking{}
	rec := httptest.NewRecorder()
	bookingRouter(svc).ServeHTTP(rec, asUser(httptest.NewRequest(http.MethodGet, "/bookings?page=2&per_page=5&field_id=7&play_date=2026-03-10", nil)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.gotList)
	assert.Equal(t, 2, svc.gotList.Page)
	assert.Equal(t, 5, svc.gotList.PerPage)
	assert.Equal(t, int64(7), svc.gotList.FieldID)
	assert.Equal(t, "2026-03-10", svc.gotList.PlayDate)

	rec = httptest.NewRecorder()
	bookingRouter(svc).ServeHTTP(rec, asUser(httptest.NewRequest(http.MethodGet, "/bookings?field_id=abc", nil)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookingHandler_JoinUnjoin(t *testing.T) {
	conflict := fmt.Errorf("x: %w", usecase.ErrConflict)

	tests := []struct {
		name     string
		path     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"join", "/bookings/4/join", nil, http.StatusOK, "joined booking"},
		{"join twice", "/bookings/4/join", conflict, http.StatusConflict, "already joined this booking"},
		{"unjoin not joined", "/bookings/4/unjoin", conflict, http.StatusConflict, "not joined to this booking"},
		{"join missing booking", "/bookings/4/join", fmt.Errorf("x: %w", usecase.ErrNotFound), http.StatusNotFound, "resource not found"},
		{"bad id", "/bookings/abc/join", nil, http.StatusNotFound, "booking not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			bookingRouter(&stubBooking{err: tt.err}).ServeHTTP(rec, asUser(httptest.NewRequest(http.MethodPut, tt.path, nil)))
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeBody(t, rec).Message)
		})
	}
}

func TestCommonError_Forbidden(t *testing.T) {
	rec := httptest.NewRecorder()
	handleCommonError(rec, zap.NewNop(), fmt.Errorf("venue 1: %w", usecase.ErrForbidden), "update venue", http.StatusUnprocessableEntity)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "access denied", decodeBody(t, rec).Message)
}

func TestCommonError_ValidationCode(t *testing.T) {
	verr := &usecase.ValidationError{Fields: map[string]string{"name": "This field is required"}}

	for _, code := range []int{http.StatusUnprocessableEntity, http.StatusBadRequest} {
		rec := httptest.NewRecorder()
		handleCommonError(rec, zap.NewNop(), verr, "store", code)

		assert.Equal(t, code, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "validation failed", body.Message)
		assert.Equal(t, map[string]any{"name": "This field is required"}, body.Error)
	}
}
