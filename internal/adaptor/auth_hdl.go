package adaptor

import (
	"errors"
	"net"
	"net/http"

	"venue-booking/internal/dto/request"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// Register handles POST /api/v1/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "register")
		return
	}

	utils.ResponseCreated(w, "Register Success, please verify your otp code", user)
}

// Login handles POST /api/v1/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "login error", "Invalid request body")
		return
	}

	token, err := h.service.Login(r.Context(), &req, clientInfo(r))
	if err != nil {
		h.handleServiceError(w, err, "login")
		return
	}

	utils.ResponseSuccess(w, "login success", token)
}

// VerifyOTP handles POST /api/v1/verifikasi-otp
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "OTP verification failed", "Invalid request body")
		return
	}

	if err := h.service.VerifyOTP(r.Context(), &req); err != nil {
		h.handleServiceError(w, err, "verify otp")
		return
	}

	utils.ResponseSuccess(w, "OTP verification success", nil)
}

// Logout handles POST /api/v1/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := utils.GetSessionIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Logout(r.Context(), sessionID); err != nil {
		h.handleServiceError(w, err, "logout")
		return
	}

	utils.ResponseSuccess(w, "logout success", nil)
}

// Me handles GET /api/v1/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	user, err := h.service.Me(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err, "me")
		return
	}

	utils.ResponseSuccess(w, "success", user)
}

func (h *AuthHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch operation {
	case "login":
		switch {
		case errors.Is(err, usecase.ErrValidation):
			h.log.Warn("login validation failed", zap.Error(err))
			utils.ResponseBadRequest(w, "login error", validationFields(err))
			return
		case errors.Is(err, usecase.ErrInvalidCredentials):
			h.log.Warn("login failed - invalid credentials", zap.Error(err))
			utils.ResponseBadRequest(w, "login error", usecase.ErrInvalidCredentials.Error())
			return
		}

	case "verify otp":
		switch {
		case errors.Is(err, usecase.ErrNotFound):
			h.log.Warn("verify otp failed - email not found", zap.Error(err))
			utils.ResponseNotFound(w, "email not found")
			return
		case errors.Is(err, usecase.ErrValidation):
			h.log.Warn("verify otp validation failed", zap.Error(err))
			utils.ResponseBadRequest(w, "OTP verification failed", validationFields(err))
			return
		case errors.Is(err, usecase.ErrInvalidOTP):
			h.log.Warn("verify otp failed - invalid otp", zap.Error(err))
			utils.ResponseBadRequest(w, "OTP verification failed", nil)
			return
		}

	case "register":
		if errors.Is(err, usecase.ErrAlreadyExists) {
			h.log.Warn("register failed - email taken", zap.Error(err))
			utils.ResponseBadRequest(w, "email already registered", nil)
			return
		}
	}

	handleCommonError(w, h.log, err, operation, http.StatusUnprocessableEntity)
}

func clientInfo(r *http.Request) usecase.ClientInfo {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return usecase.ClientInfo{
		UserAgent: r.UserAgent(),
		IPAddress: ip,
	}
}
