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
	"venue-booking/pkg/mailer"
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const tokenType = "bearer"

// ClientInfo is stored on the session created at login
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error)
	Login(ctx context.Context, req *request.LoginRequest, client ClientInfo) (*response.TokenResponse, error)
	VerifyOTP(ctx context.Context, req *request.VerifyOTPRequest) error
	Logout(ctx context.Context, sessionID uuid.UUID) error
	Me(ctx context.Context, userID int64) (*response.UserResponse, error)
}

type authService struct {
	repo   *repository.Repository // grouping userRepo, sessionRepo, & otpRepo
	config *utils.Config
	mail   mailer.Mailer
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	mail mailer.Mailer,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		mail:   mail,
		log:    log.With(zap.String("service", "auth")),
		now:    time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error) {
	// 1. Validate input
	if err := validate(req); err != nil {
		s.log.Warn("Register validation failed", zap.Error(err))
		return nil, err
	}

	// 2. Email must be unused
	existingUser, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existingUser != nil {
		return nil, fmt.Errorf("email already registered: %w", ErrAlreadyExists)
	}

	// 3. Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 4. Save user, always unverified
	user := &entity.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         entity.UserRole(req.Role),
		IsVerified:   false,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	// 5. Issue OTP
	otp := &entity.OTPCode{
		UserID:    user.ID,
		OTPCode:   utils.GenerateOTP(s.config.OTP.Length),
		ExpiresAt: s.now().Add(time.Duration(s.config.OTP.ExpiryMinutes) * time.Minute),
	}
	if err := s.repo.OTP.Create(ctx, otp); err != nil {
		return nil, fmt.Errorf("create otp: %w", err)
	}

	// 6. Mail it. The account stays registered if delivery fails.
	msg := mailer.OTPVerification(user.Email, otp.OTPCode, s.config.OTP.ExpiryMinutes)
	if err := s.mail.Send(ctx, msg); err != nil {
		s.log.Error("Failed to send OTP email",
			zap.Error(err),
			zap.String("email", user.Email),
			zap.Int64("user_id", user.ID))
	}

	s.log.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, client ClientInfo) (*response.TokenResponse, error) {
	// 1. Validate
	if err := validate(req); err != nil {
		s.log.Warn("Login validation failed", zap.Error(err))
		return nil, err
	}

	// 2. Find user
	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		s.log.Warn("User not found for login", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	// 3. Check password
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.Int64("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	// 4. Create session, its ID becomes the token jti
	now := s.now()
	session := &entity.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		UserAgent: optional(client.UserAgent),
		IPAddress: optional(client.IPAddress),
		ExpiresAt: now.Add(time.Duration(s.config.JWT.ExpiryHours) * time.Hour),
		CreatedAt: now,
	}
	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	// 5. Sign token
	token, err := utils.SignToken(s.config.JWT.Secret, user.ID, string(user.Role), session.ID, session.ExpiresAt)
	if err != nil {
		s.log.Error("Failed to sign token", zap.Error(err), zap.Int64("user_id", user.ID))
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.log.Info("User logged in",
		zap.Int64("user_id", user.ID),
		zap.String("session_id", session.ID.String()))

	return &response.TokenResponse{
		Token:     token,
		Type:      tokenType,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *authService) VerifyOTP(ctx context.Context, req *request.VerifyOTPRequest) error {
	// 1. Validate
	if err := validate(req); err != nil {
		s.log.Warn("OTP validation failed", zap.Error(err))
		return err
	}

	// 2. Find user by email
	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("email %s: %w", req.Email, ErrNotFound)
	}

	// 3. Code must belong to this user, be unused and unexpired
	otp, err := s.repo.OTP.FindValidOTP(ctx, user.ID, req.OTPCode)
	if err != nil {
		return fmt.Errorf("find otp: %w", err)
	}
	if otp == nil {
		s.log.Warn("OTP mismatch", zap.Int64("user_id", user.ID))
		return ErrInvalidOTP
	}

	// 4. Burn the code and verify, atomically
	if err := s.repo.OTP.Redeem(ctx, otp.ID, user.ID); err != nil {
		if errors.Is(err, repository.ErrOTPUsed) {
			s.log.Warn("OTP redeemed concurrently", zap.Int64("user_id", user.ID))
			return ErrInvalidOTP
		}
		return fmt.Errorf("redeem otp: %w", err)
	}

	s.log.Info("Email verified",
		zap.String("email", user.Email),
		zap.Int64("user_id", user.ID))

	return nil
}

func (s *authService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.repo.Session.Revoke(ctx, sessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	s.log.Info("User logged out", zap.String("session_id", sessionID.String()))
	return nil
}

func (s *authService) Me(ctx context.Context, userID int64) (*response.UserResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
