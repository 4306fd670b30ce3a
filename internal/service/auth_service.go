package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-storefront/internal/model"
	"go-storefront/internal/repository"
	"go-storefront/pkg/jwt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	ValidateToken(ctx context.Context, token string) (*TokenValidationResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error
	ResetPassword(ctx context.Context, email, newPassword string) error
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type LoginResponse struct {
	Token      string             `json:"token"`
	ExpiresAt  time.Time          `json:"expires_at"`
	User       model.UserResponse `json:"user"`
	Privileges []string           `json:"privileges"`
}

type TokenValidationResponse struct {
	User       model.UserResponse `json:"user"`
	Privileges []string           `json:"privileges"`
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
	log      *zap.Logger
	now      func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager, log *zap.Logger) AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &authService{userRepo: userRepo, tokens: tokens, log: log.Named("auth"), now: time.Now}
}

// Login checks credentials and starts a new session. Tokens of any earlier
// session stop working.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if !user.CheckPassword(password) {
		s.log.Info("login rejected", zap.String("email", user.Email))
		return nil, ErrInvalidCredentials
	}

	version := uuid.NewString()
	now := s.now()
	if err := s.userRepo.StartSession(ctx, user.ID, version, now); err != nil {
		return nil, err
	}
	user.SessionVersion = version
	user.LastLoginAt = &now

	token, err := s.tokens.Generate(user.ID, user.Email, user.FullName, user.RoleCode(), user.PrivilegeCodes(), version)
	if err != nil {
		return nil, err
	}

	s.log.Info("login", zap.String("email", user.Email), zap.String("role", user.RoleCode()))
	return &LoginResponse{
		Token:      token,
		ExpiresAt:  now.Add(s.tokens.TTL()),
		User:       user.ToResponse(),
		Privileges: user.PrivilegeCodes(),
	}, nil
}

func (s *authService) ValidateToken(ctx context.Context, token string) (*TokenValidationResponse, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, wrapKind(ErrUnauthorized, err)
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, wrapKind(ErrUnauthorized, ErrUserNotFound)
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if user.SessionVersion != claims.SessionVersion {
		return nil, ErrSessionReplaced
	}
	return &TokenValidationResponse{
		User:       user.ToResponse(),
		Privileges: user.PrivilegeCodes(),
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error {
	if err := validate(req); err != nil {
		return err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return notFound(err, ErrUserNotFound)
	}
	if !user.CheckPassword(req.OldPassword) {
		return ErrWrongPassword
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, user.ID, user.Password)
}

// ResetPassword sets a new password without the old one and ends the user's
// session. It backs the operator command line tool.
func (s *authService) ResetPassword(ctx context.Context, email, newPassword string) error {
	if len(newPassword) < 6 {
		return invalidf("password must be at least 6 characters")
	}
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return notFound(err, ErrUserNotFound)
	}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return err
	}
	if err := s.userRepo.StartSession(ctx, user.ID, uuid.NewString(), s.now()); err != nil {
		return err
	}
	s.log.Info("password reset", zap.String("email", user.Email))
	return nil
}
