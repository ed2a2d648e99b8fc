package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"dofe-kas/internal/adapters/persistence/models"
	"dofe-kas/internal/adapters/persistence/repositories"
	"dofe-kas/internal/config"
	"dofe-kas/internal/core/domain"
	"dofe-kas/internal/pkg/jwt"
	"dofe-kas/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo repositories.UserRepository
	mailer   Mailer
	audit    AuditRecorder
	cfg      *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	mailer Mailer,
	audit AuditRecorder,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		mailer:   mailer,
		audit:    audit,
		cfg:      cfg,
	}
}

// AuthResult represents a successful authentication
type AuthResult struct {
	User         *models.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"-"`
}

// Login authenticates a member by NIM and password.
func (s *AuthService) Login(ctx context.Context, nim, pass string) (*AuthResult, error) {
	// 1. Find user by NIM
	user, err := s.userRepo.GetByNIM(ctx, nim)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	// 2. Verify password
	if !password.Verify(pass, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	// 3. Generate tokens
	accessToken, err := jwt.GenerateAccessToken(
		user.ID, user.Nama, string(user.Role),
		s.cfg.JWT.Secret, s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.GenerateRefreshToken(
		user.ID, uuid.New().String(),
		s.cfg.JWT.RefreshSecret, s.cfg.JWT.RefreshTokenHours,
	)
	if err != nil {
		return nil, err
	}

	// 4. Store the single active refresh credential (hashed)
	tokenHash := password.HashToken(refreshToken)
	expiresAt := jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenHours)
	if err := s.userRepo.SetRefreshToken(ctx, user.ID, &tokenHash, &expiresAt); err != nil {
		return nil, err
	}

	actor := domain.Actor{ID: user.ID, Nama: user.Nama, Role: user.Role}
	s.audit.Append(ctx, AuditEntry{
		Action:      domain.AuditLogin,
		Description: fmt.Sprintf("%s masuk ke sistem", user.Nama),
		Actor:       &actor,
	})

	log.Printf("✅ User logged in: %s", user.NIM)

	return &AuthResult{
		User:         user.ToResponse(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh exchanges a valid refresh cookie for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	// 1. The credential must match the stored hash of some member
	tokenHash := password.HashToken(refreshToken)
	user, err := s.userRepo.GetByRefreshTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrTokenInvalid
		}
		return "", err
	}

	// 2. And still verify as a JWT
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrTokenInvalid
	}
	if claims.UserID != user.ID {
		return "", domain.ErrTokenInvalid
	}

	return jwt.GenerateAccessToken(
		user.ID, user.Nama, string(user.Role),
		s.cfg.JWT.Secret, s.cfg.JWT.AccessTokenMins,
	)
}

// Logout invalidates the refresh credential.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := password.HashToken(refreshToken)
	user, err := s.userRepo.GetByRefreshTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrTokenInvalid
		}
		return err
	}

	if err := s.userRepo.SetRefreshToken(ctx, user.ID, nil, nil); err != nil {
		return err
	}

	actor := domain.Actor{ID: user.ID, Nama: user.Nama, Role: user.Role}
	s.audit.Append(ctx, AuditEntry{
		Action:      domain.AuditLogout,
		Description: fmt.Sprintf("%s keluar dari sistem", user.Nama),
		Actor:       &actor,
	})

	log.Printf("✅ User logged out: %s", user.NIM)
	return nil
}

// ChangePassword sets a new password for the calling member.
func (s *AuthService) ChangePassword(ctx context.Context, caller domain.Actor, pass, confPass string) error {
	if pass != confPass {
		return domain.ErrPasswordMismatch
	}
	if !password.Validate(pass) {
		return domain.ErrWeakPassword
	}

	user, err := s.userRepo.GetByID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	hashed, err := password.Hash(pass)
	if err != nil {
		return err
	}

	user.Password = hashed
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.audit.Append(ctx, AuditEntry{
		Action:      domain.AuditUserUpdated,
		Description: fmt.Sprintf("%s mengubah password", user.Nama),
		Actor:       &caller,
	})

	return nil
}

// RequestPasswordReset mails a short-lived reset link to the member's
// student address derived from the NIM.
func (s *AuthService) RequestPasswordReset(ctx context.Context, nim string) error {
	user, err := s.userRepo.GetByNIM(ctx, nim)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	resetToken, err := jwt.GenerateResetToken(user.ID, s.cfg.JWT.Secret, s.cfg.JWT.ResetTokenMins)
	if err != nil {
		return err
	}

	email := nim + s.cfg.Mail.EmailDomain
	resetLink := fmt.Sprintf("%s/reset-password/%s", s.cfg.Mail.FrontendURL, resetToken)

	return s.mailer.SendPasswordReset(email, user.Nama, resetLink)
}

// ResetPassword sets a new password from a reset token.
func (s *AuthService) ResetPassword(ctx context.Context, token, pass, confPass string) error {
	if pass != confPass {
		return domain.ErrPasswordMismatch
	}
	if !password.Validate(pass) {
		return domain.ErrWeakPassword
	}

	claims, err := jwt.ValidateResetToken(token, s.cfg.JWT.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.ErrTokenExpired
		}
		return domain.ErrTokenInvalid
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	hashed, err := password.Hash(pass)
	if err != nil {
		return err
	}

	user.Password = hashed
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.audit.Append(ctx, AuditEntry{
		Action:      domain.AuditUserUpdated,
		Description: fmt.Sprintf("%s mengatur ulang password melalui email", user.Nama),
		TargetID:    &user.ID,
		TargetName:  &user.Nama,
	})

	return nil
}

// ValidateAccessToken validates an access token for the auth middleware.
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	return jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
}
