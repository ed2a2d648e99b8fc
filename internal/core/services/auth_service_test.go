package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"dofe-kas/internal/adapters/persistence/models"
	"dofe-kas/internal/config"
	"dofe-kas/internal/core/domain"
	"dofe-kas/internal/pkg/password"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:            "test-access-secret",
			RefreshSecret:     "test-refresh-secret",
			AccessTokenMins:   15,
			RefreshTokenHours: 6,
			ResetTokenMins:    30,
		},
		Mail: config.MailConfig{
			EmailDomain: "@students.satyaterrabhinneka.ac.id",
			FrontendURL: "http://localhost:5173",
		},
	}
}

func newAuthFixture(t *testing.T) (*AuthService, *stubUserRepo, *stubMailer, *captureRecorder) {
	t.Helper()
	userRepo := newStubUserRepo()
	mailer := &stubMailer{}
	recorder := &captureRecorder{}
	svc := NewAuthService(userRepo, mailer, recorder, testConfig())

	hashed, err := password.Hash("rahasia123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := userRepo.Create(context.Background(), &models.User{
		Nama:     "Budi",
		NIM:      "210001",
		Password: hashed,
		Role:     domain.RoleAnggota,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return svc, userRepo, mailer, recorder
}

func TestLoginSuccess(t *testing.T) {
	svc, userRepo, _, recorder := newAuthFixture(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, "210001", "rahasia123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("expected both tokens")
	}
	if result.User.NIM != "210001" {
		t.Errorf("user nim = %s, want 210001", result.User.NIM)
	}

	// The refresh credential is stored hashed, never in the clear.
	stored, _ := userRepo.GetByID(ctx, result.User.ID)
	if stored.RefreshTokenHash == nil {
		t.Fatal("refresh credential not stored")
	}
	if *stored.RefreshTokenHash == result.RefreshToken {
		t.Error("refresh credential stored in the clear")
	}
	if stored.RefreshExpiresAt == nil {
		t.Error("refresh expiry not stored")
	}

	entry := recorder.last()
	if entry == nil || entry.Action != domain.AuditLogin {
		t.Errorf("expected login audit entry, got %+v", entry)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "210001", "salah")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownNIM(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "999999", "rahasia123")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}

func TestLoginReplacesRefreshCredential(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	first, err := svc.Login(ctx, "210001", "rahasia123")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	if _, err := svc.Login(ctx, "210001", "rahasia123"); err != nil {
		t.Fatalf("second login: %v", err)
	}

	// Only one refresh credential per member: the old one is dead.
	if _, err := svc.Refresh(ctx, first.RefreshToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("old credential err = %v, want ErrTokenInvalid", err)
	}
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, "210001", "rahasia123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	accessToken, err := svc.Refresh(ctx, result.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	claims, err := svc.ValidateAccessToken(accessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != result.User.ID {
		t.Errorf("claims user = %d, want %d", claims.UserID, result.User.ID)
	}
}

func TestRefreshUnknownCredential(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.Refresh(context.Background(), "not-a-stored-token")
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestLogoutInvalidatesCredential(t *testing.T) {
	svc, userRepo, _, recorder := newAuthFixture(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, "210001", "rahasia123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(ctx, result.RefreshToken); err != nil {
		t.Fatalf("logout: %v", err)
	}

	stored, _ := userRepo.GetByID(ctx, result.User.ID)
	if stored.RefreshTokenHash != nil {
		t.Error("refresh credential still stored after logout")
	}
	if _, err := svc.Refresh(ctx, result.RefreshToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("refresh after logout err = %v, want ErrTokenInvalid", err)
	}

	entry := recorder.last()
	if entry == nil || entry.Action != domain.AuditLogout {
		t.Errorf("expected logout audit entry, got %+v", entry)
	}
}

func TestChangePasswordValidation(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()
	caller := domain.Actor{ID: 1, Nama: "Budi", Role: domain.RoleAnggota}

	if err := svc.ChangePassword(ctx, caller, "barubaru1", "beda"); !errors.Is(err, domain.ErrPasswordMismatch) {
		t.Errorf("mismatch: err = %v, want ErrPasswordMismatch", err)
	}
	if err := svc.ChangePassword(ctx, caller, "pendek1", "pendek1"); !errors.Is(err, domain.ErrWeakPassword) {
		t.Errorf("short: err = %v, want ErrWeakPassword", err)
	}
	if err := svc.ChangePassword(ctx, caller, "hanyahuruf", "hanyahuruf"); !errors.Is(err, domain.ErrWeakPassword) {
		t.Errorf("letters only: err = %v, want ErrWeakPassword", err)
	}
}

func TestChangePasswordTakesEffect(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()
	caller := domain.Actor{ID: 1, Nama: "Budi", Role: domain.RoleAnggota}

	if err := svc.ChangePassword(ctx, caller, "barubaru1", "barubaru1"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	if _, err := svc.Login(ctx, "210001", "rahasia123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("old password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, "210001", "barubaru1"); err != nil {
		t.Errorf("new password login: %v", err)
	}
}

func TestRequestPasswordResetMailsStudentAddress(t *testing.T) {
	svc, _, mailer, _ := newAuthFixture(t)

	if err := svc.RequestPasswordReset(context.Background(), "210001"); err != nil {
		t.Fatalf("request reset: %v", err)
	}
	if mailer.to != "210001@students.satyaterrabhinneka.ac.id" {
		t.Errorf("mailed to %q, want the student address", mailer.to)
	}
	if !strings.HasPrefix(mailer.link, "http://localhost:5173/reset-password/") {
		t.Errorf("reset link = %q, want frontend reset path", mailer.link)
	}
}

func TestResetPasswordRoundTrip(t *testing.T) {
	svc, _, mailer, _ := newAuthFixture(t)
	ctx := context.Background()

	if err := svc.RequestPasswordReset(ctx, "210001"); err != nil {
		t.Fatalf("request reset: %v", err)
	}
	token := strings.TrimPrefix(mailer.link, "http://localhost:5173/reset-password/")

	if err := svc.ResetPassword(ctx, token, "resetbaru1", "resetbaru1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := svc.Login(ctx, "210001", "resetbaru1"); err != nil {
		t.Errorf("login after reset: %v", err)
	}
}

func TestResetPasswordBadToken(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	err := svc.ResetPassword(context.Background(), "garbage.token.here", "resetbaru1", "resetbaru1")
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}
