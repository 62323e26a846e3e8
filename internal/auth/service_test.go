package auth

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	pkgauth "github.com/kanakjewels/kanak-backend/pkg/auth"
	"github.com/kanakjewels/kanak-backend/pkg/config"
	"github.com/kanakjewels/kanak-backend/pkg/db/models"
	pkgerrors "github.com/kanakjewels/kanak-backend/pkg/errors"
	"github.com/kanakjewels/kanak-backend/pkg/logger"
	"github.com/kanakjewels/kanak-backend/pkg/security"
)

type stubRepo struct {
	admins map[string]*models.AdminUser
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }
func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	return s.admins[email], nil
}
func (s *stubRepo) Create(ctx context.Context, admin *models.AdminUser) error { return nil }

type stubSessions struct {
	opened  []string
	revoked []string
}

func (s *stubSessions) Open(ctx context.Context, accessID string) error {
	s.opened = append(s.opened, accessID)
	return nil
}
func (s *stubSessions) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

var testJWT = config.JWTConfig{
	Secret:            "test-secret-string-needs-length",
	Issuer:            "kanak-test",
	ExpirationMinutes: 15,
}

func newTestService(t *testing.T, repo Repository, sessions SessionStore) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	svc, err := NewService(Deps{Repo: repo, Sessions: sessions, JWT: testJWT, Logger: logg})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func adminWithPassword(t *testing.T, email, password string) *models.AdminUser {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return &models.AdminUser{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}
}

func TestLoginSuccess(t *testing.T) {
	admin := adminWithPassword(t, "ops@kanakjewels.in", "velvet-box-9")
	repo := &stubRepo{admins: map[string]*models.AdminUser{"ops@kanakjewels.in": admin}}
	sessions := &stubSessions{}
	svc := newTestService(t, repo, sessions)

	token, err := svc.Login(context.Background(), "ops@kanakjewels.in", "velvet-box-9")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if len(sessions.opened) != 1 {
		t.Fatalf("expected one opened session, got %d", len(sessions.opened))
	}

	claims, err := pkgauth.ParseAccessToken(testJWT, token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.AdminID != admin.ID || claims.Email != admin.Email {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.ID != sessions.opened[0] {
		t.Fatalf("token jti %q must match the opened session %q", claims.ID, sessions.opened[0])
	}
}

func TestLoginWrongPassword(t *testing.T) {
	admin := adminWithPassword(t, "ops@kanakjewels.in", "velvet-box-9")
	repo := &stubRepo{admins: map[string]*models.AdminUser{"ops@kanakjewels.in": admin}}
	svc := newTestService(t, repo, &stubSessions{})

	_, err := svc.Login(context.Background(), "ops@kanakjewels.in", "wrong")
	if err == nil {
		t.Fatal("expected rejection")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}

func TestLoginUnknownEmailAndInactive(t *testing.T) {
	inactive := adminWithPassword(t, "gone@kanakjewels.in", "pw")
	inactive.IsActive = false
	repo := &stubRepo{admins: map[string]*models.AdminUser{"gone@kanakjewels.in": inactive}}
	svc := newTestService(t, repo, &stubSessions{})

	for _, email := range []string{"nobody@kanakjewels.in", "gone@kanakjewels.in"} {
		_, err := svc.Login(context.Background(), email, "pw")
		if err == nil {
			t.Fatalf("%s: expected rejection", email)
		}
		if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("%s: expected UNAUTHORIZED, got %v", email, err)
		}
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &stubSessions{}
	svc := newTestService(t, &stubRepo{}, sessions)

	if err := svc.Logout(context.Background(), "access-1"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "access-1" {
		t.Fatalf("expected revoked access-1, got %+v", sessions.revoked)
	}

	if err := svc.Logout(context.Background(), ""); err == nil {
		t.Fatal("expected validation error for empty access id")
	}
}

func TestTokenExpiryMatchesConfig(t *testing.T) {
	admin := adminWithPassword(t, "ops@kanakjewels.in", "pw")
	repo := &stubRepo{admins: map[string]*models.AdminUser{"ops@kanakjewels.in": admin}}
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})

	issued := time.Now().UTC().Truncate(time.Second)
	svc, err := NewService(Deps{
		Repo: repo, Sessions: &stubSessions{}, JWT: testJWT, Logger: logg,
		Now: func() time.Time { return issued },
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	token, err := svc.Login(context.Background(), "ops@kanakjewels.in", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims, err := pkgauth.ParseAccessToken(testJWT, token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	want := issued.Add(15 * time.Minute)
	if !claims.ExpiresAt.Time.Equal(want) {
		t.Fatalf("expiry: got %v, want %v", claims.ExpiresAt.Time, want)
	}
}
