package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kanakjewels/kanak-backend/api/middleware"
	pkgerrors "github.com/kanakjewels/kanak-backend/pkg/errors"
)

func TestAuthLogin(t *testing.T) {
	logg := testLogger()

	t.Run("happy path", func(t *testing.T) {
		svc := &stubAuthService{token: "signed.jwt.token"}
		req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/login", strings.NewReader(`{"email":"admin@kanakjewels.in","password":"secret"}`))
		rec := httptest.NewRecorder()
		AuthLogin(svc, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var payload struct {
			Data loginResponse `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if payload.Data.AccessToken != "signed.jwt.token" {
			t.Fatalf("expected token in response, got %q", payload.Data.AccessToken)
		}
		if payload.Data.TokenType != "Bearer" {
			t.Fatalf("expected bearer token type, got %q", payload.Data.TokenType)
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")}
		req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/login", strings.NewReader(`{"email":"admin@kanakjewels.in","password":"wrong"}`))
		rec := httptest.NewRecorder()
		AuthLogin(svc, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("malformed email", func(t *testing.T) {
		svc := &stubAuthService{}
		req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/login", strings.NewReader(`{"email":"not-an-email","password":"secret"}`))
		rec := httptest.NewRecorder()
		AuthLogin(svc, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAuthLogout(t *testing.T) {
	logg := testLogger()

	t.Run("happy path", func(t *testing.T) {
		svc := &stubAuthService{}
		req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/logout", nil)
		req = req.WithContext(middleware.WithAccessID(req.Context(), "access-1"))
		rec := httptest.NewRecorder()
		AuthLogout(svc, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if svc.revoked != "access-1" {
			t.Fatalf("expected access id revoked, got %q", svc.revoked)
		}
	})

	t.Run("missing session context", func(t *testing.T) {
		svc := &stubAuthService{}
		req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/logout", nil)
		rec := httptest.NewRecorder()
		AuthLogout(svc, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

type stubAuthService struct {
	token   string
	err     error
	revoked string
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.token, nil
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error {
	if s.err != nil {
		return s.err
	}
	s.revoked = accessID
	return nil
}
