// Package auth signs admin users in and out. Tokens are short-lived JWTs
// backed by a revocable Redis session.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/kanakjewels/kanak-backend/pkg/auth"
	"github.com/kanakjewels/kanak-backend/pkg/auth/session"
	"github.com/kanakjewels/kanak-backend/pkg/config"
	pkgerrors "github.com/kanakjewels/kanak-backend/pkg/errors"
	"github.com/kanakjewels/kanak-backend/pkg/logger"
	"github.com/kanakjewels/kanak-backend/pkg/security"
)

// Service exposes admin sign-in and sign-out.
type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, accessID string) error
}

// SessionStore opens and revokes admin sessions.
type SessionStore interface {
	Open(ctx context.Context, accessID string) error
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	repo     Repository
	sessions SessionStore
	jwtCfg   config.JWTConfig
	logg     *logger.Logger
	now      func() time.Time
}

// Deps wires the auth service. Sessions is satisfied by *session.Manager.
type Deps struct {
	Repo     Repository
	Sessions SessionStore
	JWT      config.JWTConfig
	Logger   *logger.Logger
	Now      func() time.Time
}

// NewService builds the auth service.
func NewService(deps Deps) (Service, error) {
	if deps.Repo == nil {
		return nil, fmt.Errorf("auth: repository is required")
	}
	if deps.Sessions == nil {
		return nil, fmt.Errorf("auth: session manager is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("auth: logger is required")
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &service{
		repo:     deps.Repo,
		sessions: deps.Sessions,
		jwtCfg:   deps.JWT,
		logg:     deps.Logger,
		now:      deps.Now,
	}, nil
}

// Login verifies the credentials and mints an access token. Every failure
// path returns the same unauthorized error so the response does not reveal
// whether the email exists.
func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	admin, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up admin")
	}
	if admin == nil || !admin.IsActive {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}

	ok, err := security.VerifyPassword(password, admin.PasswordHash)
	if err != nil || !ok {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}

	accessID := session.NewAccessID()
	token, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		AdminID: admin.ID,
		Email:   admin.Email,
		JTI:     accessID,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	if err := s.sessions.Open(ctx, accessID); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open session")
	}

	s.logg.Info(s.logg.WithAdminID(ctx, admin.ID.String()), "admin signed in")
	return token, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if accessID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "access id is required")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}
