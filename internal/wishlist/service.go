// Package wishlist tracks the products a storefront session has saved.
package wishlist

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kanakjewels/kanak-backend/pkg/db"
	"github.com/kanakjewels/kanak-backend/pkg/db/models"
	pkgerrors "github.com/kanakjewels/kanak-backend/pkg/errors"
	"github.com/kanakjewels/kanak-backend/pkg/logger"
)

// Service exposes wishlist operations for a storefront session.
type Service interface {
	List(ctx context.Context, sessionID string) ([]models.WishlistItem, error)
	Add(ctx context.Context, sessionID string, productID uuid.UUID) error
	Remove(ctx context.Context, sessionID string, productID uuid.UUID) error
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// Deps wires the wishlist service.
type Deps struct {
	Repo   Repository
	Logger *logger.Logger
}

// NewService builds the wishlist service.
func NewService(deps Deps) (Service, error) {
	if deps.Repo == nil {
		return nil, fmt.Errorf("wishlist: repository is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("wishlist: logger is required")
	}
	return &service{repo: deps.Repo, logg: deps.Logger}, nil
}

func (s *service) List(ctx context.Context, sessionID string) ([]models.WishlistItem, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	items, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist")
	}
	return items, nil
}

// Add is idempotent: saving an already-saved product is not an error.
func (s *service) Add(ctx context.Context, sessionID string, productID uuid.UUID) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	err := s.repo.Add(ctx, &models.WishlistItem{SessionID: sessionID, ProductID: productID})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add wishlist item")
	}
	return nil
}

func (s *service) Remove(ctx context.Context, sessionID string, productID uuid.UUID) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.repo.Remove(ctx, sessionID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist item")
	}
	return nil
}
