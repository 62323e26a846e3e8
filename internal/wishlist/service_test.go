package wishlist

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/kanakjewels/kanak-backend/pkg/db/models"
	pkgerrors "github.com/kanakjewels/kanak-backend/pkg/errors"
	"github.com/kanakjewels/kanak-backend/pkg/logger"
)

type stubRepo struct {
	addErr error
	items  []models.WishlistItem
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }
func (s *stubRepo) ListBySession(ctx context.Context, sessionID string) ([]models.WishlistItem, error) {
	return s.items, nil
}
func (s *stubRepo) Add(ctx context.Context, item *models.WishlistItem) error {
	if s.addErr != nil {
		return s.addErr
	}
	s.items = append(s.items, *item)
	return nil
}
func (s *stubRepo) Remove(ctx context.Context, sessionID string, productID uuid.UUID) error {
	return nil
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	svc, err := NewService(Deps{Repo: repo, Logger: logg})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestAddAndList(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo)

	productID := uuid.New()
	if err := svc.Add(context.Background(), "sess-1", productID); err != nil {
		t.Fatalf("Add: %v", err)
	}

	items, err := svc.List(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].ProductID != productID {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestAddDuplicateIsIdempotent(t *testing.T) {
	repo := &stubRepo{addErr: &pq.Error{Code: "23505"}}
	svc := newTestService(t, repo)

	if err := svc.Add(context.Background(), "sess-1", uuid.New()); err != nil {
		t.Fatalf("duplicate add must succeed silently, got %v", err)
	}
}

func TestAddSurfacesOtherErrors(t *testing.T) {
	repo := &stubRepo{addErr: errors.New("connection reset")}
	svc := newTestService(t, repo)

	err := svc.Add(context.Background(), "sess-1", uuid.New())
	if err == nil {
		t.Fatal("expected error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected DEPENDENCY_ERROR, got %v", err)
	}
}

func TestValidationGuards(t *testing.T) {
	svc := newTestService(t, &stubRepo{})

	if _, err := svc.List(context.Background(), ""); err == nil {
		t.Fatal("expected validation error for empty session")
	}
	if err := svc.Add(context.Background(), "sess-1", uuid.Nil); err == nil {
		t.Fatal("expected validation error for nil product id")
	}
}
