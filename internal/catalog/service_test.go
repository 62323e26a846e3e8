package catalog

import (
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/kanakjewels/kanak-backend/internal/pricing"
	"github.com/kanakjewels/kanak-backend/internal/pricingcfg"
	"github.com/kanakjewels/kanak-backend/pkg/db/models"
	"github.com/kanakjewels/kanak-backend/pkg/enums"
	pkgerrors "github.com/kanakjewels/kanak-backend/pkg/errors"
	"github.com/kanakjewels/kanak-backend/pkg/logger"
)

type stubRepo struct {
	products map[string]*models.Product
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }
func (s *stubRepo) FindByHandle(ctx context.Context, handle string) (*models.Product, error) {
	return s.products[handle], nil
}
func (s *stubRepo) List(ctx context.Context, params ListQuery) ([]models.Product, error) {
	return nil, nil
}
func (s *stubRepo) UpsertProduct(ctx context.Context, product *models.Product) error { return nil }
func (s *stubRepo) UpsertPricingRecord(ctx context.Context, record *models.PricingRecord) error {
	return nil
}

type staticGold struct{ price float64 }

func (s staticGold) PricePerGram(ctx context.Context) float64 { return s.price }

type staticConfig struct{ cfg pricingcfg.Config }

func (s staticConfig) Config(ctx context.Context) pricingcfg.Config { return s.cfg }

func strPtr(v string) *string { return &v }

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	engine, err := pricing.NewEngine(pricing.EngineDeps{
		Gold:   staticGold{price: 6500},
		Config: staticConfig{cfg: pricingcfg.Default()},
		Logger: logg,
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	svc, err := NewService(Deps{Repo: repo, Engine: engine, Logger: logg})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestPriceProductUsesSyncedRecord(t *testing.T) {
	repo := &stubRepo{products: map[string]*models.Product{
		"tennis-bracelet": {
			Handle: "tennis-bracelet",
			Title:  "Tennis Bracelet",
			PricingRecord: &models.PricingRecord{
				ProductHandle: "tennis-bracelet",
				DiamondPrice:  strPtr("52000"),
				Weight18K:     strPtr("3"),
			},
		},
	}}
	svc := newTestService(t, repo)

	product, breakdown, err := svc.PriceProduct(context.Background(), "tennis-bracelet", enums.Karat18)
	if err != nil {
		t.Fatalf("PriceProduct: %v", err)
	}
	if product.Handle != "tennis-bracelet" {
		t.Fatalf("unexpected product %+v", product)
	}
	if breakdown.Mode != enums.PricingModeSynced {
		t.Fatalf("expected synced mode, got %s", breakdown.Mode)
	}
	if breakdown.DiamondPrice != 52000 {
		t.Fatalf("diamond price: got %d, want 52000", breakdown.DiamondPrice)
	}
}

func TestPriceProductFallsToDescriptionMarkup(t *testing.T) {
	repo := &stubRepo{products: map[string]*models.Product{
		"halo-ring": {
			Handle: "halo-ring",
			Title:  "Halo Ring",
			DescriptionHTML: strPtr(`<ul>
<li>Diamond Shape: Round</li>
<li>Diamond Weight: 0.5</li>
<li>Total Diamonds: 4</li>
<li>18K Gold: 3</li>
</ul>`),
		},
	}}
	svc := newTestService(t, repo)

	_, breakdown, err := svc.PriceProduct(context.Background(), "halo-ring", enums.Karat18)
	if err != nil {
		t.Fatalf("PriceProduct: %v", err)
	}
	if breakdown.Mode != enums.PricingModeDynamic {
		t.Fatalf("expected dynamic mode, got %s", breakdown.Mode)
	}
	if breakdown.GoldPrice != 14625 {
		t.Fatalf("gold price: got %d, want 14625", breakdown.GoldPrice)
	}
}

func TestPriceProductUnknownHandle(t *testing.T) {
	svc := newTestService(t, &stubRepo{products: map[string]*models.Product{}})

	_, _, err := svc.PriceProduct(context.Background(), "missing", enums.Karat14)
	if err == nil {
		t.Fatal("expected not found")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestPriceProductWithoutAnyPricingData(t *testing.T) {
	repo := &stubRepo{products: map[string]*models.Product{
		"bare-product": {Handle: "bare-product", Title: "Bare"},
	}}
	svc := newTestService(t, repo)

	_, _, err := svc.PriceProduct(context.Background(), "bare-product", enums.Karat14)
	if err == nil {
		t.Fatal("expected price unavailable")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodePriceUnavailable {
		t.Fatalf("expected PRICE_UNAVAILABLE, got %v", err)
	}
}

func TestUpsertProductValidation(t *testing.T) {
	svc := newTestService(t, &stubRepo{})

	if err := svc.UpsertProduct(context.Background(), &models.Product{Handle: "", Title: "X"}); err == nil {
		t.Fatal("expected validation error for empty handle")
	}
	if err := svc.UpsertProduct(context.Background(), &models.Product{Handle: "x", Title: ""}); err == nil {
		t.Fatal("expected validation error for empty title")
	}
	if err := svc.UpsertProduct(context.Background(), &models.Product{Handle: "x", Title: "X"}); err != nil {
		t.Fatalf("expected valid product to pass, got %v", err)
	}
}
