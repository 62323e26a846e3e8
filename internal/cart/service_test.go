package cart

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/kanakjewels/kanak-backend/internal/catalog"
	"github.com/kanakjewels/kanak-backend/internal/coupons"
	"github.com/kanakjewels/kanak-backend/pkg/db/models"
	"github.com/kanakjewels/kanak-backend/pkg/enums"
	pkgerrors "github.com/kanakjewels/kanak-backend/pkg/errors"
	"github.com/kanakjewels/kanak-backend/pkg/logger"
	"github.com/kanakjewels/kanak-backend/pkg/types"
)

type memRepo struct {
	carts map[string]*models.CartRecord
}

func newMemRepo() *memRepo {
	return &memRepo{carts: make(map[string]*models.CartRecord)}
}

func (m *memRepo) WithTx(tx *gorm.DB) Repository { return m }
func (m *memRepo) FindActiveBySession(ctx context.Context, sessionID string) (*models.CartRecord, error) {
	return m.carts[sessionID], nil
}
func (m *memRepo) Create(ctx context.Context, cart *models.CartRecord) error {
	cart.ID = uuid.New()
	m.carts[cart.SessionID] = cart
	return nil
}
func (m *memRepo) Save(ctx context.Context, cart *models.CartRecord) error {
	for i := range cart.Items {
		if cart.Items[i].ID == uuid.Nil {
			cart.Items[i].ID = uuid.New()
		}
	}
	m.carts[cart.SessionID] = cart
	return nil
}
func (m *memRepo) SaveItem(ctx context.Context, item *models.CartItem) error { return nil }
func (m *memRepo) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	return nil
}

type stubCatalog struct {
	products   map[string]*models.Product
	breakdowns map[string]types.PriceBreakdown
}

func (s *stubCatalog) GetProduct(ctx context.Context, handle string) (*models.Product, error) {
	product, ok := s.products[handle]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}
func (s *stubCatalog) ListProducts(ctx context.Context, params catalog.ListQuery) ([]models.Product, error) {
	return nil, nil
}
func (s *stubCatalog) PriceProduct(ctx context.Context, handle string, karat enums.Karat) (*models.Product, types.PriceBreakdown, error) {
	product, err := s.GetProduct(ctx, handle)
	if err != nil {
		return nil, types.PriceBreakdown{}, err
	}
	return product, s.breakdowns[handle], nil
}
func (s *stubCatalog) UpsertProduct(ctx context.Context, product *models.Product) error { return nil }
func (s *stubCatalog) UpsertPricingRecord(ctx context.Context, record *models.PricingRecord) error {
	return nil
}

type stubCoupons struct {
	coupon    *models.Coupon
	redeemed  int
	rejectErr error
}

func (s *stubCoupons) Validate(ctx context.Context, code string) (*models.Coupon, error) {
	if s.rejectErr != nil {
		return nil, s.rejectErr
	}
	return s.coupon, nil
}
func (s *stubCoupons) Apply(ctx context.Context, code string, lines []coupons.PricedLine) (*models.Coupon, coupons.DiscountResult, error) {
	if s.rejectErr != nil {
		return nil, coupons.DiscountResult{}, s.rejectErr
	}
	result := coupons.ApplyDiscount(s.coupon, lines)
	if result.EligibleDiamondSubtotal == 0 {
		return nil, coupons.DiscountResult{}, pkgerrors.New(pkgerrors.CodeCouponRejected, "coupon does not apply to any item in the cart")
	}
	return s.coupon, result, nil
}
func (s *stubCoupons) Redeem(ctx context.Context, couponID, cartID uuid.UUID, discount int) error {
	s.redeemed++
	return nil
}
func (s *stubCoupons) List(ctx context.Context, activeOnly bool) ([]models.Coupon, error) {
	return nil, nil
}
func (s *stubCoupons) Create(ctx context.Context, coupon *models.Coupon) error { return nil }
func (s *stubCoupons) Update(ctx context.Context, coupon *models.Coupon) error { return nil }
func (s *stubCoupons) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func testBreakdown(diamond, total int) types.PriceBreakdown {
	return types.PriceBreakdown{
		DiamondPrice: diamond,
		GoldPrice:    total - diamond,
		Subtotal:     total,
		TotalPrice:   total,
		Mode:         enums.PricingModeDynamic,
	}
}

func newTestService(t *testing.T, repo Repository, cat catalog.Service, cpn coupons.Service) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	svc, err := NewService(Deps{Repo: repo, Catalog: cat, Coupons: cpn, Logger: logg})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func ringCatalog() *stubCatalog {
	return &stubCatalog{
		products: map[string]*models.Product{
			"halo-ring": {
				ID: uuid.New(), Handle: "halo-ring", Title: "Halo Ring",
				CollectionHandles: []string{"rings"},
			},
			"stud-earrings": {
				ID: uuid.New(), Handle: "stud-earrings", Title: "Stud Earrings",
				CollectionHandles: []string{"earrings"},
			},
		},
		breakdowns: map[string]types.PriceBreakdown{
			"halo-ring":     testBreakdown(40000, 60000),
			"stud-earrings": testBreakdown(30000, 45000),
		},
	}
}

func TestAddItemCreatesCartAndTotals(t *testing.T) {
	svc := newTestService(t, newMemRepo(), ringCatalog(), &stubCoupons{})

	cart, err := svc.AddItem(context.Background(), "sess-1", AddItemParams{
		ProductHandle: "halo-ring", Karat: enums.Karat18, Quantity: 2,
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if len(cart.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(cart.Items))
	}
	if cart.Items[0].LineTotal != 120000 {
		t.Fatalf("line total: got %d, want 120000", cart.Items[0].LineTotal)
	}
	if cart.Subtotal != 120000 || cart.Total != 120000 {
		t.Fatalf("totals: got subtotal %d total %d", cart.Subtotal, cart.Total)
	}
}

func TestAddItemMergesSameProductAndKarat(t *testing.T) {
	svc := newTestService(t, newMemRepo(), ringCatalog(), &stubCoupons{})

	svc.AddItem(context.Background(), "sess-1", AddItemParams{ProductHandle: "halo-ring", Karat: enums.Karat18, Quantity: 1})
	cart, err := svc.AddItem(context.Background(), "sess-1", AddItemParams{ProductHandle: "halo-ring", Karat: enums.Karat18, Quantity: 1})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("expected merged line with quantity 2, got %+v", cart.Items)
	}
}

func TestAddItemMergeKeepsOriginalSnapshot(t *testing.T) {
	cat := ringCatalog()
	svc := newTestService(t, newMemRepo(), cat, &stubCoupons{})

	svc.AddItem(context.Background(), "sess-1", AddItemParams{ProductHandle: "halo-ring", Karat: enums.Karat18, Quantity: 1})

	// A rate move between adds must not reprice the existing line.
	cat.breakdowns["halo-ring"] = testBreakdown(40000, 75000)
	cart, err := svc.AddItem(context.Background(), "sess-1", AddItemParams{ProductHandle: "halo-ring", Karat: enums.Karat18, Quantity: 1})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if cart.Items[0].PriceBreakdown.TotalPrice != 60000 {
		t.Fatalf("snapshot repriced: got %d, want 60000", cart.Items[0].PriceBreakdown.TotalPrice)
	}
	if cart.Items[0].LineTotal != 120000 {
		t.Fatalf("line total: got %d, want 120000", cart.Items[0].LineTotal)
	}
}

func TestAddItemRejectsInvalidKarat(t *testing.T) {
	svc := newTestService(t, newMemRepo(), ringCatalog(), &stubCoupons{})

	_, err := svc.AddItem(context.Background(), "sess-1", AddItemParams{ProductHandle: "halo-ring", Karat: "22K"})
	if err == nil {
		t.Fatal("expected validation error for 22K")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestApplyCouponDiscountsOnlyTargetedLines(t *testing.T) {
	coupon := &models.Coupon{
		ID: uuid.New(), Code: "RINGS20", IsActive: true,
		DiscountType: enums.DiscountTypePercentage, DiscountValue: 20,
		TargetCollections: []string{"rings"},
	}
	cpn := &stubCoupons{coupon: coupon}
	svc := newTestService(t, newMemRepo(), ringCatalog(), cpn)

	svc.AddItem(context.Background(), "sess-1", AddItemParams{ProductHandle: "halo-ring", Karat: enums.Karat18, Quantity: 1})
	svc.AddItem(context.Background(), "sess-1", AddItemParams{ProductHandle: "stud-earrings", Karat: enums.Karat14, Quantity: 1})

	cart, err := svc.ApplyCoupon(context.Background(), "sess-1", "RINGS20")
	if err != nil {
		t.Fatalf("ApplyCoupon: %v", err)
	}

	// 20% of the ring's diamond component only: 40000 * 0.2 = 8000.
	if cart.DiscountAmount != 8000 {
		t.Fatalf("discount: got %d, want 8000", cart.DiscountAmount)
	}
	if cart.Total != cart.Subtotal-8000 {
		t.Fatalf("total: got %d, want %d", cart.Total, cart.Subtotal-8000)
	}
	if cpn.redeemed != 1 {
		t.Fatalf("expected one redemption, got %d", cpn.redeemed)
	}
}

func TestApplyCouponSurfacesCatalogFailure(t *testing.T) {
	coupon := &models.Coupon{
		ID: uuid.New(), Code: "RINGS20", IsActive: true,
		DiscountType: enums.DiscountTypePercentage, DiscountValue: 20,
		TargetCollections: []string{"rings"},
	}
	cat := ringCatalog()
	svc := newTestService(t, newMemRepo(), cat, &stubCoupons{coupon: coupon})

	svc.AddItem(context.Background(), "sess-1", AddItemParams{ProductHandle: "halo-ring", Karat: enums.Karat18, Quantity: 1})

	// Targeting resolution must fail loudly, not degrade to an untargeted line.
	delete(cat.products, "halo-ring")
	_, err := svc.ApplyCoupon(context.Background(), "sess-1", "RINGS20")
	if err == nil {
		t.Fatal("expected error when the catalog lookup fails")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestApplyCouponEmptyCart(t *testing.T) {
	svc := newTestService(t, newMemRepo(), ringCatalog(), &stubCoupons{})

	_, err := svc.ApplyCoupon(context.Background(), "sess-none", "RINGS20")
	if err == nil {
		t.Fatal("expected error for session without a cart")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestRemoveCouponRestoresTotal(t *testing.T) {
	coupon := &models.Coupon{
		ID: uuid.New(), Code: "SPARKLE10", IsActive: true,
		DiscountType: enums.DiscountTypePercentage, DiscountValue: 10,
	}
	svc := newTestService(t, newMemRepo(), ringCatalog(), &stubCoupons{coupon: coupon})

	svc.AddItem(context.Background(), "sess-1", AddItemParams{ProductHandle: "halo-ring", Karat: enums.Karat18, Quantity: 1})
	svc.ApplyCoupon(context.Background(), "sess-1", "SPARKLE10")

	cart, err := svc.RemoveCoupon(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("RemoveCoupon: %v", err)
	}
	if cart.CouponCode != nil || cart.DiscountAmount != 0 {
		t.Fatalf("expected coupon cleared, got %+v", cart)
	}
	if cart.Total != cart.Subtotal {
		t.Fatalf("total must equal subtotal after removal, got %d vs %d", cart.Total, cart.Subtotal)
	}
}

func TestUpdateQuantityAndRemove(t *testing.T) {
	svc := newTestService(t, newMemRepo(), ringCatalog(), &stubCoupons{})

	cart, _ := svc.AddItem(context.Background(), "sess-1", AddItemParams{ProductHandle: "halo-ring", Karat: enums.Karat18, Quantity: 1})
	itemID := cart.Items[0].ID

	cart, err := svc.UpdateQuantity(context.Background(), "sess-1", itemID, 3)
	if err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if cart.Items[0].Quantity != 3 || cart.Subtotal != 180000 {
		t.Fatalf("expected quantity 3 subtotal 180000, got %+v", cart)
	}

	cart, err = svc.RemoveItem(context.Background(), "sess-1", itemID)
	if err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if len(cart.Items) != 0 || cart.Subtotal != 0 {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
}

func TestGetCartForNewSessionIsEmpty(t *testing.T) {
	svc := newTestService(t, newMemRepo(), ringCatalog(), &stubCoupons{})

	cart, err := svc.GetCart(context.Background(), "fresh")
	if err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	if len(cart.Items) != 0 || cart.Total != 0 {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
}

func TestQuotePricesLinesWithoutPersisting(t *testing.T) {
	coupon := &models.Coupon{
		ID: uuid.New(), Code: "RINGS20", IsActive: true,
		DiscountType: enums.DiscountTypePercentage, DiscountValue: 20,
		TargetCollections: []string{"rings"},
	}
	cpn := &stubCoupons{coupon: coupon}
	repo := newMemRepo()
	svc := newTestService(t, repo, ringCatalog(), cpn)

	quote, err := svc.Quote(context.Background(), QuoteParams{
		Lines: []AddItemParams{
			{ProductHandle: "halo-ring", Karat: enums.Karat18, Quantity: 2},
			{ProductHandle: "stud-earrings", Karat: enums.Karat14, Quantity: 1},
		},
		CouponCode: "RINGS20",
	})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}

	// 2 × 60000 + 1 × 45000.
	if quote.Subtotal != 165000 {
		t.Fatalf("subtotal: got %d, want 165000", quote.Subtotal)
	}
	// 20% of the ring diamond component across both units: 2 × 40000 × 0.2.
	if quote.Discount != 16000 {
		t.Fatalf("discount: got %d, want 16000", quote.Discount)
	}
	if quote.Total != 149000 {
		t.Fatalf("total: got %d, want 149000", quote.Total)
	}
	if len(repo.carts) != 0 {
		t.Fatalf("quote must not persist a cart, found %d", len(repo.carts))
	}
	if cpn.redeemed != 0 {
		t.Fatalf("quote must not redeem, got %d redemptions", cpn.redeemed)
	}
}

func TestQuoteRejectsEmptyAndInvalidLines(t *testing.T) {
	svc := newTestService(t, newMemRepo(), ringCatalog(), &stubCoupons{})

	if _, err := svc.Quote(context.Background(), QuoteParams{}); err == nil {
		t.Fatal("expected error for empty quote")
	}

	_, err := svc.Quote(context.Background(), QuoteParams{
		Lines: []AddItemParams{{ProductHandle: "halo-ring", Karat: enums.Karat("22K"), Quantity: 1}},
	})
	if err == nil {
		t.Fatal("expected error for invalid karat")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION, got %v", err)
	}
}
