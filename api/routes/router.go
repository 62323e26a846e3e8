package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kanakjewels/kanak-backend/api/controllers"
	"github.com/kanakjewels/kanak-backend/api/middleware"
	authsvc "github.com/kanakjewels/kanak-backend/internal/auth"
	"github.com/kanakjewels/kanak-backend/internal/cart"
	"github.com/kanakjewels/kanak-backend/internal/catalog"
	"github.com/kanakjewels/kanak-backend/internal/coupons"
	"github.com/kanakjewels/kanak-backend/internal/goldprice"
	"github.com/kanakjewels/kanak-backend/internal/pricingcfg"
	"github.com/kanakjewels/kanak-backend/internal/wishlist"
	"github.com/kanakjewels/kanak-backend/pkg/auth/session"
	"github.com/kanakjewels/kanak-backend/pkg/config"
	"github.com/kanakjewels/kanak-backend/pkg/db"
	"github.com/kanakjewels/kanak-backend/pkg/logger"
	"github.com/kanakjewels/kanak-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionChecker session.AccessSessionChecker,
	metricsGatherer prometheus.Gatherer,
	authService authsvc.Service,
	catalogService catalog.Service,
	cartService cart.Service,
	wishlistService wishlist.Service,
	couponService coupons.Service,
	pricingConfigService pricingcfg.Service,
	goldPriceService goldprice.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.LoginRateLimitPolicy(cfg.AuthRateLimit)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient))
	})

	if metricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(catalogService, logg))
			r.Get("/{handle}", controllers.ProductsGet(catalogService, logg))
			r.Get("/{handle}/price", controllers.ProductsPrice(catalogService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Post("/quote", controllers.CartQuote(cartService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Session(logg))
				r.Use(middleware.Idempotency(redisClient, logg))

				r.Get("/", controllers.CartGet(cartService, logg))
				r.Post("/items", controllers.CartAddItem(cartService, logg))
				r.Put("/items/{itemId}", controllers.CartUpdateItem(cartService, logg))
				r.Delete("/items/{itemId}", controllers.CartRemoveItem(cartService, logg))
				r.Post("/coupon", controllers.CartApplyCoupon(cartService, logg))
				r.Delete("/coupon", controllers.CartRemoveCoupon(cartService, logg))
			})
		})

		r.Get("/coupons/{code}", controllers.CouponsValidate(couponService, logg))

		r.Route("/wishlist", func(r chi.Router) {
			r.Use(middleware.Session(logg))
			r.Use(middleware.Idempotency(redisClient, logg))

			r.Get("/", controllers.WishlistList(wishlistService, logg))
			r.Post("/", controllers.WishlistAdd(wishlistService, logg))
			r.Delete("/{productId}", controllers.WishlistRemove(wishlistService, logg))
		})
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Post("/auth/logout", controllers.AuthLogout(authService, logg))

		r.Get("/gold-price", controllers.AdminGoldPrice(goldPriceService, logg))

		r.Route("/pricing-config", func(r chi.Router) {
			r.Get("/", controllers.AdminPricingConfigGet(pricingConfigService, logg))
			r.Put("/", controllers.AdminPricingConfigUpdate(pricingConfigService, logg))
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", controllers.AdminCouponsList(couponService, logg))
			r.Post("/", controllers.AdminCouponsCreate(couponService, logg))
			r.Put("/{couponId}", controllers.AdminCouponsUpdate(couponService, logg))
			r.Delete("/{couponId}", controllers.AdminCouponsDelete(couponService, logg))
		})
	})

	return r
}
