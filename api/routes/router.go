package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aminzare2005/vlonefarsi/api/controllers"
	"github.com/aminzare2005/vlonefarsi/api/middleware"
	cartsvc "github.com/aminzare2005/vlonefarsi/internal/cart"
	catalogsvc "github.com/aminzare2005/vlonefarsi/internal/catalog"
	checkoutsvc "github.com/aminzare2005/vlonefarsi/internal/checkout"
	discountsvc "github.com/aminzare2005/vlonefarsi/internal/discounts"
	ordersvc "github.com/aminzare2005/vlonefarsi/internal/orders"
	paymentsvc "github.com/aminzare2005/vlonefarsi/internal/payments"
	"github.com/aminzare2005/vlonefarsi/pkg/config"
	"github.com/aminzare2005/vlonefarsi/pkg/enums"
	"github.com/aminzare2005/vlonefarsi/pkg/logger"
	pkgredis "github.com/aminzare2005/vlonefarsi/pkg/redis"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             controllers.Pinger
	Redis          *pkgredis.Client
	MetricsHandler http.Handler

	Catalog   *catalogsvc.Service
	Cart      *cartsvc.Service
	Discounts *discountsvc.Service
	Checkout  *checkoutsvc.Service
	Payments  *paymentsvc.Service
	Orders    *ordersvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	var cache controllers.Pinger
	var idempotencyStore pkgredis.IdempotencyStore
	if deps.Redis != nil {
		cache = deps.Redis
		idempotencyStore = deps.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, cache))
	})

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// public storefront reads and the gateway callback
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(deps.Catalog, logg))
		r.Get("/products/{productID}", controllers.GetProduct(deps.Catalog, logg))
		r.Get("/phone-cases", controllers.ListPhoneCases(deps.Catalog, logg))
		r.Get("/shipping-fee", controllers.GetShippingFee(deps.Catalog, logg))
		r.Get("/orders/track/{trackID}", controllers.TrackOrder(deps.Orders, logg))
		r.Get("/payments/callback", controllers.PaymentCallback(deps.Payments, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.Idempotency(idempotencyStore, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(deps.Cart, logg))
				r.Post("/", controllers.AddCartItem(deps.Cart, logg))
				r.Put("/{itemID}", controllers.UpdateCartItem(deps.Cart, logg))
				r.Delete("/{itemID}", controllers.RemoveCartItem(deps.Cart, logg))
				r.Delete("/", controllers.ClearCart(deps.Cart, logg))
			})

			r.Post("/discounts/validate", controllers.ValidateDiscount(deps.Discounts, deps.Cart, logg))
			r.Post("/checkout", controllers.Checkout(deps.Checkout, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListOrders(deps.Orders, logg))
				r.Get("/{orderID}", controllers.GetOrder(deps.Orders, logg))
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireRole(string(enums.RoleAdmin), logg))
			r.Use(middleware.Idempotency(idempotencyStore, logg))

			r.Post("/orders/{orderID}/status", controllers.AdvanceOrderStatus(deps.Orders, logg))
		})
	})

	return r
}
