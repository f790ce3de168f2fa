package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-admin/api/controllers"
	"github.com/angelmondragon/storefront-admin/api/middleware"
	"github.com/angelmondragon/storefront-admin/internal/collections"
	"github.com/angelmondragon/storefront-admin/internal/customers"
	"github.com/angelmondragon/storefront-admin/internal/orders"
	product "github.com/angelmondragon/storefront-admin/internal/products"
	"github.com/angelmondragon/storefront-admin/internal/reports"
	"github.com/angelmondragon/storefront-admin/internal/staff"
	"github.com/angelmondragon/storefront-admin/pkg/config"
	"github.com/angelmondragon/storefront-admin/pkg/db"
	"github.com/angelmondragon/storefront-admin/pkg/logger"
	"github.com/angelmondragon/storefront-admin/pkg/metrics"
	"github.com/angelmondragon/storefront-admin/pkg/redis"
)

// Services bundles the domain services mounted by the router.
type Services struct {
	Staff       staff.Service
	Products    product.Service
	Collections collections.Service
	Customers   customers.Service
	Orders      orders.Service
	Reports     reports.Service
}

// Infra carries the shared clients the router depends on. Redis is optional;
// a nil Redis disables idempotent replay and login throttling.
type Infra struct {
	DB          db.Pinger
	Redis       *redis.Client
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics
}

func NewRouter(cfg *config.Config, logg *logger.Logger, infra Infra, svc Services) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(infra.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	// Interfaces stay nil when redis is not configured.
	var (
		redisPinger controllers.Pinger
		limiter     middleware.FixedWindowLimiter
		idemStore   redis.IdempotencyStore
	)
	if infra.Redis != nil {
		redisPinger = infra.Redis
		limiter = infra.Redis
		idemStore = infra.Redis
	}

	loginPolicy := middleware.LoginRateLimitPolicy{
		Window:     cfg.AuthRateLimit.LoginWindow,
		IPLimit:    cfg.AuthRateLimit.LoginIPLimit,
		EmailLimit: cfg.AuthRateLimit.LoginEmailLimit,
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, infra.DB, redisPinger))
	})

	if infra.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(infra.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/playground/hello/", controllers.SayHello(svc.Reports, logg))

	r.Route("/admin", func(r chi.Router) {
		r.With(middleware.LoginRateLimit(loginPolicy, limiter, logg)).Post("/login/", controllers.StaffLogin(svc.Staff, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, svc.Staff, logg))
			r.Use(middleware.Idempotency(idemStore, logg))

			r.Get("/autocomplete/", controllers.Autocomplete(autocompleteSources(svc), logg))

			r.Route("/store", func(r chi.Router) {
				r.Route("/product", controllers.NewProductAdmin(svc.Products, logg).Routes)
				r.Route("/collection", controllers.NewCollectionAdmin(svc.Collections, logg).Routes)
				r.Route("/order", controllers.NewOrderAdmin(svc.Orders, logg).Routes)
				r.Route("/customer", func(r chi.Router) {
					r.Patch("/", controllers.CustomerListEdit(svc.Customers, logg))
					controllers.NewCustomerAdmin(svc.Customers, logg).Routes(r)
				})
			})
		})
	})

	return r
}

func autocompleteSources(svc Services) map[string]controllers.Autocompleter {
	sources := map[string]controllers.Autocompleter{}
	if svc.Products != nil {
		sources["product"] = svc.Products
	}
	if svc.Collections != nil {
		sources["collection"] = svc.Collections
	}
	if svc.Customers != nil {
		sources["customer"] = svc.Customers
	}
	return sources
}
