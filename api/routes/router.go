package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/printhub/printhub-backend/api/controllers"
	"github.com/printhub/printhub-backend/api/middleware"
	"github.com/printhub/printhub-backend/internal/admin"
	"github.com/printhub/printhub-backend/internal/auth"
	"github.com/printhub/printhub-backend/internal/calculations"
	"github.com/printhub/printhub-backend/internal/cart"
	"github.com/printhub/printhub-backend/internal/notifications"
	"github.com/printhub/printhub-backend/internal/orders"
	"github.com/printhub/printhub-backend/internal/pricing"
	"github.com/printhub/printhub-backend/internal/users"
	"github.com/printhub/printhub-backend/pkg/auth/session"
	"github.com/printhub/printhub-backend/pkg/config"
	"github.com/printhub/printhub-backend/pkg/db"
	"github.com/printhub/printhub-backend/pkg/enums"
	"github.com/printhub/printhub-backend/pkg/logger"
)

// Services carries every wired service the router mounts.
type Services struct {
	Auth          auth.Service
	Users         users.Service
	Pricing       pricing.Service
	Cart          cart.Service
	Orders        orders.Service
	Calculations  calculations.Service
	Notifications notifications.Service
	Admin         admin.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database db.Pinger,
	cache db.Pinger,
	sessions session.Checker,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, database, cache))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public surface: the calculator runs before sign-in.
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", controllers.AuthRegister(svcs.Auth, logg))
			r.Post("/login", controllers.AuthLogin(svcs.Auth, logg))
			r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
			r.Post("/password/reset", controllers.PasswordReset(svcs.Users, logg))
			r.With(middleware.Auth(cfg.JWT, sessions, logg)).
				Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
		})
		r.Get("/catalog/products", controllers.CatalogList(svcs.Pricing, logg))
		r.Post("/pricing/quote", controllers.PricingQuote(svcs.Pricing, logg))

		// Customer cabinet.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", controllers.ProfileGet(svcs.Users, logg))
				r.Put("/", controllers.ProfileUpdate(svcs.Users, svcs.Auth, logg))
				r.Post("/password", controllers.ProfileChangePassword(svcs.Users, logg))
				r.Delete("/", controllers.ProfileDelete(svcs.Users, svcs.Auth, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartList(svcs.Cart, logg))
				r.Post("/items", controllers.CartAdd(svcs.Cart, logg))
				r.Delete("/items/{itemId}", controllers.CartRemove(svcs.Cart, logg))
				r.Patch("/items/{itemId}", controllers.CartSetQuantity(svcs.Cart, logg))
				r.Delete("/", controllers.CartClear(svcs.Cart, logg))
				r.Get("/summary", controllers.CartSummary(svcs.Cart, logg))
			})

			r.Post("/checkout", controllers.Checkout(svcs.Orders, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrdersListMine(svcs.Orders, logg))
				r.Post("/merge", controllers.OrdersMerge(svcs.Orders, logg))
				r.Get("/{orderId}", controllers.OrderGet(svcs.Orders, logg))
				r.Post("/{orderId}/cancel", controllers.OrderCancel(svcs.Orders, logg))
				r.Post("/{orderId}/confirm-pickup", controllers.OrderConfirmPickup(svcs.Orders, logg))
			})

			r.Route("/calculations", func(r chi.Router) {
				r.Get("/", controllers.CalculationsList(svcs.Calculations, logg))
				r.Post("/", controllers.CalculationSave(svcs.Calculations, logg))
				r.Delete("/{calculationId}", controllers.CalculationDelete(svcs.Calculations, logg))
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.NotificationsList(svcs.Notifications, logg))
				r.Post("/drain", controllers.NotificationsDrain(svcs.Notifications, logg))
			})
		})
	})

	// Manager panel: managers and admins.
	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireStaff(logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrdersList(svcs.Orders, logg))
			r.Post("/status", controllers.AdminOrderUpdateStatus(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.OrderGet(svcs.Orders, logg))
		})
		r.Get("/customers", controllers.CustomersList(svcs.Users, logg))
		r.Get("/statistics", controllers.AdminStatistics(svcs.Admin, logg))

		// Destructive maintenance stays admin-only.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.RoleAdmin, logg))
			r.Get("/export", controllers.AdminExport(svcs.Admin, logg))
			r.Post("/clear-data", controllers.AdminClearData(svcs.Admin, logg))
		})
	})

	return r
}
