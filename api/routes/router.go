package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vendstack/kiosk-backend/api/controllers"
	kioskcontrollers "github.com/vendstack/kiosk-backend/api/controllers/kiosk"
	"github.com/vendstack/kiosk-backend/api/middleware"
	"github.com/vendstack/kiosk-backend/pkg/config"
	"github.com/vendstack/kiosk-backend/pkg/logger"
	"github.com/vendstack/kiosk-backend/pkg/redis"
)

// MachineService is the full vending backend surface the API proxies.
type MachineService interface {
	controllers.CatalogService
	controllers.AdminProductService
	controllers.AdminInventoryService
	controllers.ImageService
	controllers.Pinger
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	machineSvc MachineService,
	registry kioskcontrollers.Registry,
	metricsHandler http.Handler,
) http.Handler {
	// Interface conversions happen here so a missing redis client stays a
	// plain nil inside the middlewares.
	var idempotencyStore redis.IdempotencyStore
	var rateLimiter middleware.RateLimiterStore
	var redisPinger controllers.Pinger
	if redisClient != nil {
		idempotencyStore = redisClient
		rateLimiter = redisClient
		redisPinger = redisClient
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, redisPinger, machineSvc))
	})

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.CatalogProducts(machineSvc, logg))

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", kioskcontrollers.CreateSession(registry, logg))

			r.Route("/{sessionId}", func(r chi.Router) {
				r.Use(middleware.SessionContext(logg))
				r.Use(middleware.Idempotency(idempotencyStore, logg))

				r.Get("/", kioskcontrollers.GetSession(registry, logg))
				r.Delete("/", kioskcontrollers.DeleteSession(registry, logg))
				r.Put("/tabs", kioskcontrollers.UpdateTabs(registry, logg))

				r.Route("/cart", func(r chi.Router) {
					r.Delete("/", kioskcontrollers.ClearCart(registry, logg))
					r.Post("/items", kioskcontrollers.AddCartItem(registry, logg))
					r.Route("/items/{productId}", func(r chi.Router) {
						r.Put("/", kioskcontrollers.UpdateCartItem(registry, logg))
						r.Delete("/", kioskcontrollers.RemoveCartItem(registry, logg))
						r.Post("/increment", kioskcontrollers.IncrementCartItem(registry, logg))
						r.Post("/decrement", kioskcontrollers.DecrementCartItem(registry, logg))
					})
				})

				r.Post("/checkout", kioskcontrollers.Checkout(registry, logg))
				r.Route("/tender", func(r chi.Router) {
					r.Post("/", kioskcontrollers.InsertTender(registry, logg))
					r.Post("/deduct", kioskcontrollers.DeductTender(registry, logg))
				})
				r.Route("/payment", func(r chi.Router) {
					r.Post("/pay", kioskcontrollers.Pay(registry, logg))
					r.Post("/cancel", kioskcontrollers.CancelPayment(registry, logg))
				})
				r.Post("/receipt/dismiss", kioskcontrollers.DismissReceipt(registry, logg))
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminRateLimit(cfg.AdminRateLimit, rateLimiter, logg))
			r.Use(middleware.Idempotency(idempotencyStore, logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.AdminListProducts(machineSvc, logg))
				r.Post("/", controllers.AdminCreateProduct(machineSvc, logg))
				r.Route("/{productId}", func(r chi.Router) {
					r.Get("/", controllers.AdminGetProduct(machineSvc, logg))
					r.Put("/", controllers.AdminUpdateProduct(machineSvc, logg))
					r.Delete("/", controllers.AdminDeleteProduct(machineSvc, logg))
				})
			})

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", controllers.AdminListInventory(machineSvc, logg))
				r.Post("/", controllers.AdminCreateInventory(machineSvc, logg))
				r.Route("/{inventoryId}", func(r chi.Router) {
					r.Get("/", controllers.AdminGetInventory(machineSvc, logg))
					r.Put("/", controllers.AdminUpdateInventory(machineSvc, logg))
					r.Delete("/", controllers.AdminDeleteInventory(machineSvc, logg))
				})
			})

			r.Post("/images/upload", controllers.UploadImage(machineSvc, logg))
		})
	})

	return r
}
