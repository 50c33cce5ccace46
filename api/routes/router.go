package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/cartquote-backend/api/controllers"
	cartcontrollers "github.com/angelmondragon/cartquote-backend/api/controllers/cart"
	"github.com/angelmondragon/cartquote-backend/api/middleware"
	"github.com/angelmondragon/cartquote-backend/internal/cart"
	"github.com/angelmondragon/cartquote-backend/pkg/config"
	"github.com/angelmondragon/cartquote-backend/pkg/db"
	"github.com/angelmondragon/cartquote-backend/pkg/logger"
	"github.com/angelmondragon/cartquote-backend/pkg/metrics"
	"github.com/angelmondragon/cartquote-backend/pkg/redis"
)

// NewRouter wires the HTTP surface. redisClient may be nil, in which case idempotency replay and
// rate limiting are disabled.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	cartService cart.Service,
	requestMetrics *metrics.RequestMetrics,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(requestMetrics),
		middleware.CORS(cfg.HTTP.CORSOrigins),
	)

	readyDeps := map[string]controllers.Pinger{}
	if dbP != nil {
		readyDeps["db"] = dbP
	}
	if redisClient != nil {
		readyDeps["redis"] = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readyDeps))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		if redisClient != nil {
			writePolicy := middleware.NewRateLimitPolicy(
				"cart_writes",
				cfg.HTTP.RateLimitWindow,
				cfg.HTTP.RateLimitPerIP,
				cfg.HTTP.RateLimitPerCart,
			)
			r.Use(middleware.RateLimit(writePolicy, redisClient, logg))
			if cfg.FeatureFlags.Idempotency {
				r.Use(middleware.Idempotency(redisClient, logg))
			}
		}

		r.Route("/carts", func(r chi.Router) {
			r.Post("/", cartcontrollers.CartCreate(cartService, logg))
			r.Get("/", cartcontrollers.CartList(cartService, logg))

			r.Route("/{cartId}", func(r chi.Router) {
				r.Get("/", cartcontrollers.CartFetch(cartService, logg))
				r.Delete("/", cartcontrollers.CartDelete(cartService, logg))
				r.Post("/save", cartcontrollers.CartSave(cartService, logg))
				r.Post("/reprice", cartcontrollers.CartReprice(cartService, logg))
				r.Put("/shipping", cartcontrollers.CartUpdateShipping(cartService, logg))

				r.Post("/items", cartcontrollers.CartAddItems(cartService, logg))
				r.Put("/items", cartcontrollers.CartUpdateItems(cartService, logg))
				r.Delete("/items", cartcontrollers.CartClearItems(cartService, logg))
				r.Post("/items/remove", cartcontrollers.CartRemoveItems(cartService, logg))

				r.Post("/promotions", cartcontrollers.CartApplyPromotion(cartService, logg))
				r.Delete("/promotions/{promotionId}", cartcontrollers.CartRemovePromotion(cartService, logg))
			})
		})
	})

	return r
}
