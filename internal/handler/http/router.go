package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/movieplatform/user-service/internal/service"
	"github.com/movieplatform/user-service/pkg/health"
	"github.com/movieplatform/user-service/pkg/middleware"
)

// RouterConfig holds the cross-cutting settings for the HTTP router.
type RouterConfig struct {
	CORS              CORSConfig
	PprofAllowedCIDRs []string
}

// NewRouter creates a chi router with all user service routes registered.
func NewRouter(
	userService *service.UserService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing("user"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("user"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)

	userHandler := NewUserHandler(userService)

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", userHandler.List)
		r.Post("/", userHandler.Create)

		// Fixed segments before the numeric {id} match.
		r.Get("/search", userHandler.Search)
		r.Get("/created-after-date", userHandler.ListCreatedAfter)
		r.Get("/email/{email}", userHandler.GetByEmail)
		r.Get("/username/{username}", userHandler.GetByUsername)

		r.Get("/{id}", userHandler.GetByID)
		r.Put("/{id}", userHandler.Update)
		r.Delete("/{id}", userHandler.Delete)
		r.Post("/{id}/login", userHandler.RecordLogin)
	})

	return r
}
