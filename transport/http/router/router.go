package router

import (
	"net/http"
	"todoapp/config"
	"todoapp/infras/metrics"
	"todoapp/internal/handlers/health"
	"todoapp/internal/handlers/todo"
	"todoapp/shared/failure"
	"todoapp/transport/http/middleware"
	"todoapp/transport/http/response"

	// Registers the generated OpenAPI document.
	_ "todoapp/docs"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

type DomainHandlers struct {
	Todo   todo.Handler
	Health health.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	middleware     middleware.AppMiddleware
	metrics        metrics.Metrics
	config         *config.Config
}

// SetupRoutes mounts the versioned API on router. Todo routes are rejected once the server
// starts shutting down and are subject to rate limiting.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Health.Router(routerGroup)

		routerGroup.Group(func(guarded chi.Router) {
			guarded.Use(r.middleware.ShutdownGuard, r.middleware.RateLimit())

			r.DomainHandlers.Todo.Router(guarded)
		})
	})
}

// Handler builds the full HTTP handler, including the cross-cutting middleware chain.
func (r *Router) Handler() http.Handler {
	mux := chi.NewRouter()

	mux.Use(
		r.middleware.RequestID,
		r.middleware.Tracing,
		r.middleware.AccessLog,
		r.middleware.Metrics,
		r.middleware.Recover,
		r.middleware.CORS(),
	)

	mux.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.WithError(w, failure.NotFound("route not found"))
	})

	mux.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.WithError(w, failure.MethodNotAllowed())
	})

	mux.Get("/", r.DomainHandlers.Health.Root)

	if r.config.Metrics.Enable {
		mux.Method(http.MethodGet, r.config.Metrics.Path, r.metrics.Handler())
	}

	mux.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	mux.Route("/api", r.SetupRoutes)

	return mux
}

func New(domainHandlers DomainHandlers, middleware middleware.AppMiddleware, metrics metrics.Metrics, config *config.Config) Router {
	return Router{
		DomainHandlers: domainHandlers,
		middleware:     middleware,
		metrics:        metrics,
		config:         config,
	}
}
