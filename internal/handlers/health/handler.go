package health

import (
	"context"
	"net/http"
	"time"
	"todoapp/config"
	"todoapp/infras/otel"
	"todoapp/shared/cache"
	"todoapp/shared/constant"
	"todoapp/shared/logger"
	"todoapp/shared/timezone"
	"todoapp/transport/http/lifecycle"
	"todoapp/transport/http/response"

	"github.com/go-chi/chi/v5"
)

const checkTimeout = 2 * time.Second

// Pinger is implemented by *postgres.Connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Response struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

type Info struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Status  string `json:"status"`
	Docs    string `json:"docs"`
	Metrics string `json:"metrics"`
	Health  string `json:"health"`
}

type Handler struct {
	db     Pinger
	cache  cache.Cache
	config *config.Config
	state  *lifecycle.State
	otel   otel.Otel
}

func New(db Pinger, cache cache.Cache, config *config.Config, state *lifecycle.State, otel otel.Otel) Handler {
	return Handler{
		db:     db,
		cache:  cache,
		config: config,
		state:  state,
		otel:   otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/health", handler.Health)
}

// Health reports whether the service can serve traffic.
// @Summary Health check
// @Description Pings the database and the cache. A cache outage degrades the service without failing it.
// @Tags Health
// @Produce json
// @Success 200 {object} Response
// @Failure 503 {object} Response
// @Router /v1/health [get]
func (handler *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Health")
	defer scope.End()

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	res := Response{
		Status:    constant.HealthStatusHealthy,
		Version:   handler.config.App.Version,
		Timestamp: timezone.Format(timezone.Now(), constant.DateFormat),
		Checks:    map[string]string{},
	}

	code := http.StatusOK

	if err := handler.db.Ping(ctx); err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("database health check failed")

		res.Checks["database"] = constant.HealthStatusUnhealthy
		res.Status = constant.HealthStatusUnhealthy
		code = http.StatusServiceUnavailable
	} else {
		res.Checks["database"] = constant.HealthCheckOK
	}

	switch {
	case handler.config.Cache.Driver == constant.CacheDriverNone:
		res.Checks["cache"] = constant.HealthCheckDisabled
	case handler.cache.Ping(ctx) != nil:
		logger.Ctx(ctx).Warn().Msg("cache health check failed")

		res.Checks["cache"] = constant.HealthStatusUnhealthy
		if res.Status == constant.HealthStatusHealthy {
			res.Status = constant.HealthStatusDegraded
		}
	default:
		res.Checks["cache"] = constant.HealthCheckOK
	}

	if handler.state.ShuttingDown() {
		res.Status = constant.HealthStatusUnhealthy
		res.Checks["server"] = handler.state.Get().String()
		code = http.StatusServiceUnavailable
	}

	scope.SetAttribute("health.status", res.Status)

	response.WithJSON(w, code, res)
}

// Root describes the service and where its endpoints live.
func (handler *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	response.WithJSON(w, http.StatusOK, Info{
		Name:    handler.config.App.Name,
		Version: handler.config.App.Version,
		Status:  "running",
		Docs:    "/swagger/index.html",
		Metrics: handler.config.Metrics.Path,
		Health:  "/api/v1/health",
	})
}
