//go:build wireinject
// +build wireinject

package di

import (
	"todoapp/config"
	"todoapp/infras/kafka"
	"todoapp/infras/metrics"
	"todoapp/infras/otel"
	"todoapp/infras/postgres"
	"todoapp/infras/redis"
	healthHandler "todoapp/internal/handlers/health"
	todoHandler "todoapp/internal/handlers/todo"
	"todoapp/shared/cache"
	"todoapp/transport/http"
	"todoapp/transport/http/lifecycle"
	"todoapp/transport/http/middleware"
	"todoapp/transport/http/router"

	todoRepository "todoapp/internal/domains/todo/repository"
	todoService "todoapp/internal/domains/todo/service"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	metrics.New,
	kafka.New,
	wire.Bind(new(healthHandler.Pinger), new(*postgres.Connection)),
)

var middlewares = wire.NewSet(
	lifecycle.NewState,
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.New,
)

var todoDomain = wire.NewSet(
	todoRepository.New,
	todoService.New,
	ProvidePublisher,
)

var domains = wire.NewSet(
	todoDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	todoHandler.New,
	healthHandler.New,
	router.New,
)

func InitializeService() (*http.HTTP, func(), error) {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}, nil, nil
}
