package main

import (
	"todoapp/config"
	"todoapp/di"
	"todoapp/helper"
	"todoapp/shared/logger"
	"todoapp/shared/timezone"

	"github.com/rs/zerolog/log"
)

// @title						Todo API
// @version						1.0
// @description					CRUD service for todo items backed by PostgreSQL with a read-through cache.
// @BasePath					/api
func main() {
	cfg := config.Get()

	logger.InitLogger()
	logger.SetLogLevel(cfg)
	logger.SetLogFormat(cfg)

	timezone.Init(cfg.App.Timezone)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http, cleanup, err := di.InitializeService()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize service")
	}

	defer cleanup()

	if err := http.Serve(); err != nil {
		log.Error().Err(err).Msg("HTTP server stopped with error")
	}
}
