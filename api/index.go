package handler

import (
	"net/http"
	"sync"
	"todoapp/config"
	"todoapp/di"
	"todoapp/shared/logger"
	"todoapp/shared/timezone"
	"todoapp/transport/http/lifecycle"

	"github.com/rs/zerolog/log"
)

var (
	once    sync.Once
	app     http.Handler
	initErr error
)

// Handler is the serverless entrypoint. The service graph is built on the first invocation
// and reused while the instance stays warm.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()
		logger.SetLogLevel(cfg)
		logger.SetLogFormat(cfg)
		timezone.Init(cfg.App.Timezone)

		server, _, err := di.InitializeService()
		if err != nil {
			initErr = err

			return
		}

		server.State.Set(lifecycle.ServerStateReady)
		app = server.Handler()
	})

	if initErr != nil {
		log.Error().Err(initErr).Msg("Failed to initialize service")
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)

		return
	}

	r.RequestURI = r.URL.String()

	app.ServeHTTP(w, r)
}
