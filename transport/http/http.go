package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"todoapp/config"
	"todoapp/shared/constant"
	"todoapp/transport/http/lifecycle"
	"todoapp/transport/http/router"

	"github.com/rs/zerolog/log"
)

type HTTP struct {
	Config *config.Config
	Router router.Router
	State  *lifecycle.State
	server *http.Server
}

func New(cfg *config.Config, r router.Router, state *lifecycle.State) *HTTP {
	return &HTTP{
		Config: cfg,
		Router: r,
		State:  state,
	}
}

// Handler returns the routed handler without starting a listener.
func (h *HTTP) Handler() http.Handler {
	return h.Router.Handler()
}

// Serve listens until SIGINT or SIGTERM and then shuts down gracefully.
func (h *HTTP) Serve() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return h.ServeContext(ctx)
}

// ServeContext listens until ctx is done and then shuts down gracefully.
func (h *HTTP) ServeContext(ctx context.Context) error {
	serverConfig := h.Config.Server

	h.server = &http.Server{
		Addr:              net.JoinHostPort(serverConfig.Host, serverConfig.Port),
		Handler:           h.Handler(),
		ReadHeaderTimeout: time.Duration(serverConfig.ReadTimeoutSeconds) * time.Second,
		ReadTimeout:       time.Duration(serverConfig.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(serverConfig.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:       time.Duration(serverConfig.IdleTimeoutSeconds) * time.Second,
	}

	listener, err := net.Listen("tcp", h.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", h.server.Addr, err)
	}

	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)

		if err := h.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	h.State.Set(lifecycle.ServerStateReady)

	log.Info().Str("addr", listener.Addr().String()).Msg("Starting up HTTP server.")

	select {
	case err, ok := <-errCh:
		if !ok {
			return nil
		}

		return fmt.Errorf("http server stopped: %w", err)
	case <-ctx.Done():
	}

	return h.shutdown()
}

func (h *HTTP) shutdown() error {
	shutdownConfig := h.Config.Server.Shutdown

	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")
	} else {
		log.Info().Msg("Received SIGTERM.")
		log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

		h.State.Set(lifecycle.ServerStateInGracePeriod)

		time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)
	}

	log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

	h.State.Set(lifecycle.ServerStateInCleanupPeriod)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(shutdownConfig.CleanupPeriodSeconds)*time.Second)
	defer cancel()

	if err := h.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to drain http server: %w", err)
	}

	log.Info().Msg("Cleaning up completed. Shutting down now.")

	return nil
}
