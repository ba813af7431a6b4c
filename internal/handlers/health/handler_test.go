package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"todoapp/config"
	"todoapp/infras/otel/mocks"
	"todoapp/internal/handlers/health"
	cacheMocks "todoapp/shared/cache/mocks"
	"todoapp/shared/constant"
	"todoapp/transport/http/lifecycle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type pinger struct {
	err error
}

func (p pinger) Ping(_ context.Context) error {
	return p.err
}

func TestHandler_Health(t *testing.T) {
	errDown := errors.New("connection refused")

	tests := []struct {
		name       string
		driver     string
		dbErr      error
		cacheErr   error
		shutdown   bool
		wantStatus int
		wantBody   health.Response
	}{
		{
			name:       "healthy",
			driver:     constant.CacheDriverRedis,
			wantStatus: http.StatusOK,
			wantBody: health.Response{
				Status: constant.HealthStatusHealthy,
				Checks: map[string]string{"database": constant.HealthCheckOK, "cache": constant.HealthCheckOK},
			},
		},
		{
			name:       "cache down degrades",
			driver:     constant.CacheDriverRedis,
			cacheErr:   errDown,
			wantStatus: http.StatusOK,
			wantBody: health.Response{
				Status: constant.HealthStatusDegraded,
				Checks: map[string]string{"database": constant.HealthCheckOK, "cache": constant.HealthStatusUnhealthy},
			},
		},
		{
			name:       "database down",
			driver:     constant.CacheDriverRedis,
			dbErr:      errDown,
			wantStatus: http.StatusServiceUnavailable,
			wantBody: health.Response{
				Status: constant.HealthStatusUnhealthy,
				Checks: map[string]string{"database": constant.HealthStatusUnhealthy, "cache": constant.HealthCheckOK},
			},
		},
		{
			name:       "cache disabled",
			driver:     constant.CacheDriverNone,
			wantStatus: http.StatusOK,
			wantBody: health.Response{
				Status: constant.HealthStatusHealthy,
				Checks: map[string]string{"database": constant.HealthCheckOK, "cache": constant.HealthCheckDisabled},
			},
		},
		{
			name:       "shutting down",
			driver:     constant.CacheDriverRedis,
			shutdown:   true,
			wantStatus: http.StatusServiceUnavailable,
			wantBody: health.Response{
				Status: constant.HealthStatusUnhealthy,
				Checks: map[string]string{
					"database": constant.HealthCheckOK,
					"cache":    constant.HealthCheckOK,
					"server":   lifecycle.ServerStateInGracePeriod.String(),
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Cache.Driver = tt.driver
			cfg.App.Version = "1.2.3"

			cache := cacheMocks.NewMockCache(gomock.NewController(t))
			if tt.driver != constant.CacheDriverNone {
				cache.EXPECT().Ping(gomock.Any()).Return(tt.cacheErr)
			}

			state := lifecycle.NewState()
			state.Set(lifecycle.ServerStateReady)

			if tt.shutdown {
				state.Set(lifecycle.ServerStateInGracePeriod)
			}

			handler := health.New(pinger{err: tt.dbErr}, cache, cfg, state, mocks.NewOtel())

			rec := httptest.NewRecorder()
			handler.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)

			var res health.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.Equal(t, tt.wantBody.Status, res.Status)
			assert.Equal(t, tt.wantBody.Checks, res.Checks)
			assert.Equal(t, "1.2.3", res.Version)
			assert.NotEmpty(t, res.Timestamp)
		})
	}
}

func TestHandler_Root(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Name = "todo-api"
	cfg.App.Version = "1.2.3"
	cfg.Metrics.Path = "/metrics"

	handler := health.New(pinger{}, nil, cfg, lifecycle.NewState(), mocks.NewOtel())

	rec := httptest.NewRecorder()
	handler.Root(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var res health.Info
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "todo-api", res.Name)
	assert.Equal(t, "/metrics", res.Metrics)
	assert.Equal(t, "/api/v1/health", res.Health)
}
