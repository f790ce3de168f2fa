package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/storefront-admin/pkg/config"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}

	cases := []struct {
		name   string
		db     Pinger
		redis  Pinger
		status int
	}{
		{name: "database only", db: stubPinger{}, status: http.StatusOK},
		{name: "database and redis", db: stubPinger{}, redis: stubPinger{}, status: http.StatusOK},
		{name: "database down", db: stubPinger{err: errors.New("refused")}, status: http.StatusServiceUnavailable},
		{name: "redis down", db: stubPinger{}, redis: stubPinger{err: errors.New("refused")}, status: http.StatusServiceUnavailable},
		{name: "database missing", status: http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HealthReady(cfg, nil, tc.db, tc.redis).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
			if rec.Code != tc.status {
				t.Fatalf("expected %d got %d", tc.status, rec.Code)
			}
			if got := rec.Header().Get("X-Storefront-Env"); got != "dev" {
				t.Fatalf("expected env header dev got %q", got)
			}
		})
	}
}
