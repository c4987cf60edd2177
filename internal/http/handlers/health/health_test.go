package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ovidot/internal/core/domain/logging"

	"github.com/stretchr/testify/assert"
)

func ok(ctx context.Context) error { return nil }

func failing(ctx context.Context) error { return errors.New("connection refused") }

func TestHealth(t *testing.T) {
	cases := []struct {
		id       string
		cache    PingFunc
		db       PingFunc
		status   int
		body     string
		warnings int
	}{
		{id: "healthy", cache: ok, db: ok, status: http.StatusOK, body: `{"cache":"ok","db":"ok"}`},
		{id: "cache-down", cache: failing, db: ok, status: http.StatusServiceUnavailable, body: `{"cache":"unavailable","db":"ok"}`, warnings: 1},
		{id: "db-down", cache: ok, db: failing, status: http.StatusServiceUnavailable, body: `{"cache":"ok","db":"unavailable"}`, warnings: 1},
		{id: "all-down", cache: failing, db: failing, status: http.StatusServiceUnavailable, body: `{"cache":"unavailable","db":"unavailable"}`, warnings: 2},
	}
	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			// Setup ---
			log := logging.NewFakeLogger()
			handler := New(log, testcase.cache, testcase.db)
			rw := httptest.NewRecorder()

			// Exercise ---
			handler.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/health", nil))

			// Verify ---
			assert.Equal(t, testcase.status, rw.Code)
			assert.JSONEq(t, testcase.body, rw.Body.String())
			assert.Equal(t, testcase.warnings, log.Count(logging.WARNING))
		})
	}
}
