package events

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ovidot/internal/core/domain/logging"
	"ovidot/internal/core/services/auth"

	"github.com/r3labs/sse/v2"
	"github.com/stretchr/testify/assert"
)

func newServer() *sse.Server {
	server := sse.New()
	server.AutoReplay = false
	return server
}

func TestUnauthenticated(t *testing.T) {
	server := newServer()
	defer server.Close()
	rw := httptest.NewRecorder()

	New(logging.NewFakeLogger(), server).ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/profile/events?stream=42", nil))

	assert.Equal(t, http.StatusUnauthorized, rw.Code)
	assert.False(t, server.StreamExists("42"))
}

func TestForeignStream(t *testing.T) {
	server := newServer()
	defer server.Close()
	rw := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/profile/events?stream=7", nil)
	r = r.WithContext(auth.WithUserID(r.Context(), "42"))

	New(logging.NewFakeLogger(), server).ServeHTTP(rw, r)

	assert.Equal(t, http.StatusBadRequest, rw.Code)
	assert.False(t, server.StreamExists("7"))
}

func TestSubscribe(t *testing.T) {
	server := newServer()
	defer server.Close()
	log := logging.NewFakeLogger()
	rw := httptest.NewRecorder()
	ctx, cancel := context.WithTimeout(auth.WithUserID(context.Background(), "42"), 100*time.Millisecond)
	defer cancel()
	r := httptest.NewRequest(http.MethodGet, "/profile/events?stream=42", nil).WithContext(ctx)

	New(log, server).ServeHTTP(rw, r)

	assert.Equal(t, http.StatusOK, rw.Code)
	assert.Equal(t, "text/event-stream", rw.Header().Get("Content-Type"))
}
