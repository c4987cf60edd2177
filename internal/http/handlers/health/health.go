package health

import (
	"context"
	"net/http"
	"time"

	e "ovidot/internal/core/domain/errors"
	"ovidot/internal/core/domain/logging"
	"ovidot/internal/http/handlers/response"
)

const CHECK_TIMEOUT = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts clients whose ping method has a different shape.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type Handler struct {
	log   logging.Logger
	cache Pinger
	db    Pinger
}

func New(log logging.Logger, cache Pinger, db Pinger) *Handler {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if cache == nil {
		panic(e.NewNilArgumentError("cache"))
	}
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &Handler{log: log, cache: cache, db: db}
}

type Result struct {
	Cache string `json:"cache"`
	DB    string `json:"db"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), CHECK_TIMEOUT)
	defer cancel()

	result := Result{
		Cache: h.check(ctx, "cache", h.cache),
		DB:    h.check(ctx, "db", h.db),
	}
	status := http.StatusOK
	if result.Cache != "ok" || result.DB != "ok" {
		status = http.StatusServiceUnavailable
	}
	response.Render(rw, result, status)
}

func (h *Handler) check(ctx context.Context, name string, p Pinger) string {
	if err := p.Ping(ctx); err != nil {
		h.log.Warning(
			ctx,
			"Health check failed.",
			logging.Entry("component", name),
			logging.Entry("err", err),
		)
		return "unavailable"
	}
	return "ok"
}
