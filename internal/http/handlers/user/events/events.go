package events

import (
	"net/http"

	e "ovidot/internal/core/domain/errors"
	"ovidot/internal/core/domain/logging"
	"ovidot/internal/core/services/auth"
	"ovidot/internal/http/handlers/response"

	"github.com/r3labs/sse/v2"
)

// Handler streams notifications of the authenticated user. The stream query
// parameter must name the caller's own user ID.
type Handler struct {
	log       logging.Logger
	sseServer *sse.Server
}

func New(log logging.Logger, sseServer *sse.Server) *Handler {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if sseServer == nil {
		panic(e.NewNilArgumentError("sseServer"))
	}
	return &Handler{log: log, sseServer: sseServer}
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		response.RenderUnauthorized(rw)
		return
	}

	streamID := r.URL.Query().Get("stream")
	if streamID != string(userID) {
		response.RenderError(rw, "invalid stream", http.StatusBadRequest)
		return
	}

	go func() {
		// Received browser disconnection
		<-r.Context().Done()
		h.log.Info(
			r.Context(),
			"Unsubscribed from user events.",
			logging.Entry("userID", userID),
		)
	}()

	if !h.sseServer.StreamExists(streamID) {
		h.sseServer.CreateStream(streamID)
	}
	h.log.Info(
		r.Context(),
		"Subscribed to user events.",
		logging.Entry("userID", userID),
		logging.Entry("streamID", streamID),
	)
	h.sseServer.ServeHTTP(rw, r)
}
