package notificationpublisher

import (
	"context"
	"encoding/json"
	"time"

	e "ovidot/internal/core/domain/errors"
	"ovidot/internal/core/domain/user"

	"github.com/r3labs/sse/v2"
)

type eventServer interface {
	StreamExists(id string) bool
	Publish(id string, event *sse.Event)
}

// SSE pushes notifications to the stream named after the user ID. Users
// without an open stream are skipped.
type SSE struct {
	server eventServer
}

func NewSSE(server *sse.Server) *SSE {
	if server == nil {
		panic(e.NewNilArgumentError("server"))
	}
	return &SSE{server: server}
}

func (p *SSE) PublishNotification(ctx context.Context, userID user.ID, n user.Notification) error {
	streamID := string(userID)
	if !p.server.StreamExists(streamID) {
		return nil
	}
	data, err := json.Marshal(notificationPayload{
		Type:      string(n.Type),
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
	})
	if err != nil {
		return err
	}
	p.server.Publish(streamID, &sse.Event{Event: []byte(n.Type), Data: data})
	return nil
}

type notificationPayload struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
