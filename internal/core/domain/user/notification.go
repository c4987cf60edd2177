package user

import (
	"context"
	"time"
)

// MaxNotifications bounds the notification history kept on a user record.
const MaxNotifications = 15

type NotificationType string

const NotificationTypeUserUpdated NotificationType = "updatedUser"

type Notification struct {
	Type      NotificationType
	Message   string
	CreatedAt time.Time
}

func NewNotification(t NotificationType, message string, at time.Time) Notification {
	return Notification{Type: t, Message: message, CreatedAt: at}
}

// AppendNotification appends n and evicts the oldest entries until at most max
// remain. The input slice is not modified.
func AppendNotification(list []Notification, n Notification, max int) []Notification {
	if max < 1 {
		max = 1
	}
	result := make([]Notification, 0, len(list)+1)
	result = append(result, list...)
	result = append(result, n)
	if overflow := len(result) - max; overflow > 0 {
		result = result[overflow:]
	}
	return result
}

type NotificationPublisher interface {
	PublishNotification(ctx context.Context, userID ID, n Notification) error
}
