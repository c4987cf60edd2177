package auth

import (
	"context"
	e "ovidot/internal/core/domain/errors"
	"ovidot/internal/core/domain/user"
	"ovidot/internal/core/services"
)

type contextUserID string

// CONTEXT_USER_ID_KEY holds the user.ID of a caller whose credentials were
// verified by the transport layer.
const CONTEXT_USER_ID_KEY = contextUserID("userID")

type Input interface {
	WithAuthenticatedUserID(id user.ID) Input
}

func WithUserID(ctx context.Context, id user.ID) context.Context {
	return context.WithValue(ctx, CONTEXT_USER_ID_KEY, id)
}

func UserIDFromContext(ctx context.Context) (user.ID, bool) {
	id, ok := ctx.Value(CONTEXT_USER_ID_KEY).(user.ID)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

type service[T Input, S any] struct {
	inner services.Service[T, S]
}

func WithAuthentication[T Input, S any](inner services.Service[T, S]) services.Service[T, S] {
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &service[T, S]{inner: inner}
}

func (s *service[T, S]) Run(ctx context.Context, input T) (result S, err error) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return result, user.ErrUnauthenticated
	}
	return s.inner.Run(ctx, input.WithAuthenticatedUserID(userID).(T))
}
