package auth

import (
	"context"
	"ovidot/internal/core/domain/user"
	"testing"

	"github.com/stretchr/testify/require"
)

type input struct {
	UserID user.ID
}

func (i input) WithAuthenticatedUserID(id user.ID) Input {
	i.UserID = id
	return i
}

type stubService struct {
	input *input
}

func (s *stubService) Run(ctx context.Context, in input) (struct{}, error) {
	s.input = &in
	return struct{}{}, nil
}

func TestAuthenticatedUserIDPassedToInner(t *testing.T) {
	inner := &stubService{}
	service := WithAuthentication[input, struct{}](inner)

	_, err := service.Run(WithUserID(context.Background(), "user-1"), input{})

	require.NoError(t, err)
	require.NotNil(t, inner.input)
	require.Equal(t, user.ID("user-1"), inner.input.UserID)
}

func TestUnauthenticated(t *testing.T) {
	cases := []struct {
		id  string
		ctx context.Context
	}{
		{id: "no-user", ctx: context.Background()},
		{id: "empty-user", ctx: WithUserID(context.Background(), "")},
		{id: "wrong-type", ctx: context.WithValue(context.Background(), CONTEXT_USER_ID_KEY, "user-1")},
	}
	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			inner := &stubService{}
			service := WithAuthentication[input, struct{}](inner)

			_, err := service.Run(testcase.ctx, input{})

			require.ErrorIs(t, err, user.ErrUnauthenticated)
			require.Nil(t, inner.input)
		})
	}
}
