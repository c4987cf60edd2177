package resetpassword

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ovidot/internal/core/domain/user"
	service "ovidot/internal/core/services/reset_password"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

type stubService struct {
	err   error
	input *service.Input
}

func (s *stubService) Run(ctx context.Context, input service.Input) (result service.Result, err error) {
	s.input = &input
	return result, s.err
}

func TestResetPasswordHandler(t *testing.T) {
	cases := []struct {
		id             string
		body           string
		serviceErr     error
		expectedStatus int
		expectedInput  *service.Input
	}{
		{
			id:             "success",
			body:           `{"password": "new-password"}`,
			expectedStatus: http.StatusOK,
			expectedInput:  &service.Input{Token: "abc", NewPassword: "new-password"},
		},
		{id: "invalid json", body: `[`, expectedStatus: http.StatusBadRequest},
		{id: "missing password", body: `{}`, expectedStatus: http.StatusBadRequest},
		{id: "short password", body: `{"password": "short"}`, expectedStatus: http.StatusBadRequest},
		{
			id:             "invalid token",
			body:           `{"password": "new-password"}`,
			serviceErr:     user.ErrInvalidPasswordResetToken,
			expectedStatus: http.StatusUnauthorized,
			expectedInput:  &service.Input{Token: "abc", NewPassword: "new-password"},
		},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			stub := &stubService{err: testcase.serviceErr}
			router := chi.NewRouter()
			router.Put("/auth/password_reset/{token}", New(stub).ServeHTTP)
			rw := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPut, "/auth/password_reset/abc", strings.NewReader(testcase.body))

			router.ServeHTTP(rw, r)

			assert.Equal(t, testcase.expectedStatus, rw.Code)
			assert.Equal(t, testcase.expectedInput, stub.input)
		})
	}
}
