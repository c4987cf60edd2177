package changepassword

import (
	"context"
	"fmt"
	"testing"
	"time"

	e "ovidot/internal/core/domain/errors"
	"ovidot/internal/core/domain/logging"
	"ovidot/internal/core/domain/user"
	"ovidot/internal/core/services/auth"

	"github.com/stretchr/testify/require"
)

const USER_ID = user.ID("123")

var NOW = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

type suite struct {
	log       *logging.FakeLogger
	userRepo  *user.FakeUserRepository
	hasher    *user.FakePasswordHasher
	publisher *user.FakeNotificationPublisher
}

func setupSuite(currentPassword string) *suite {
	hasher := user.NewFakePasswordHasher()
	userRepo := user.NewFakeUserRepository()
	userRepo.Users = []user.User{{
		ID:           USER_ID,
		Email:        "john@example.com",
		PasswordHash: hashPassword(currentPassword, hasher),
	}}
	return &suite{
		log:       logging.NewFakeLogger(),
		userRepo:  userRepo,
		hasher:    hasher,
		publisher: user.NewFakeNotificationPublisher(),
	}
}

func (s *suite) createService() *service {
	return New(s.log, s.userRepo, s.hasher, s.publisher, func() time.Time { return NOW }, user.MaxNotifications)
}

func TestPasswordSuccessfullyChanged(t *testing.T) {
	cases := []struct {
		id                      string
		currentPassswordInDB    string
		currentPassswordInInput string
		newPasswordInInput      string
	}{
		{
			id:                      "1",
			currentPassswordInDB:    "test-1",
			currentPassswordInInput: "test-1",
			newPasswordInInput:      "test-2",
		},
		{
			id:                      "2",
			currentPassswordInDB:    "aaa",
			currentPassswordInInput: "aaa",
			newPasswordInInput:      "bbb",
		},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			// Setup ---
			suite := setupSuite(testcase.currentPassswordInDB)
			service := suite.createService()

			// Exercise ---
			result, err := service.Run(context.Background(), Input{
				UserID:          USER_ID,
				CurrentPassword: user.RawPassword(testcase.currentPassswordInInput),
				NewPassword:     user.RawPassword(testcase.newPasswordInInput),
			})

			// Verify ---
			require.NoError(t, err)
			assertPasswordValid(t, suite, testcase.newPasswordInInput)

			expected := user.Notification{
				Type:      user.NotificationTypeUserUpdated,
				Message:   "Password changed",
				CreatedAt: NOW,
			}
			require.Equal(t, expected, result.Notification)
			require.Equal(t, []user.Notification{expected}, suite.userRepo.Users[0].Notifications)
			require.Equal(t, []user.Notification{expected}, suite.publisher.Published[USER_ID])
		})
	}
}

func TestSamePassword(t *testing.T) {
	// Setup ---
	suite := setupSuite("test-1")
	service := suite.createService()

	// Exercise ---
	_, err := service.Run(context.Background(), Input{
		UserID:          USER_ID,
		CurrentPassword: "test-1",
		NewPassword:     "test-1",
	})

	// Verify ---
	require.ErrorIs(t, err, user.ErrPasswordsMustDiffer)
	require.Equal(t, e.KindValidation, e.KindOf(err))
	assertPasswordValid(t, suite, "test-1")
}

func TestCurrentPasswordInvalid(t *testing.T) {
	// Setup ---
	suite := setupSuite("valid-password")
	service := suite.createService()

	// Exercise ---
	_, err := service.Run(context.Background(), Input{
		UserID:          USER_ID,
		CurrentPassword: "invalid-password",
		NewPassword:     "bbb",
	})

	// Verify ---
	require.ErrorIs(t, err, user.ErrCurrentPasswordIncorrect)
	require.Equal(t, e.KindValidation, e.KindOf(err))
	assertPasswordValid(t, suite, "valid-password")
	require.Empty(t, suite.userRepo.Users[0].Notifications)
	require.Empty(t, suite.publisher.Published)
}

func TestUserNotFound(t *testing.T) {
	// Setup ---
	suite := setupSuite("aaa")
	service := suite.createService()

	// Exercise ---
	_, err := service.Run(context.Background(), Input{
		UserID:          "unknown",
		CurrentPassword: "aaa",
		NewPassword:     "bbb",
	})

	// Verify ---
	require.ErrorIs(t, err, user.ErrUserDoesNotExist)
	require.Equal(t, e.KindNotFound, e.KindOf(err))
}

func TestNotificationsBounded(t *testing.T) {
	// Setup ---
	suite := setupSuite("password-0")
	service := suite.createService()

	// Exercise ---
	for i := 0; i < user.MaxNotifications+5; i++ {
		_, err := service.Run(context.Background(), Input{
			UserID:          USER_ID,
			CurrentPassword: user.RawPassword(fmt.Sprintf("password-%d", i)),
			NewPassword:     user.RawPassword(fmt.Sprintf("password-%d", i+1)),
		})
		require.NoError(t, err)
	}

	// Verify ---
	require.Len(t, suite.userRepo.Users[0].Notifications, user.MaxNotifications)
	assertPasswordValid(t, suite, fmt.Sprintf("password-%d", user.MaxNotifications+5))
}

func TestPublishFailureDoesNotFailChange(t *testing.T) {
	// Setup ---
	suite := setupSuite("aaa")
	suite.publisher.ReturnError = true
	service := suite.createService()

	// Exercise ---
	_, err := service.Run(context.Background(), Input{
		UserID:          USER_ID,
		CurrentPassword: "aaa",
		NewPassword:     "bbb",
	})

	// Verify ---
	require.NoError(t, err)
	assertPasswordValid(t, suite, "bbb")
	require.Equal(t, 1, suite.log.Count(logging.WARNING))
}

func TestRequiresAuthentication(t *testing.T) {
	// Setup ---
	suite := setupSuite("aaa")
	service := auth.WithAuthentication[Input, Result](suite.createService())

	// Exercise ---
	_, err := service.Run(context.Background(), Input{CurrentPassword: "aaa", NewPassword: "bbb"})

	// Verify ---
	require.ErrorIs(t, err, user.ErrUnauthenticated)
	assertPasswordValid(t, suite, "aaa")
}

func TestAuthenticatedUserIDUsed(t *testing.T) {
	// Setup ---
	suite := setupSuite("aaa")
	service := auth.WithAuthentication[Input, Result](suite.createService())
	ctx := auth.WithUserID(context.Background(), USER_ID)

	// Exercise ---
	_, err := service.Run(ctx, Input{UserID: "someone-else", CurrentPassword: "aaa", NewPassword: "bbb"})

	// Verify ---
	require.NoError(t, err)
	assertPasswordValid(t, suite, "bbb")
}

func hashPassword(raw string, hasher user.PasswordHasher) user.PasswordHash {
	hash, err := hasher.HashPassword(user.RawPassword(raw))
	if err != nil {
		panic(err)
	}
	return hash
}

func assertPasswordValid(t *testing.T, suite *suite, password string) {
	t.Helper()

	u, err := suite.userRepo.GetByID(context.Background(), USER_ID)
	require.NoError(t, err)

	isValid := suite.hasher.ValidatePassword(user.RawPassword(password), u.PasswordHash)
	require.True(t, isValid)
}
