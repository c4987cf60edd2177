package app

import (
	"fmt"
	"net/http"
	"time"

	"ovidot/internal/app/deps"
	"ovidot/internal/app/services"
	changepassword "ovidot/internal/http/handlers/auth/change_password"
	resetpassword "ovidot/internal/http/handlers/auth/reset_password"
	sendpasswordresettoken "ovidot/internal/http/handlers/auth/send_password_reset_token"
	verifypasswordresettoken "ovidot/internal/http/handlers/auth/verify_password_reset_token"
	"ovidot/internal/http/handlers/health"
	"ovidot/internal/http/handlers/user/events"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	return &http.Server{
		Handler:           NewRouter(deps, s),
		Addr:              fmt.Sprintf("0.0.0.0:%d", deps.Config.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func NewRouter(deps *deps.Deps, s *services.Services) http.Handler {
	resetPassword := resetpassword.New(s.ResetPassword)
	verifyPasswordResetToken := verifypasswordresettoken.New(s.VerifyPasswordResetToken)

	authRouter := chi.NewRouter()
	authRouter.Method(
		http.MethodPost,
		"/password_reset",
		sendpasswordresettoken.New(s.SendPasswordResetToken, deps.Config.IsTestMode()),
	)
	authRouter.Method(http.MethodGet, "/password_reset/{token}", verifyPasswordResetToken)
	authRouter.Method(http.MethodPut, "/password_reset/{token}", resetPassword)
	// An empty token still has to be answered with 401.
	authRouter.Method(http.MethodGet, "/password_reset/", verifyPasswordResetToken)
	authRouter.Method(http.MethodPut, "/password_reset/", resetPassword)

	profileRouter := chi.NewRouter()
	profileRouter.Use(deps.JWT.SetUserIDToContext)
	profileRouter.Method(http.MethodPut, "/password", changepassword.New(s.ChangePassword))
	profileRouter.Method(http.MethodGet, "/events", events.New(deps.Logger, deps.SseServer))

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Mount("/auth", authRouter)
	router.Mount("/profile", profileRouter)
	router.Method(http.MethodGet, "/health", health.New(deps.Logger, deps.Cache, deps.DBPinger))

	return router
}
