package verifypasswordresettoken

import (
	"net/http"

	e "ovidot/internal/core/domain/errors"
	"ovidot/internal/core/domain/user"
	"ovidot/internal/core/services"
	service "ovidot/internal/core/services/verify_password_reset_token"
	"ovidot/internal/http/handlers/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service services.Service[service.Input, service.Result]
}

func New(service services.Service[service.Input, service.Result]) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Result struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	_, err := h.service.Run(r.Context(), service.Input{Token: user.PasswordResetToken(token)})
	if err != nil {
		response.RenderServiceError(rw, err)
		return
	}

	response.Render(rw, Result{Message: "success", Token: token}, http.StatusOK)
}
