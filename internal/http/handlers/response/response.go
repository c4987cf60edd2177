package response

import (
	"encoding/json"
	"errors"
	"net/http"

	e "ovidot/internal/core/domain/errors"
)

type errorResponse struct {
	Error string `json:"error"`
}

type Message struct {
	Message string `json:"message"`
}

func RenderUnauthorized(rw http.ResponseWriter) {
	RenderError(rw, "invalid authentication token", http.StatusUnauthorized)
}

func RenderInternalError(rw http.ResponseWriter) {
	RenderError(rw, "internal error", http.StatusInternalServerError)
}

// RenderServiceError is the only place where error kinds become status codes.
// Untagged errors never leak their message.
func RenderServiceError(rw http.ResponseWriter, err error) {
	var tagged *e.Error
	if !errors.As(err, &tagged) {
		if e.KindOf(err) == e.KindDependency {
			RenderError(rw, "dependency timeout", http.StatusInternalServerError)
			return
		}
		RenderInternalError(rw)
		return
	}

	switch tagged.Kind() {
	case e.KindValidation:
		RenderError(rw, tagged.Error(), http.StatusBadRequest)
	case e.KindNotFound:
		RenderError(rw, tagged.Error(), http.StatusNotFound)
	case e.KindAuth:
		RenderError(rw, tagged.Error(), http.StatusUnauthorized)
	case e.KindDependency:
		RenderError(rw, tagged.Error(), http.StatusInternalServerError)
	default:
		RenderInternalError(rw)
	}
}

func RenderError(rw http.ResponseWriter, msg string, status int) {
	Render(rw, errorResponse{Error: msg}, status)
}

func Render(rw http.ResponseWriter, res interface{}, status int) {
	rw.Header().Set("Content-Type", "application/json")

	content, err := json.Marshal(res)
	if err != nil {
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}

	rw.WriteHeader(status)
	rw.Write(content)
}
