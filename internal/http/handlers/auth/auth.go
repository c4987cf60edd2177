package auth

import (
	"net/http"
	"strings"
	"time"

	e "ovidot/internal/core/domain/errors"
	"ovidot/internal/core/domain/user"
	"ovidot/internal/core/services/auth"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AUTH_TOKEN_PREFIX  = "Bearer "
	AUTH_TOKEN_MAX_LEN = 2048
)

func ParseToken(r *http.Request) (token string, ok bool) {
	header := r.Header.Get("authorization")
	if header == "" {
		return token, false
	}
	parts := strings.SplitN(header, AUTH_TOKEN_PREFIX, 2)
	if len(parts) != 2 || parts[1] == "" {
		return token, false
	}
	if len(parts[1]) > AUTH_TOKEN_MAX_LEN {
		return token, false
	}
	return parts[1], true
}

// JWT verifies HS256 bearer tokens whose subject is the user ID.
type JWT struct {
	secret []byte
}

func NewJWT(secret string) *JWT {
	if secret == "" {
		panic(e.NewInvalidStateError("JWT secret must not be empty"))
	}
	return &JWT{secret: []byte(secret)}
}

func (j *JWT) Issue(id user.ID, validFor time.Duration, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   string(id),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(validFor)),
	})
	return token.SignedString(j.secret)
}

func (j *JWT) Verify(raw string) (user.ID, bool) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(
		raw,
		claims,
		func(t *jwt.Token) (interface{}, error) { return j.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", false
	}
	return user.ID(claims.Subject), true
}

// SetUserIDToContext stores the verified caller in the request context.
// Requests without a valid token pass through unauthenticated.
func (j *JWT) SetUserIDToContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw, ok := ParseToken(r); ok {
			if id, ok := j.Verify(raw); ok {
				r = r.WithContext(auth.WithUserID(r.Context(), id))
			}
		}
		next.ServeHTTP(w, r)
	})
}
