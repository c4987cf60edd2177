package resettoken

import (
	"ovidot/internal/core/domain/user"

	"github.com/google/uuid"
)

// UUID produces version 4 tokens, 122 bits of randomness each.
type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

func (g *UUID) GeneratePasswordResetToken() (user.PasswordResetToken, error) {
	token, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return user.PasswordResetToken(token.String()), nil
}
