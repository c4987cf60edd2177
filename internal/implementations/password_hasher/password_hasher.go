package passwordhasher

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	"ovidot/internal/core/domain/user"

	"golang.org/x/crypto/bcrypt"
)

// MIN_COST is the lowest bcrypt work factor accepted for stored passwords.
const MIN_COST = 12

type Bcrypt struct {
	secret string
	cost   int
}

// NewBcrypt raises cost to MIN_COST when a lower value is given.
func NewBcrypt(secret string, cost int) *Bcrypt {
	if cost < MIN_COST {
		cost = MIN_COST
	}
	return &Bcrypt{secret: secret, cost: cost}
}

func (h *Bcrypt) Cost() int {
	return h.cost
}

func (h *Bcrypt) HashPassword(password user.RawPassword) (hash user.PasswordHash, err error) {
	bcryptHash, err := bcrypt.GenerateFromPassword(h.peppered(password), h.cost)
	if err != nil {
		return hash, err
	}
	return user.PasswordHash(bcryptHash), nil
}

func (h *Bcrypt) ValidatePassword(password user.RawPassword, hash user.PasswordHash) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), h.peppered(password))
	return err == nil
}

// peppered keys the password with the server secret. The encoded digest is
// 44 bytes, so bcrypt's 72 byte input limit never applies.
func (h *Bcrypt) peppered(password user.RawPassword) []byte {
	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write([]byte(password))
	digest := mac.Sum(nil)
	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(digest)))
	base64.StdEncoding.Encode(encoded, digest)
	return encoded
}
