package user

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	c "ovidot/internal/core/domain/common"
	"sync"
	"time"
)

type FakePasswordHasher struct{}

func NewFakePasswordHasher() *FakePasswordHasher {
	return &FakePasswordHasher{}
}

func (h *FakePasswordHasher) HashPassword(password RawPassword) (PasswordHash, error) {
	hash := md5.New()
	io.WriteString(hash, string(password))
	return PasswordHash(fmt.Sprintf("%x", hash.Sum(nil))), nil
}

func (h *FakePasswordHasher) ValidatePassword(password RawPassword, hash PasswordHash) bool {
	actualHash, err := h.HashPassword(password)
	if err != nil {
		return false
	}
	return actualHash == hash
}

type FakeUserRepository struct {
	Users       []User
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{Users: make([]User, 0, 10)}
}

func (r *FakeUserRepository) GetByID(ctx context.Context, id ID) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user %s", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) GetByEmail(ctx context.Context, email c.Email) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user %s", email)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.Email == email {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) SetPasswordResetToken(ctx context.Context, input SetPasswordResetTokenInput) error {
	if r.ReturnError {
		return fmt.Errorf("could not set password reset token for user %s", input.ID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.ID != input.ID && u.PasswordResetToken.IsPresent && u.PasswordResetToken.Value == input.Token {
			return ErrPasswordResetTokenCollision
		}
	}
	for ix, u := range r.Users {
		if u.ID == input.ID {
			r.Users[ix].PasswordResetToken = c.NewOptional(input.Token, true)
			r.Users[ix].PasswordResetExpiresAt = c.NewOptional(input.ExpiresAt, true)
			return nil
		}
	}
	return ErrUserDoesNotExist
}

func (r *FakeUserRepository) GetByPasswordResetToken(
	ctx context.Context,
	token PasswordResetToken,
	now time.Time,
) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user by password reset token")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.HasValidPasswordResetToken(token, now) {
			return u, nil
		}
	}
	return u, ErrInvalidPasswordResetToken
}

func (r *FakeUserRepository) ResetPassword(ctx context.Context, input ResetPasswordInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not reset password")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.HasValidPasswordResetToken(input.Token, input.At) {
			r.Users[ix].PasswordHash = input.PasswordHash
			r.Users[ix].PasswordResetToken = c.None[PasswordResetToken]()
			r.Users[ix].PasswordResetExpiresAt = c.None[time.Time]()
			return r.Users[ix], nil
		}
	}
	return u, ErrInvalidPasswordResetToken
}

func (r *FakeUserRepository) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	if r.ReturnError {
		return fmt.Errorf("could not change password for user %s", input.ID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID != input.ID {
			continue
		}
		if u.PasswordHash != input.CurrentPasswordHash {
			return ErrCurrentPasswordIncorrect
		}
		r.Users[ix].PasswordHash = input.NewPasswordHash
		r.Users[ix].Notifications = append([]Notification(nil), input.Notifications...)
		return nil
	}
	return ErrUserDoesNotExist
}

type FakePasswordResetTokenGenerator struct {
	Tokens      []PasswordResetToken
	ReturnError bool
	generated   int
	lock        sync.Mutex
}

// NewFakePasswordResetTokenGenerator returns the given tokens in order and
// then keeps returning the last one.
func NewFakePasswordResetTokenGenerator(tokens ...string) *FakePasswordResetTokenGenerator {
	g := &FakePasswordResetTokenGenerator{}
	for _, t := range tokens {
		g.Tokens = append(g.Tokens, PasswordResetToken(t))
	}
	return g
}

func (g *FakePasswordResetTokenGenerator) GeneratePasswordResetToken() (PasswordResetToken, error) {
	if g.ReturnError || len(g.Tokens) == 0 {
		return "", fmt.Errorf("could not generate password reset token")
	}
	g.lock.Lock()
	defer g.lock.Unlock()
	ix := g.generated
	if ix >= len(g.Tokens) {
		ix = len(g.Tokens) - 1
	}
	g.generated++
	return g.Tokens[ix], nil
}

type FakePasswordResetLinkSender struct {
	Links       []string
	SentTo      []User
	ReturnError bool
	lock        sync.Mutex
}

func NewFakePasswordResetLinkSender() *FakePasswordResetLinkSender {
	return &FakePasswordResetLinkSender{}
}

func (s *FakePasswordResetLinkSender) SendPasswordResetLink(ctx context.Context, u User, link string) error {
	if s.ReturnError {
		return fmt.Errorf("could not send password reset link")
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Links = append(s.Links, link)
	s.SentTo = append(s.SentTo, u)
	return nil
}

func (s *FakePasswordResetLinkSender) SentCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.Links)
}

type FakeBlacklist struct {
	Tokens      map[PasswordResetToken]struct{}
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeBlacklist() *FakeBlacklist {
	return &FakeBlacklist{Tokens: make(map[PasswordResetToken]struct{})}
}

func (b *FakeBlacklist) Invalidate(ctx context.Context, token PasswordResetToken) error {
	if b.ReturnError {
		return fmt.Errorf("could not invalidate token")
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	b.Tokens[token] = struct{}{}
	return nil
}

func (b *FakeBlacklist) IsBlacklisted(ctx context.Context, token PasswordResetToken) (bool, error) {
	if b.ReturnError {
		return false, fmt.Errorf("could not check token")
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	_, ok := b.Tokens[token]
	return ok, nil
}

type FakeNotificationPublisher struct {
	Published   map[ID][]Notification
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeNotificationPublisher() *FakeNotificationPublisher {
	return &FakeNotificationPublisher{Published: make(map[ID][]Notification)}
}

func (p *FakeNotificationPublisher) PublishNotification(ctx context.Context, userID ID, n Notification) error {
	if p.ReturnError {
		return fmt.Errorf("could not publish notification")
	}
	p.lock.Lock()
	defer p.lock.Unlock()
	p.Published[userID] = append(p.Published[userID], n)
	return nil
}
