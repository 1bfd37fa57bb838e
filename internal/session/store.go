// Package session owns the authentication token and the identity derived from it.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/taskdesk/internal/model"
	"github.com/and161185/taskdesk/internal/repository"
)

// Store holds the current token and identity and persists the token in a
// KVRepository under repository.KeyToken.
//
// A non-nil identity always implies the token it was decoded from is both in
// memory and in durable storage.
type Store struct {
	mu       sync.RWMutex
	kv       repository.KVRepository
	log      *zap.Logger
	now      func() time.Time
	token    string
	identity *model.Identity
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// New constructs a Store. Call Restore once at startup.
func New(kv repository.KVRepository, log *zap.Logger, opts ...Option) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{kv: kv, log: log, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Login persists token and sets the identity. If hint is non-nil (the user
// object of the server response) it is taken as the identity, with expiry
// fields backfilled from the token. The token must still decode.
func (s *Store) Login(ctx context.Context, token string, hint *model.Identity) (model.Identity, error) {
	id, err := Decode(token, s.now())
	if err != nil {
		return model.Identity{}, err
	}
	if hint != nil {
		h := *hint
		if h.IssuedAt.IsZero() {
			h.IssuedAt = id.IssuedAt
		}
		if h.ExpiresAt.IsZero() {
			h.ExpiresAt = id.ExpiresAt
		}
		id = h
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Set(ctx, repository.KeyToken, token); err != nil {
		return model.Identity{}, fmt.Errorf("persist token: %w", err)
	}
	s.token = token
	s.identity = &id
	s.log.Debug("session started", zap.String("username", id.Username), zap.String("role", string(id.Role)))
	return id, nil
}

// Logout clears the identity and the durable token. It is idempotent.
// The in-memory session is cleared even when storage fails.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
	s.token = ""
	s.clearStored(ctx)
}

// clearStored removes the durable token. If the delete fails the key is
// overwritten with "", which Restore treats as no session.
func (s *Store) clearStored(ctx context.Context) {
	err := s.kv.Delete(ctx, repository.KeyToken)
	if err == nil {
		return
	}
	if serr := s.kv.Set(ctx, repository.KeyToken, ""); serr != nil {
		s.log.Warn("clear stored token", zap.Error(err), zap.NamedError("blank", serr))
		return
	}
	s.log.Warn("delete stored token, blanked instead", zap.Error(err))
}

// Restore loads the durable token and decodes it. A missing, unreadable,
// malformed or expired token leaves no session, and anything but a missing
// token is cleared from storage. It never returns an error.
func (s *Store) Restore(ctx context.Context) (model.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
	s.token = ""

	tok, ok, err := s.kv.Get(ctx, repository.KeyToken)
	if err != nil {
		s.log.Warn("read stored token", zap.Error(err))
		s.clearStored(ctx)
		return model.Identity{}, false
	}
	if !ok || tok == "" {
		return model.Identity{}, false
	}
	id, err := Decode(tok, s.now())
	if err != nil {
		s.log.Info("discarding stored token", zap.Error(err))
		s.clearStored(ctx)
		return model.Identity{}, false
	}
	s.token = tok
	s.identity = &id
	return id, true
}

// Identity returns the current identity, if any.
func (s *Store) Identity() (model.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return model.Identity{}, false
	}
	return *s.identity, true
}

// Token returns the current bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}
