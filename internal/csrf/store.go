// Package csrf implements double-submit cookie protection: the server hands
// out a random token plus a cookie key, and mutating requests must echo the
// token in a header alongside the cookie. Cross-origin pages cannot read the
// cookie, so they cannot forge the pair.
package csrf

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"
)

const tokenLength = 32

// Pair is a freshly issued token and the cookie key it is bound to.
type Pair struct {
	Token     string
	CookieKey string
}

type entry struct {
	token     string
	expiresAt time.Time
}

// Store owns the live token entries. Safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
}

// NewStore builds a store whose entries live for ttl after issuance.
func NewStore(ttl time.Duration) *Store {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

// Generate issues a new token/cookie-key pair and stores it. Expired entries
// are swept opportunistically on every call.
func (s *Store) Generate() (Pair, error) {
	buf := make([]byte, tokenLength)
	if _, err := rand.Read(buf); err != nil {
		return Pair{}, err
	}
	pair := Pair{
		Token:     hex.EncodeToString(buf),
		CookieKey: uuid.NewString(),
	}

	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, e := range s.entries {
		if e.expiresAt.Before(now) {
			delete(s.entries, key)
		}
	}
	s.entries[pair.CookieKey] = entry{token: pair.Token, expiresAt: now.Add(s.ttl)}

	return pair, nil
}

// Validate reports whether the token matches the live entry for cookieKey.
// Expired entries are evicted as a side effect. Fails closed on any missing
// or mismatched input.
func (s *Store) Validate(cookieKey, token string) bool {
	if cookieKey == "" || token == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[cookieKey]
	if !ok {
		return false
	}
	if e.expiresAt.Before(time.Now()) {
		delete(s.entries, cookieKey)
		return false
	}
	return e.token == token
}

// Invalidate removes the entry for cookieKey. Idempotent.
func (s *Store) Invalidate(cookieKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, cookieKey)
}

// Len returns the number of live entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Run sweeps expired entries at the given interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(time.Now())
		}
	}
}

func (s *Store) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, e := range s.entries {
		if e.expiresAt.Before(now) {
			delete(s.entries, key)
		}
	}
}
