package utils

import (
	"sync"

	"tableside/entity"
)

// TokenStore holds the customer access token for the lifetime of the
// session. Explicitly constructed and injected — no package-level state.
type TokenStore struct {
	mu    sync.Mutex
	token string
}

func NewTokenStore() *TokenStore { return &TokenStore{} }

func (t *TokenStore) SetToken(token string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = token
}

func (t *TokenStore) Token() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.token
}

// Authed reports whether a usable customer token is present.
func (t *TokenStore) Authed() bool {
	return TokenUsable(t.Token())
}

// Customer returns the signed-in customer view, nil for guests.
func (t *TokenStore) Customer() *entity.Customer {
	return CustomerFromToken(t.Token())
}
