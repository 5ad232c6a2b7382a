package main

import (
	"sync"

	"github.com/google/uuid"
)

// sessionStore maps opaque client tokens to the logged-in username. Login on a
// live token switches its user; logout removes the token.
type sessionStore struct {
	mu    sync.RWMutex
	slots map[string]string
}

func newSessionStore() *sessionStore {
	return &sessionStore{slots: make(map[string]string)}
}

// login points token at username. An empty, unknown or logged-out token gets
// a fresh one; the (possibly new) token is returned.
func (s *sessionStore) login(token, username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.slots[token]; !ok || token == "" {
		token = uuid.New().String()
	}
	s.slots[token] = username
	return token
}

// logout forgets token. Reports false if it was not live.
func (s *sessionStore) logout(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.slots[token]; !ok {
		return false
	}
	delete(s.slots, token)
	return true
}

// current returns the logged-in username for token, if any.
func (s *sessionStore) current(token string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	username, ok := s.slots[token]
	return username, ok
}
