package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/paynova/console/internal/authapi"
)

// Session pairs the authenticated user with its bearer token. Remember mirrors
// the login form's "remember me" choice; persistence does not act on it beyond
// storing it alongside the user.
type Session struct {
	User     authapi.User
	Token    string
	Remember bool
}

// persistedUser is the JSON shape written under userKey.
type persistedUser struct {
	User     authapi.User `json:"user"`
	Remember bool         `json:"remember,omitempty"`
}

// Store holds the single current session and keeps it durable across restarts.
// Commit and Clear are the only writers; everything else reads.
type Store struct {
	storage Storage

	mu      sync.RWMutex
	loaded  bool
	current *Session
}

// NewStore builds a Store over the given durable storage.
func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Load restores a previously persisted session. Missing or malformed entries
// leave the store unauthenticated; storage read errors are the only failures
// surfaced, so callers can distinguish "no session" from "storage down".
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loaded = true
	s.current = nil

	token, err := s.storage.Get(ctx, tokenKey)
	if err != nil {
		if err == ErrNotFound {
			return nil
		}
		return fmt.Errorf("read token: %w", err)
	}

	rawUser, err := s.storage.Get(ctx, userKey)
	if err != nil {
		if err == ErrNotFound {
			return nil
		}
		return fmt.Errorf("read user: %w", err)
	}

	var stored persistedUser
	if err := json.Unmarshal([]byte(rawUser), &stored); err != nil {
		// Corrupt user record: treat as logged out.
		return nil
	}

	if token == "" || stored.User.ID == "" {
		return nil
	}

	s.current = &Session{User: stored.User, Token: token, Remember: stored.Remember}
	return nil
}

// Commit sets the current session and writes both durable entries. The
// in-memory state only flips once both writes succeed, so a failed commit
// never leaves a half-authenticated store.
func (s *Store) Commit(ctx context.Context, user authapi.User, token string, remember bool) error {
	if token == "" || user.ID == "" {
		return fmt.Errorf("session: commit requires both user and token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(persistedUser{User: user, Remember: remember})
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.storage.Set(ctx, tokenKey, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	if err := s.storage.Set(ctx, userKey, string(raw)); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}

	s.loaded = true
	s.current = &Session{User: user, Token: token, Remember: remember}
	return nil
}

// Clear drops the current session and deletes the durable entries.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	if err := s.storage.Delete(ctx, tokenKey); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	if err := s.storage.Delete(ctx, userKey); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// Loaded reports whether Load has completed. Route guards must not render
// protected content before this is true.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// IsAuthenticated is true iff both user and token are present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && s.current.Token != "" && s.current.User.ID != ""
}

// Current returns a copy of the active session, if any.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}
