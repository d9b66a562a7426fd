package auth

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
)

var ErrEmptyToken = errors.New("bearer token is empty")

// Session carries the bearer token used to authenticate against the employee API.
// It is created once at startup and passed explicitly to the API client.
type Session struct {
	mu    sync.RWMutex
	token string
}

// NewSession returns a session for the given token.
func NewSession(token string) (*Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrEmptyToken
	}

	return &Session{token: token}, nil
}

// LoadSession builds a session from an inline token, falling back to the
// contents of tokenFile when the inline token is empty.
func LoadSession(token, tokenFile string) (*Session, error) {
	if strings.TrimSpace(token) != "" {
		return NewSession(token)
	}

	if tokenFile == "" {
		return nil, ErrEmptyToken
	}

	raw, err := os.ReadFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file %s: %w", tokenFile, err)
	}

	session, err := NewSession(string(raw))
	if err != nil {
		return nil, fmt.Errorf("token file %s: %w", tokenFile, err)
	}

	return session, nil
}

// Token returns the current bearer token.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// Rotate replaces the bearer token for subsequent requests.
func (s *Session) Rotate(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token

	return nil
}

// Authorize sets the Authorization header on req.
func (s *Session) Authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+s.Token())
}

// ReloadFile replaces the bearer token with the contents of tokenFile.
func (s *Session) ReloadFile(tokenFile string) error {
	raw, err := os.ReadFile(tokenFile)
	if err != nil {
		return fmt.Errorf("failed to read token file %s: %w", tokenFile, err)
	}

	return s.Rotate(string(raw))
}
