// Package session persists the authentication token and username across
// runs and is the single authority for auth-dependent navigation state.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// NavState says which navigation elements the shell should show. It is
// derived here and nowhere else.
type NavState struct {
	ShowLogin    bool
	ShowRegister bool
	ShowLogout   bool
	ShowOrders   bool
}

type persisted struct {
	Token    string `json:"token,omitempty"`
	Username string `json:"username,omitempty"`
}

// Store holds the current session and mirrors it to a JSON file. All
// mutation goes through SetAuth; everything else only reads.
type Store struct {
	mu       sync.Mutex
	path     string
	token    string
	username string
	logger   *zap.Logger
}

// NewStore loads any persisted session from path. A missing or unreadable
// file just means an anonymous session.
func NewStore(path string, logger *zap.Logger) *Store {
	s := &Store{path: path, logger: logger}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		logger.Warn("Ignoring corrupt session file", zap.String("path", path), zap.Error(err))
		return s
	}
	s.token = p.Token
	s.username = p.Username
	return s
}

// SetAuth stores the session. With a non-empty token the pair is persisted;
// with an empty token the persisted values are cleared. The username is the
// one the user submitted at login; the login response carries no identity
// beyond the token.
func (s *Store) SetAuth(token, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.username = username

	if token == "" {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to clear session file: %w", err)
		}
		s.logger.Info("Session cleared")
		return nil
	}

	data, err := json.Marshal(persisted{Token: token, Username: username})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	s.logger.Info("Session stored", zap.String("username", username))
	return nil
}

// Clear drops the session and its persisted copy.
func (s *Store) Clear() error {
	return s.SetAuth("", "")
}

func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

// AuthHeader returns the bearer header for the current session, or an
// empty map when anonymous. A stale token is only discovered when a call
// fails; there is no expiry or refresh logic here.
func (s *Store) AuthHeader() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return map[string]string{}
	}
	return map[string]string{"Authorization": "Bearer " + s.token}
}

// NavState derives nav visibility from the current session. Orders and
// logout are visible only when authenticated; login and register only when
// not.
func (s *Store) NavState() NavState {
	authed := s.Authenticated()
	return NavState{
		ShowLogin:    !authed,
		ShowRegister: !authed,
		ShowLogout:   authed,
		ShowOrders:   authed,
	}
}
