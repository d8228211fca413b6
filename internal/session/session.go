package session

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/adaora-dev/storefront-checkout/internal/nav"
	"github.com/adaora-dev/storefront-checkout/internal/storage"
)

// User mirrors the serialized user object the backend hands out at login.
type User struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	FirstOrder bool   `json:"first_order"`
}

// Session resolves the current identity from the in-memory token first,
// then persisted storage. A non-empty token means "authenticated" for
// routing purposes only; the backend's 401 is the real authority.
type Session struct {
	mu    sync.RWMutex
	store storage.Store
	token string
	user  *User
}

func New(store storage.Store) *Session {
	return &Session{store: store}
}

// Token returns the in-memory token if set, else the persisted one.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token != "" {
		return s.token
	}
	tok, _ := s.store.Get(storage.KeyToken)
	return tok
}

// Authenticated reports whether any token exists. It does not guarantee
// the token is valid.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Login stores the issued token and user object.
func (s *Session) Login(token string, user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = &user
	if err := s.store.Set(storage.KeyToken, token); err != nil {
		return err
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.store.Set(storage.KeyUser, string(raw))
}

// User returns the persisted user object, if any.
func (s *Session) User() (User, bool) {
	s.mu.RLock()
	if s.user != nil {
		u := *s.user
		s.mu.RUnlock()
		return u, true
	}
	s.mu.RUnlock()

	raw, ok := s.store.Get(storage.KeyUser)
	if !ok {
		return User{}, false
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return User{}, false
	}
	return u, true
}

// FirstOrder reports the first-order flag from the stored user object.
func (s *Session) FirstOrder() bool {
	u, ok := s.User()
	return ok && u.FirstOrder
}

// SetFirstOrder re-synchronizes local state after the flag has been
// cleared server-side.
func (s *Session) SetFirstOrder(v bool) error {
	u, ok := s.User()
	if !ok {
		return fmt.Errorf("no user in session")
	}
	u.FirstOrder = v
	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.store.Set(storage.KeyUser, string(raw))
}

// UserID extracts the id claim from the bearer token without verifying
// the signature. This is an untrusted local hint for display and request
// paths only, never an authorization decision. A malformed token yields
// "", same as unauthenticated.
func (s *Session) UserID() string {
	claims, err := decodeClaims(s.Token())
	if err != nil {
		return ""
	}
	switch id := claims["id"].(type) {
	case string:
		return id
	case float64:
		return fmt.Sprintf("%.0f", id)
	}
	return ""
}

// Expired reports whether the token carries an exp claim in the past.
// Tokens without a readable exp are not treated as expired; the backend
// decides.
func (s *Session) Expired() bool {
	claims, err := decodeClaims(s.Token())
	if err != nil {
		return false
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return false
	}
	return time.Now().After(time.Unix(int64(exp), 0))
}

// Logout clears the in-memory session and the persisted token and user.
func (s *Session) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	s.store.Delete(storage.KeyToken)
	s.store.Delete(storage.KeyUser)
}

// ForceLogout handles a downstream 401: clear everything and route to
// login, preserving the originating path.
func (s *Session) ForceLogout(n nav.Navigator, returnTo string) {
	s.Logout()
	n.GotoLogin(returnTo)
}

func decodeClaims(token string) (jwt.MapClaims, error) {
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}
