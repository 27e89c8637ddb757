package auth

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"go-storefront/internal/commerce"
	"go-storefront/internal/pkg/bus"
)

// Store holds one visitor's authentication state. It mirrors the remote
// session: the commerce API owns the truth, the store caches the signed-in
// user and reacts when the session expires upstream.
type Store struct {
	client commerce.Client
	logger *zap.Logger

	mu    sync.RWMutex
	user  *commerce.User
	token string
	ready bool
}

type Deps struct {
	Client  commerce.Client
	Signals *bus.Bus
	Logger  *zap.Logger
}

func NewStore(deps Deps) *Store {
	if deps.Client == nil {
		panic("auth: commerce client is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	s := &Store{
		client: deps.Client,
		logger: deps.Logger,
	}
	if deps.Signals != nil {
		deps.Signals.Subscribe(bus.TopicSessionExpired, s.onSessionExpired)
	}
	return s
}

// Result reports the outcome of a login or registration attempt. Errors is
// field-keyed when the upstream rejected individual fields.
type Result struct {
	Success bool              `json:"success"`
	User    *commerce.User    `json:"user,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Init restores the session from the commerce API. A cached token whose exp
// has already passed skips the round trip; a 401 simply means the visitor is
// a guest; any other failure is logged and the visitor is treated as signed
// out until the next attempt.
func (s *Store) Init(ctx context.Context) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token != "" && TokenExpired(token, time.Now()) {
		s.mu.Lock()
		s.user = nil
		s.token = ""
		s.ready = true
		s.mu.Unlock()
		return
	}

	session, err := s.client.GetSession(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = true

	if err != nil {
		var apiErr *commerce.APIError
		guest := errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
		if !guest {
			s.logger.Warn("session restore failed", zap.Error(err))
		}
		s.user = nil
		s.token = ""
		return
	}
	s.user = session.User
	s.token = session.Token
}

func (s *Store) Login(ctx context.Context, creds commerce.Credentials) Result {
	session, err := s.client.Login(ctx, creds)
	if err != nil {
		return failure(err, ErrInvalidCredentials.Message)
	}

	s.mu.Lock()
	s.user = session.User
	s.token = session.Token
	s.ready = true
	s.mu.Unlock()

	s.logger.Info("user signed in", zap.String("email", creds.Email))
	return Result{Success: true, User: session.User}
}

func (s *Store) Register(ctx context.Context, req commerce.RegisterRequest) Result {
	session, err := s.client.Register(ctx, req)
	if err != nil {
		return failure(err, ErrEmailTaken.Message)
	}

	s.mu.Lock()
	s.user = session.User
	s.token = session.Token
	s.ready = true
	s.mu.Unlock()

	s.logger.Info("user registered", zap.String("email", req.Email))
	return Result{Success: true, User: session.User}
}

// Logout signs out locally no matter what the remote call does; a dangling
// server session expires on its own.
func (s *Store) Logout(ctx context.Context) {
	if err := s.client.Logout(ctx); err != nil {
		s.logger.Warn("remote logout failed", zap.Error(err))
	}

	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()
}

func (s *Store) RequestPasswordReset(ctx context.Context, email string) Result {
	if err := s.client.RequestPasswordReset(ctx, email); err != nil {
		return failure(err, "password reset request failed")
	}
	return Result{Success: true}
}

// User returns the signed-in user, or nil for a guest.
func (s *Store) User() *commerce.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Ready reports whether the initial session restore has run.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// SignOutIfExpired drops the session locally when the cached token is
// plainly stale, without a remote call. Reports whether the visitor was
// signed out.
func (s *Store) SignOutIfExpired(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil || s.token == "" {
		return false
	}
	if !TokenExpired(s.token, now) {
		return false
	}
	s.user = nil
	s.token = ""
	s.logger.Info("cached session token expired, signing out")
	return true
}

func (s *Store) onSessionExpired() {
	s.mu.Lock()
	expired := s.user != nil
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	if expired {
		s.logger.Info("session expired, signing out")
	}
}

// TokenExpired inspects a JWT's exp claim without verifying the signature.
// The commerce API is the verifier; this only spares a round trip for a
// token that is plainly stale. Malformed tokens count as expired.
func TokenExpired(token string, now time.Time) bool {
	if token == "" {
		return true
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}

func failure(err error, fallback string) Result {
	var apiErr *commerce.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = fallback
		}
		return Result{Success: false, Error: msg, Errors: apiErr.Errors}
	}
	return Result{Success: false, Error: fallback}
}
