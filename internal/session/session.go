package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-storefront/internal/auth"
	"go-storefront/internal/cart"
	"go-storefront/internal/checkout"
	"go-storefront/internal/commerce"
	"go-storefront/internal/pkg/bus"
	"go-storefront/internal/storage"
)

// CookieName identifies the visitor across requests.
const CookieName = "sf_session"

const defaultIdleTTL = 30 * time.Minute

// Session bundles one visitor's stores. Each session gets its own commerce
// client because the client carries the visitor's bearer token.
type Session struct {
	ID       string
	Cart     *cart.Store
	Checkout *checkout.Flow
	Auth     *auth.Store

	lastSeen time.Time
}

// Manager hands out sessions keyed by the visitor cookie and evicts the
// ones that have gone idle.
type Manager struct {
	newClient func(signals *bus.Bus) commerce.Client
	storage   storage.Store
	logger    *zap.Logger
	idleTTL   time.Duration
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

type Deps struct {
	// NewClient builds a per-visitor commerce client wired to the given
	// signal bus.
	NewClient func(signals *bus.Bus) commerce.Client
	Storage   storage.Store
	Logger    *zap.Logger
	IdleTTL   time.Duration
}

func NewManager(deps Deps) *Manager {
	if deps.NewClient == nil {
		panic("session: commerce client factory is required")
	}
	if deps.Storage == nil {
		panic("session: storage is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.IdleTTL <= 0 {
		deps.IdleTTL = defaultIdleTTL
	}
	return &Manager{
		newClient: deps.NewClient,
		storage:   deps.Storage,
		logger:    deps.Logger,
		idleTTL:   deps.IdleTTL,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
}

// NewID mints a fresh session identifier.
func (m *Manager) NewID() string {
	return uuid.NewString()
}

// Get returns the session for id, creating and initializing it on first
// sight. Passing an id the manager has never seen is fine; the visitor just
// starts with whatever their persisted cart holds.
func (m *Manager) Get(ctx context.Context, id string) *Session {
	m.mu.Lock()
	m.pruneLocked()
	if s, ok := m.sessions[id]; ok {
		s.lastSeen = m.now()
		now := m.now()
		m.mu.Unlock()
		s.Auth.SignOutIfExpired(now)
		return s
	}
	m.mu.Unlock()

	s := m.build(id)
	s.Cart.Init(ctx)
	s.Auth.Init(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another request may have created the same session meanwhile.
	if existing, ok := m.sessions[id]; ok {
		existing.lastSeen = m.now()
		return existing
	}
	s.lastSeen = m.now()
	m.sessions[id] = s
	m.logger.Debug("session created", zap.String("sessionId", id))
	return s
}

// Drop forgets the session immediately, e.g. after an order completes the
// visitor's flow is reset on the next request.
func (m *Manager) Drop(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len reports live sessions. For observability.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) build(id string) *Session {
	signals := bus.New()
	client := m.newClient(signals)
	scoped := storage.Namespaced(m.storage, id)

	return &Session{
		ID:       id,
		Cart:     cart.NewStore(cart.Deps{Client: client, Storage: scoped, Logger: m.logger}),
		Checkout: checkout.NewFlow(checkout.Deps{Client: client, Logger: m.logger}),
		Auth:     auth.NewStore(auth.Deps{Client: client, Signals: signals, Logger: m.logger}),
	}
}

func (m *Manager) pruneLocked() {
	cutoff := m.now().Add(-m.idleTTL)
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}
