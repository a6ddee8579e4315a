package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/DawnFalls/getSuitedV1/internal/models"
	"github.com/DawnFalls/getSuitedV1/pkg/logger"
)

// Manager is the single authority for "who is signed in". It wraps a Store,
// caches the current identity, and notifies subscribers after every write so
// all UI surfaces observe the same session without re-reading storage.
//
// Reads never fail: a missing, malformed or unreadable user entry degrades
// to the signed-out state. Identity and credential are cleared together.
type Manager struct {
	store Store

	mu     sync.RWMutex
	user   *models.User
	token  string
	loaded bool
	subs   []func(*models.User)
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Load reads the persisted session into the cache. Safe to call repeatedly;
// storage is only consulted on first use. Returns the current identity and
// credential, or (nil, "", false) when signed out.
func (m *Manager) Load(ctx context.Context) (*models.User, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		m.user, m.token = m.read(ctx)
		m.loaded = true
	}
	return m.user, m.token, m.user != nil
}

// read fetches and sanitizes both entries. Any inconsistency (store error,
// malformed record, token without user) yields signed-out.
func (m *Manager) read(ctx context.Context) (*models.User, string) {
	raw, ok, err := m.store.Get(ctx, KeyUser)
	if err != nil {
		logger.Warnf("session: user entry unreadable, treating as signed out: %v", err)
		return nil, ""
	}
	if !ok {
		return nil, ""
	}
	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.ID == "" {
		logger.Warnf("session: malformed user entry, treating as signed out")
		return nil, ""
	}
	tok, ok, err := m.store.Get(ctx, KeyToken)
	if err != nil || !ok || tok == "" {
		logger.Warnf("session: credential missing for stored user, treating as signed out")
		return nil, ""
	}
	return &u, tok
}

// Current returns the cached identity without touching storage. Callers that
// have not gone through Load observe signed-out.
func (m *Manager) Current() (*models.User, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user, m.token, m.user != nil
}

// SignIn persists a fresh identity and credential pair together.
func (m *Manager) SignIn(ctx context.Context, u *models.User, token string) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	m.mu.Lock()
	if err := m.store.Set(ctx, KeyToken, token); err != nil {
		m.mu.Unlock()
		return err
	}
	if err := m.store.Set(ctx, KeyUser, string(b)); err != nil {
		m.mu.Unlock()
		return err
	}
	m.user, m.token, m.loaded = u, token, true
	subs := m.snapshotSubs()
	m.mu.Unlock()

	notify(subs, u)
	return nil
}

// Save replaces the persisted identity with the server-confirmed record,
// leaving the credential untouched. The persistence write completes before
// subscribers run, so a re-render triggered by the notification always reads
// the new record.
func (m *Manager) Save(ctx context.Context, u *models.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	m.mu.Lock()
	if err := m.store.Set(ctx, KeyUser, string(b)); err != nil {
		m.mu.Unlock()
		return err
	}
	m.user, m.loaded = u, true
	subs := m.snapshotSubs()
	m.mu.Unlock()

	notify(subs, u)
	return nil
}

// Clear removes both entries. Used by sign-out.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	err := m.store.Delete(ctx, KeyUser, KeyToken)
	m.user, m.token, m.loaded = nil, "", true
	subs := m.snapshotSubs()
	m.mu.Unlock()

	notify(subs, nil)
	return err
}

// Subscribe registers fn to run after every session write with the new
// identity (nil on sign-out). Callbacks run synchronously on the writing
// operation, outside the manager's lock; keep them short.
func (m *Manager) Subscribe(fn func(*models.User)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

func (m *Manager) snapshotSubs() []func(*models.User) {
	out := make([]func(*models.User), len(m.subs))
	copy(out, m.subs)
	return out
}

func notify(subs []func(*models.User), u *models.User) {
	for _, fn := range subs {
		fn(u)
	}
}
