package stubstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DawnFalls/getSuitedV1/internal/models"
)

// MemoryRepo is the default in-process repository for local development and
// unit tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	users map[string]*models.User        // by id
	evals map[string][]models.Evaluation // by email
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users: make(map[string]*models.User),
		evals: make(map[string][]models.Evaluation),
	}
}

func (m *MemoryRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryRepo) Upsert(_ context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			existing.Name = u.Name
			existing.UpdatedAt = now
			cp := *existing
			return &cp, nil
		}
	}
	cp := *u
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	cp.CreatedAt = now
	cp.UpdatedAt = now
	m.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *MemoryRepo) SetName(_ context.Context, id, name string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u.Name = name
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	return &cp, nil
}

func (m *MemoryRepo) SetPicture(_ context.Context, id, url string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u.ProfilePicture = &url
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	return &cp, nil
}

func (m *MemoryRepo) Evaluations(_ context.Context, email string) ([]models.Evaluation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Evaluation, len(m.evals[email]))
	copy(out, m.evals[email])
	return out, nil
}

func (m *MemoryRepo) AddEvaluation(_ context.Context, email string, e models.Evaluation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evals[email] = append(m.evals[email], e)
	return nil
}
