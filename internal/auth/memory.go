package auth

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemStore is an in-memory Store. It backs package tests and runs of the
// API without a configured database.
type MemStore struct {
	mu     sync.Mutex
	users  map[int64]*User
	orgs   map[int64]*Organization
	nextID int64
}

func NewMemStore() *MemStore {
	return &MemStore{
		users: make(map[int64]*User),
		orgs:  make(map[int64]*Organization),
	}
}

func (m *MemStore) Users() UserStore                 { return (*memUserStore)(m) }
func (m *MemStore) Organizations() OrganizationStore { return (*memOrgStore)(m) }

type memUserStore MemStore

func (m *memUserStore) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return ErrAlreadyExists
		}
	}
	m.nextID++
	u.ID = m.nextID
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	clone := *u
	m.users[u.ID] = &clone
	return nil
}

func (m *memUserStore) FindByID(_ context.Context, id int64) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *memUserStore) FindActiveByID(ctx context.Context, id int64) (*User, error) {
	u, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Status != StatusActive {
		return nil, ErrNotFound
	}
	return u, nil
}

func (m *memUserStore) FindByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memUserStore) ListByOrganization(_ context.Context, orgID int64) ([]*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*User
	for _, u := range m.users {
		if u.OrganizationID != nil && *u.OrganizationID == orgID {
			clone := *u
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *memUserStore) UpdatePassword(_ context.Context, id int64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *memUserStore) UpdateRole(_ context.Context, id int64, role Role) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u.Role = role
	u.UpdatedAt = time.Now().UTC()
	clone := *u
	return &clone, nil
}

func (m *memUserStore) UpdateStatus(_ context.Context, id int64, status Status) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u.Status = status
	u.UpdatedAt = time.Now().UTC()
	clone := *u
	return &clone, nil
}

type memOrgStore MemStore

func (m *memOrgStore) Create(_ context.Context, org *Organization) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	org.ID = m.nextID
	org.CreatedAt = time.Now().UTC()
	org.UpdatedAt = org.CreatedAt
	clone := *org
	m.orgs[org.ID] = &clone
	return nil
}

func (m *memOrgStore) Find(_ context.Context, id int64) (*Organization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	org, ok := m.orgs[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *org
	return &clone, nil
}
