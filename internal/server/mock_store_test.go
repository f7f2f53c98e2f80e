package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/sitevision/internal/db"
	"github.com/jonathan/sitevision/internal/types"
)

// mockStore is an in-memory Store implementation for handler tests.
type mockStore struct {
	mu      sync.Mutex
	users   map[uuid.UUID]db.User
	reports map[uuid.UUID]db.ReportRecord

	// failWith, when set, makes every call return this error.
	failWith error
}

var _ Store = (*mockStore)(nil)

func newMockStore() *mockStore {
	return &mockStore{
		users:   make(map[uuid.UUID]db.User),
		reports: make(map[uuid.UUID]db.ReportRecord),
	}
}

func (m *mockStore) CreateUser(_ context.Context, name, email, passwordHash, role string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return uuid.Nil, m.failWith
	}
	for _, u := range m.users {
		if u.Email == email {
			return uuid.Nil, fmt.Errorf("duplicate email: %s", email)
		}
	}
	now := time.Now().UTC()
	user := db.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.users[user.ID] = user
	return user.ID, nil
}

func (m *mockStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, u := range m.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, nil
}

func (m *mockStore) GetUserByID(_ context.Context, id uuid.UUID) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	user := u
	return &user, nil
}

func (m *mockStore) CheckEmailExists(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return false, m.failWith
	}
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStore) UpdateUserPassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	u, ok := m.users[id]
	if !ok {
		return db.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now().UTC()
	m.users[id] = u
	return nil
}

func (m *mockStore) SetUserRole(_ context.Context, id uuid.UUID, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	u, ok := m.users[id]
	if !ok {
		return db.ErrNotFound
	}
	u.Role = role
	u.UpdatedAt = time.Now().UTC()
	m.users[id] = u
	return nil
}

func (m *mockStore) CountUsers(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	return len(m.users), nil
}

func (m *mockStore) ListUsers(_ context.Context) ([]db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	users := make([]db.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (m *mockStore) SaveReport(_ context.Context, userID uuid.UUID, report *types.Report) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return uuid.Nil, m.failWith
	}
	data, err := json.Marshal(report)
	if err != nil {
		return uuid.Nil, err
	}
	record := db.ReportRecord{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     report.Title,
		Address:   report.Address,
		Inspector: report.Inspector,
		Data:      data,
		SavedAt:   time.Now().UTC(),
	}
	m.reports[record.ID] = record
	return record.ID, nil
}

func (m *mockStore) GetReport(_ context.Context, id uuid.UUID) (*db.ReportRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	r, ok := m.reports[id]
	if !ok {
		return nil, nil
	}
	record := r
	return &record, nil
}

func (m *mockStore) ListReports(_ context.Context, userID uuid.UUID, includeAll bool) ([]db.ReportSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	summaries := make([]db.ReportSummary, 0)
	for _, r := range m.reports {
		if !includeAll && r.UserID != userID {
			continue
		}
		summaries = append(summaries, db.ReportSummary{
			ID:        r.ID,
			UserID:    r.UserID,
			Title:     r.Title,
			Address:   r.Address,
			Inspector: r.Inspector,
			SavedAt:   r.SavedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].SavedAt.After(summaries[j].SavedAt)
	})
	return summaries, nil
}

func (m *mockStore) DeleteReport(_ context.Context, id, userID uuid.UUID, includeAll bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	r, ok := m.reports[id]
	if !ok {
		return db.ErrNotFound
	}
	if !includeAll && r.UserID != userID {
		return db.ErrNotFound
	}
	delete(m.reports, id)
	return nil
}

func (m *mockStore) Close() error {
	return nil
}
