package user

import (
	"context"
	"errors"
	"sync"
)

type MockRepository struct {
	mu         sync.Mutex
	users      map[string]User
	shouldFail bool
	// raceEmail is reported as free by ExistsByEmail but rejected by Create.
	raceEmail string
}

func NewMockRepository() *MockRepository {
	return &MockRepository{users: make(map[string]User)}
}

func (m *MockRepository) Create(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFail {
		return errors.New("db down")
	}
	if user.Email == m.raceEmail {
		return ErrEmailAlreadyExists
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return ErrEmailAlreadyExists
		}
	}
	m.users[user.ID] = *user
	return nil
}

func (m *MockRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *MockRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFail {
		return false, errors.New("db down")
	}
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRepository) ListAll(_ context.Context) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	return users, nil
}
