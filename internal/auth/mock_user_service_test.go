package auth

import (
	"context"
	"errors"

	"github.com/sebuszqo/ExpenseTracker/internal/user"
)

type MockUserService struct {
	users      map[string]user.User
	shouldFail bool
}

func NewMockUserService(users ...user.User) *MockUserService {
	m := &MockUserService{users: make(map[string]user.User)}
	for _, u := range users {
		m.users[u.Email] = u
	}
	return m
}

func (m *MockUserService) Register(_ context.Context, name, email, password string) (*user.User, error) {
	return nil, errors.New("not used")
}

func (m *MockUserService) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	if m.shouldFail {
		return nil, errors.New("db down")
	}
	u, ok := m.users[user.NormalizeEmail(email)]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

func (m *MockUserService) ListUsers(_ context.Context) ([]user.User, error) {
	users := make([]user.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	return users, nil
}
