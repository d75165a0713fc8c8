package main

import (
	"context"
	"time"

	"github.com/sebuszqo/ExpenseTracker/internal/finance/application"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	"github.com/sebuszqo/ExpenseTracker/internal/user"
)

type stubHealth struct {
	stats map[string]string
}

func (s stubHealth) Health(context.Context) map[string]string {
	return s.stats
}

type stubUserService struct {
	user user.User
}

func (s stubUserService) Register(context.Context, string, string, string) (*user.User, error) {
	u := s.user
	return &u, nil
}

func (s stubUserService) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	if email != s.user.Email {
		return nil, user.ErrUserNotFound
	}
	u := s.user
	return &u, nil
}

func (s stubUserService) ListUsers(context.Context) ([]user.User, error) {
	return []user.User{s.user}, nil
}

type stubCategoryService struct {
	lastUserID string
}

func (s *stubCategoryService) CreateCategory(_ context.Context, _ string, name string) (*application.CategoryDTO, error) {
	return &application.CategoryDTO{ID: 1, Name: name}, nil
}

func (s *stubCategoryService) GetUserCategories(_ context.Context, userID string) ([]application.CategoryDTO, error) {
	s.lastUserID = userID
	return []application.CategoryDTO{{ID: 1, Name: "Food"}}, nil
}

func (s *stubCategoryService) DeleteCategory(context.Context, string, int64) error {
	return nil
}

type stubTransactionService struct{}

func (stubTransactionService) CreateTransaction(context.Context, string, domain.TransactionInput) (*application.TransactionDTO, error) {
	return &application.TransactionDTO{}, nil
}

func (stubTransactionService) UpdateTransaction(context.Context, string, int64, domain.TransactionInput) (*application.TransactionDTO, error) {
	return &application.TransactionDTO{}, nil
}

func (stubTransactionService) DeleteTransaction(context.Context, string, int64) error {
	return nil
}

func (stubTransactionService) GetUserTransactions(_ context.Context, _ string, page domain.PageRequest) (domain.Page[application.TransactionDTO], error) {
	return domain.NewPage[application.TransactionDTO](nil, page, 0), nil
}

func (stubTransactionService) GetUserTransactionsInRange(_ context.Context, _ string, _ domain.DateRange, page domain.PageRequest) (domain.Page[application.TransactionDTO], error) {
	return domain.NewPage[application.TransactionDTO](nil, page, 0), nil
}

type stubDashboardService struct{}

func (stubDashboardService) GetBalance(context.Context, string) (*application.BalanceDTO, error) {
	return &application.BalanceDTO{}, nil
}

func (stubDashboardService) GetExpensesByCategory(context.Context, string) ([]application.CategoryExpenseDTO, error) {
	return []application.CategoryExpenseDTO{}, nil
}

func (stubDashboardService) GetExpensesByCategoryForMonth(context.Context, string, time.Time) ([]application.CategoryExpenseDTO, error) {
	return []application.CategoryExpenseDTO{}, nil
}

func (stubDashboardService) RenderExpensesChart(context.Context, string, time.Time) ([]byte, error) {
	return []byte("png"), nil
}

func (stubDashboardService) CurrentMonth() time.Time {
	return time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
}
