package interfaces

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/sebuszqo/ExpenseTracker/internal/auth"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/application"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

const testUserID = "3f8b4c1e-2a57-4d7e-9b0c-6a1f2e3d4c5b"

type MockCategoryService struct {
	categories []application.CategoryDTO
	created    *application.CategoryDTO
	err        error

	gotName    string
	deletedID  int64
	lastUserID string
}

func (m *MockCategoryService) CreateCategory(_ context.Context, userID, name string) (*application.CategoryDTO, error) {
	m.lastUserID, m.gotName = userID, name
	if m.err != nil {
		return nil, m.err
	}
	return m.created, nil
}

func (m *MockCategoryService) GetUserCategories(_ context.Context, userID string) ([]application.CategoryDTO, error) {
	m.lastUserID = userID
	if m.err != nil {
		return nil, m.err
	}
	return m.categories, nil
}

func (m *MockCategoryService) DeleteCategory(_ context.Context, userID string, categoryID int64) error {
	m.lastUserID, m.deletedID = userID, categoryID
	return m.err
}

type MockTransactionService struct {
	transaction *application.TransactionDTO
	page        domain.Page[application.TransactionDTO]
	err         error

	gotInput     domain.TransactionInput
	gotID        int64
	gotPage      domain.PageRequest
	gotRange     *domain.DateRange
	rangeQueried bool
}

func (m *MockTransactionService) CreateTransaction(_ context.Context, _ string, input domain.TransactionInput) (*application.TransactionDTO, error) {
	m.gotInput = input
	if m.err != nil {
		return nil, m.err
	}
	return m.transaction, nil
}

func (m *MockTransactionService) UpdateTransaction(_ context.Context, _ string, transactionID int64, input domain.TransactionInput) (*application.TransactionDTO, error) {
	m.gotID, m.gotInput = transactionID, input
	if m.err != nil {
		return nil, m.err
	}
	return m.transaction, nil
}

func (m *MockTransactionService) DeleteTransaction(_ context.Context, _ string, transactionID int64) error {
	m.gotID = transactionID
	return m.err
}

func (m *MockTransactionService) GetUserTransactions(_ context.Context, _ string, page domain.PageRequest) (domain.Page[application.TransactionDTO], error) {
	m.gotPage = page
	return m.page, m.err
}

func (m *MockTransactionService) GetUserTransactionsInRange(_ context.Context, _ string, dateRange domain.DateRange, page domain.PageRequest) (domain.Page[application.TransactionDTO], error) {
	m.gotPage, m.gotRange, m.rangeQueried = page, &dateRange, true
	return m.page, m.err
}

type MockDashboardService struct {
	balance  *application.BalanceDTO
	expenses []application.CategoryExpenseDTO
	chart    []byte
	now      time.Time
	err      error

	gotMonth time.Time
}

func (m *MockDashboardService) GetBalance(context.Context, string) (*application.BalanceDTO, error) {
	return m.balance, m.err
}

func (m *MockDashboardService) GetExpensesByCategory(ctx context.Context, userID string) ([]application.CategoryExpenseDTO, error) {
	return m.GetExpensesByCategoryForMonth(ctx, userID, m.now)
}

func (m *MockDashboardService) GetExpensesByCategoryForMonth(_ context.Context, _ string, month time.Time) ([]application.CategoryExpenseDTO, error) {
	m.gotMonth = month
	return m.expenses, m.err
}

func (m *MockDashboardService) RenderExpensesChart(_ context.Context, _ string, month time.Time) ([]byte, error) {
	m.gotMonth = month
	return m.chart, m.err
}

func (m *MockDashboardService) CurrentMonth() time.Time {
	return m.now
}

func newTestLogger() (*logrus.Logger, *test.Hook) {
	return test.NewNullLogger()
}

// authenticated attaches the test user and optional mux route variables.
func authenticated(t *testing.T, r *http.Request, vars map[string]string) *http.Request {
	t.Helper()
	r = r.WithContext(auth.ContextWithUserID(r.Context(), testUserID))
	if vars != nil {
		r = mux.SetURLVars(r, vars)
	}
	return r
}
