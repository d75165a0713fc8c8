package application

import (
	"context"
	"testing"
	"time"

	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

const (
	alice = "11111111-1111-1111-1111-111111111111"
	bob   = "22222222-2222-2222-2222-222222222222"
)

type fixture struct {
	store        *memStore
	categories   *CategoryService
	transactions *TransactionService
	dashboard    *DashboardService
}

func newFixture(now time.Time) *fixture {
	log, _ := test.NewNullLogger()
	store := newMemStore(alice, bob)
	clock := func() time.Time { return now }
	return &fixture{
		store:        store,
		categories:   NewCategoryService(memCategories{store}, memTransactions{store}, store, log),
		transactions: NewTransactionService(memTransactions{store}, memCategories{store}, memUsers{store}, store, log),
		dashboard:    NewDashboardService(memTransactions{store}, clock, log),
	}
}

func (f *fixture) category(t *testing.T, userID, name string) int64 {
	t.Helper()
	c, err := f.categories.CreateCategory(context.Background(), userID, name)
	require.NoError(t, err)
	return c.ID
}

func (f *fixture) transaction(t *testing.T, userID string, categoryID int64, amount string, typ domain.TransactionType, date domain.Date) TransactionDTO {
	t.Helper()
	created, err := f.transactions.CreateTransaction(context.Background(), userID, input(categoryID, amount, typ, date))
	require.NoError(t, err)
	return *created
}

func input(categoryID int64, amount string, typ domain.TransactionType, date domain.Date) domain.TransactionInput {
	return domain.TransactionInput{
		Amount:     decimal.RequireFromString(amount),
		Date:       date,
		Type:       typ,
		CategoryID: categoryID,
	}
}
