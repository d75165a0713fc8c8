package application

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
)

// memStore backs the category, transaction and user repositories with maps.
// Its WithinTransaction restores the previous contents when fn fails.
type memStore struct {
	mu           sync.Mutex
	users        map[string]bool
	categories   map[int64]domain.Category
	transactions map[int64]domain.Transaction
	nextID       int64
	failWith     error

	// page reads made inside and outside WithinSnapshot
	snapshotReads  int
	unguardedReads int
}

type snapshotKey struct{}

func newMemStore(userIDs ...string) *memStore {
	s := &memStore{
		users:        make(map[string]bool),
		categories:   make(map[int64]domain.Category),
		transactions: make(map[int64]domain.Transaction),
	}
	for _, id := range userIDs {
		s.users[id] = true
	}
	return s
}

func (s *memStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	categories := make(map[int64]domain.Category, len(s.categories))
	for k, v := range s.categories {
		categories[k] = v
	}
	transactions := make(map[int64]domain.Transaction, len(s.transactions))
	for k, v := range s.transactions {
		transactions[k] = v
	}
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.categories = categories
		s.transactions = transactions
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memStore) WithinSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(context.WithValue(ctx, snapshotKey{}, true))
}

// recordRead must be called with mu held.
func (s *memStore) recordRead(ctx context.Context) {
	if inSnapshot, _ := ctx.Value(snapshotKey{}).(bool); inSnapshot {
		s.snapshotReads++
		return
	}
	s.unguardedReads++
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

// users

type memUsers struct{ *memStore }

func (u memUsers) ExistsByID(_ context.Context, userID string) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.users[userID], nil
}

// categories

type memCategories struct{ *memStore }

func (c memCategories) Create(_ context.Context, category *domain.Category) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.categories {
		if existing.UserID == category.UserID && existing.Name == category.Name {
			return financeErrors.ErrDuplicateCategory
		}
	}
	category.ID = c.id()
	c.categories[category.ID] = *category
	return nil
}

func (c memCategories) FindByID(_ context.Context, categoryID int64) (*domain.Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	category, ok := c.categories[categoryID]
	if !ok {
		return nil, financeErrors.ErrCategoryNotFound
	}
	return &category, nil
}

func (c memCategories) ExistsByUserAndName(_ context.Context, userID, name string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return false, c.failWith
	}
	for _, existing := range c.categories {
		if existing.UserID == userID && existing.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (c memCategories) FindByUser(_ context.Context, userID string) ([]domain.Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var result []domain.Category
	for _, existing := range c.categories {
		if existing.UserID == userID {
			result = append(result, existing)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (c memCategories) Delete(_ context.Context, categoryID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.transactions {
		if t.CategoryID == categoryID {
			return financeErrors.ErrCategoryInUse
		}
	}
	delete(c.categories, categoryID)
	return nil
}

// transactions

type memTransactions struct{ *memStore }

func (r memTransactions) Create(_ context.Context, transaction *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.categories[transaction.CategoryID]; !ok {
		return financeErrors.ErrCategoryNotFound
	}
	transaction.ID = r.id()
	r.transactions[transaction.ID] = *transaction
	return nil
}

func (r memTransactions) Update(_ context.Context, transaction *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.transactions[transaction.ID]; !ok {
		return financeErrors.ErrTransactionNotFound
	}
	r.transactions[transaction.ID] = *transaction
	return nil
}

func (r memTransactions) Delete(_ context.Context, transactionID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.transactions[transactionID]; !ok {
		return financeErrors.ErrTransactionNotFound
	}
	delete(r.transactions, transactionID)
	return nil
}

func (r memTransactions) FindByIDForUpdate(_ context.Context, transactionID int64) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transactions[transactionID]
	if !ok {
		return nil, financeErrors.ErrTransactionNotFound
	}
	return &t, nil
}

func (r memTransactions) filter(userID string, dateRange *domain.DateRange) []domain.Transaction {
	var result []domain.Transaction
	for _, t := range r.transactions {
		if t.UserID != userID {
			continue
		}
		if dateRange != nil && !dateRange.Contains(t.Date) {
			continue
		}
		t.CategoryName = r.categories[t.CategoryID].Name
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date.Time) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].ID > result[j].ID
	})
	return result
}

func (r memTransactions) FindByUser(ctx context.Context, userID string, dateRange *domain.DateRange, page domain.PageRequest) ([]domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recordRead(ctx)
	all := r.filter(userID, dateRange)
	start := page.Offset()
	if start >= len(all) {
		return nil, nil
	}
	end := start + page.Size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (r memTransactions) CountByUser(ctx context.Context, userID string, dateRange *domain.DateRange) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recordRead(ctx)
	return int64(len(r.filter(userID, dateRange))), nil
}

func (r memTransactions) CountByCategory(_ context.Context, categoryID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, t := range r.transactions {
		if t.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r memTransactions) SumByType(_ context.Context, userID string, transactionType domain.TransactionType) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return decimal.Zero, r.failWith
	}
	sum := decimal.Zero
	for _, t := range r.transactions {
		if t.UserID == userID && t.Type == transactionType {
			sum = sum.Add(t.Amount)
		}
	}
	return sum, nil
}

func (r memTransactions) SumExpensesByCategory(_ context.Context, userID string, dateRange domain.DateRange) ([]domain.CategoryExpense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	totals := make(map[int64]decimal.Decimal)
	for _, t := range r.transactions {
		if t.UserID != userID || t.Type != domain.TransactionTypeExpense || !dateRange.Contains(t.Date) {
			continue
		}
		totals[t.CategoryID] = totals[t.CategoryID].Add(t.Amount)
	}
	// map order on purpose: the service owns the ordering
	result := make([]domain.CategoryExpense, 0, len(totals))
	for id, total := range totals {
		result = append(result, domain.CategoryExpense{CategoryID: id, CategoryName: r.categories[id].Name, Total: total})
	}
	return result, nil
}

var errStoreDown = errors.New("store down")
