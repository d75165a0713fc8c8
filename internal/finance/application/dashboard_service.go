package application

import (
	"context"
	"sort"
	"time"

	"github.com/sebuszqo/ExpenseTracker/internal/finance/charts"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	"github.com/sirupsen/logrus"
)

type DashboardService struct {
	repo   domain.TransactionRepository
	now    func() time.Time
	logger *logrus.Entry
}

// NewDashboardService uses now to decide which month is current. A nil now
// means the wall clock.
func NewDashboardService(repo domain.TransactionRepository, now func() time.Time, logger *logrus.Logger) *DashboardService {
	if now == nil {
		now = time.Now
	}
	return &DashboardService{
		repo:   repo,
		now:    now,
		logger: logger.WithField("component", "dashboard"),
	}
}

// GetBalance sums every transaction the user ever recorded.
func (s *DashboardService) GetBalance(ctx context.Context, userID string) (*BalanceDTO, error) {
	income, err := s.repo.SumByType(ctx, userID, domain.TransactionTypeIncome)
	if err != nil {
		return nil, err
	}
	expense, err := s.repo.SumByType(ctx, userID, domain.TransactionTypeExpense)
	if err != nil {
		return nil, err
	}

	return &BalanceDTO{
		TotalIncome:    income,
		TotalExpense:   expense,
		CurrentBalance: income.Sub(expense),
	}, nil
}

// GetExpensesByCategory covers the current calendar month.
func (s *DashboardService) GetExpensesByCategory(ctx context.Context, userID string) ([]CategoryExpenseDTO, error) {
	return s.GetExpensesByCategoryForMonth(ctx, userID, s.now())
}

// GetExpensesByCategoryForMonth covers the calendar month containing month.
// Entries are ordered by total, largest first.
func (s *DashboardService) GetExpensesByCategoryForMonth(ctx context.Context, userID string, month time.Time) ([]CategoryExpenseDTO, error) {
	expenses, err := s.repo.SumExpensesByCategory(ctx, userID, domain.MonthOf(month))
	if err != nil {
		return nil, err
	}

	sort.SliceStable(expenses, func(i, j int) bool {
		if c := expenses[i].Total.Cmp(expenses[j].Total); c != 0 {
			return c > 0
		}
		return expenses[i].CategoryName < expenses[j].CategoryName
	})

	dtos := make([]CategoryExpenseDTO, 0, len(expenses))
	for _, e := range expenses {
		dtos = append(dtos, CategoryExpenseDTO{CategoryName: e.CategoryName, TotalAmount: e.Total})
	}
	return dtos, nil
}

// RenderExpensesChart returns the month's expenses by category as a PNG pie
// chart, or ErrNoChartData when there were none.
func (s *DashboardService) RenderExpensesChart(ctx context.Context, userID string, month time.Time) ([]byte, error) {
	expenses, err := s.GetExpensesByCategoryForMonth(ctx, userID, month)
	if err != nil {
		return nil, err
	}
	return RenderExpensesPie(month, expenses)
}

// CurrentMonth is the month the dashboard treats as current.
func (s *DashboardService) CurrentMonth() time.Time {
	return s.now()
}

func RenderExpensesPie(month time.Time, expenses []CategoryExpenseDTO) ([]byte, error) {
	slices := make([]charts.Slice, 0, len(expenses))
	for _, e := range expenses {
		slices = append(slices, charts.Slice{Label: e.CategoryName, Value: e.TotalAmount})
	}
	return charts.RenderPie("Expenses "+month.Format("January 2006"), slices)
}
