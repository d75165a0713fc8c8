package domain

import (
	"context"
	"time"

	"github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
)

const maxDescriptionLength = 255

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

type Transaction struct {
	ID           int64
	UserID       string // user UUID
	CategoryID   int64
	CategoryName string
	Amount       decimal.Decimal
	Type         TransactionType
	Date         Date
	Description  string
	CreatedAt    time.Time
}

// TransactionInput carries the client supplied fields of a create or update.
type TransactionInput struct {
	Amount      decimal.Decimal
	Description string
	Date        Date
	Type        TransactionType
	CategoryID  int64
}

func (in TransactionInput) Validate() error {
	var ve errors.ValidationErrors
	if !in.Amount.IsPositive() {
		ve.Add(errors.NewFieldValidationError("amount", "must be greater than zero"))
	} else if !in.Amount.Equal(in.Amount.Round(2)) {
		ve.Add(errors.NewFieldValidationError("amount", "must have at most 2 decimal places"))
	}
	if len(in.Description) > maxDescriptionLength {
		ve.Add(errors.NewFieldValidationError("description", "must be at most 255 characters"))
	}
	if in.Date.IsZero() {
		ve.Add(errors.NewFieldValidationError("date", "is required"))
	}
	if !in.Type.IsValid() {
		ve.Add(errors.NewFieldValidationError("type", "must be INCOME or EXPENSE"))
	}
	if in.CategoryID <= 0 {
		ve.Add(errors.NewFieldValidationError("categoryId", "is required"))
	}
	return ve.ErrOrNil()
}

// Apply overwrites the mutable fields of t with the input.
func (t *Transaction) Apply(in TransactionInput) {
	t.Amount = in.Amount
	t.Description = in.Description
	t.Date = in.Date
	t.Type = in.Type
	t.CategoryID = in.CategoryID
}

type TransactionRepository interface {
	Create(ctx context.Context, transaction *Transaction) error
	Update(ctx context.Context, transaction *Transaction) error
	Delete(ctx context.Context, transactionID int64) error
	// FindByIDForUpdate locks the row until the surrounding database transaction ends.
	FindByIDForUpdate(ctx context.Context, transactionID int64) (*Transaction, error)
	FindByUser(ctx context.Context, userID string, dateRange *DateRange, page PageRequest) ([]Transaction, error)
	CountByUser(ctx context.Context, userID string, dateRange *DateRange) (int64, error)
	CountByCategory(ctx context.Context, categoryID int64) (int64, error)
	SumByType(ctx context.Context, userID string, transactionType TransactionType) (decimal.Decimal, error)
	SumExpensesByCategory(ctx context.Context, userID string, dateRange DateRange) ([]CategoryExpense, error)
}

type UserRepository interface {
	ExistsByID(ctx context.Context, userID string) (bool, error)
}
