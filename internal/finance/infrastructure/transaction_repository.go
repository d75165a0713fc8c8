package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	database "github.com/sebuszqo/ExpenseTracker/db"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
)

const selectTransactions = `
	SELECT t.id, t.user_id, t.category_id, c.name, t.amount, t.type, t.date, t.description, t.created_at
	FROM transactions t
	JOIN categories c ON c.id = t.category_id`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (domain.Transaction, error) {
	var (
		t           domain.Transaction
		description sql.NullString
	)
	err := row.Scan(&t.ID, &t.UserID, &t.CategoryID, &t.CategoryName, &t.Amount, &t.Type, &t.Date, &description, &t.CreatedAt)
	t.Description = description.String
	return t, err
}

func nullableDescription(description string) sql.NullString {
	return sql.NullString{String: description, Valid: description != ""}
}

func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, category_id, amount, type, date, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err := database.ExecutorFromContext(ctx, r.db).QueryRowContext(ctx, query,
		transaction.UserID, transaction.CategoryID, transaction.Amount, string(transaction.Type),
		transaction.Date, nullableDescription(transaction.Description),
	).Scan(&transaction.ID, &transaction.CreatedAt)
	if err != nil {
		if database.IsForeignKeyViolation(err, transactionCategoryFKey) {
			return financeErrors.ErrCategoryNotFound
		}
		return fmt.Errorf("could not create transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) Update(ctx context.Context, transaction *domain.Transaction) error {
	query := `
		UPDATE transactions
		SET category_id = $1, amount = $2, type = $3, date = $4, description = $5
		WHERE id = $6`
	result, err := database.ExecutorFromContext(ctx, r.db).ExecContext(ctx, query,
		transaction.CategoryID, transaction.Amount, string(transaction.Type),
		transaction.Date, nullableDescription(transaction.Description), transaction.ID,
	)
	if err != nil {
		if database.IsForeignKeyViolation(err, transactionCategoryFKey) {
			return financeErrors.ErrCategoryNotFound
		}
		return fmt.Errorf("could not update transaction: %w", err)
	}
	return expectOneRow(result, financeErrors.ErrTransactionNotFound)
}

func (r *TransactionRepository) Delete(ctx context.Context, transactionID int64) error {
	result, err := database.ExecutorFromContext(ctx, r.db).ExecContext(ctx, "DELETE FROM transactions WHERE id = $1", transactionID)
	if err != nil {
		return fmt.Errorf("could not delete transaction: %w", err)
	}
	return expectOneRow(result, financeErrors.ErrTransactionNotFound)
}

func (r *TransactionRepository) FindByIDForUpdate(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	query := selectTransactions + " WHERE t.id = $1 FOR UPDATE OF t"
	t, err := scanTransaction(database.ExecutorFromContext(ctx, r.db).QueryRowContext(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("could not find transaction: %w", err)
	}
	return &t, nil
}

func userFilter(userID string, dateRange *domain.DateRange) (string, []any) {
	where := " WHERE t.user_id = $1"
	args := []any{userID}
	if dateRange != nil {
		where += " AND t.date BETWEEN $2 AND $3"
		args = append(args, dateRange.Start, dateRange.End)
	}
	return where, args
}

func (r *TransactionRepository) FindByUser(ctx context.Context, userID string, dateRange *domain.DateRange, page domain.PageRequest) ([]domain.Transaction, error) {
	where, args := userFilter(userID, dateRange)
	query := fmt.Sprintf("%s%s ORDER BY t.date DESC, t.id DESC LIMIT $%d OFFSET $%d",
		selectTransactions, where, len(args)+1, len(args)+2)
	args = append(args, page.Size, page.Offset())

	rows, err := database.ExecutorFromContext(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not iterate transactions: %w", err)
	}
	return transactions, nil
}

func (r *TransactionRepository) CountByUser(ctx context.Context, userID string, dateRange *domain.DateRange) (int64, error) {
	where, args := userFilter(userID, dateRange)
	var count int64
	err := database.ExecutorFromContext(ctx, r.db).
		QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions t"+where, args...).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("could not count transactions: %w", err)
	}
	return count, nil
}

func (r *TransactionRepository) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := database.ExecutorFromContext(ctx, r.db).
		QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions WHERE category_id = $1", categoryID).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("could not count category transactions: %w", err)
	}
	return count, nil
}

func (r *TransactionRepository) SumByType(ctx context.Context, userID string, transactionType domain.TransactionType) (decimal.Decimal, error) {
	var sum decimal.Decimal
	query := "SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = $1 AND type = $2"
	err := database.ExecutorFromContext(ctx, r.db).
		QueryRowContext(ctx, query, userID, string(transactionType)).
		Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("could not sum transactions: %w", err)
	}
	return sum, nil
}

func (r *TransactionRepository) SumExpensesByCategory(ctx context.Context, userID string, dateRange domain.DateRange) ([]domain.CategoryExpense, error) {
	query := `
		SELECT c.id, c.name, SUM(t.amount) AS total
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1 AND t.type = $2 AND t.date BETWEEN $3 AND $4
		GROUP BY c.id, c.name
		ORDER BY total DESC, c.name`
	rows, err := database.ExecutorFromContext(ctx, r.db).QueryContext(ctx, query,
		userID, string(domain.TransactionTypeExpense), dateRange.Start, dateRange.End)
	if err != nil {
		return nil, fmt.Errorf("could not sum expenses by category: %w", err)
	}
	defer rows.Close()

	var expenses []domain.CategoryExpense
	for rows.Next() {
		var e domain.CategoryExpense
		if err := rows.Scan(&e.CategoryID, &e.CategoryName, &e.Total); err != nil {
			return nil, fmt.Errorf("could not scan category expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not iterate category expenses: %w", err)
	}
	return expenses, nil
}
