package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	database "github.com/sebuszqo/ExpenseTracker/db"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
)

const (
	categoryNameUniqueConstraint = "categories_user_id_name_key"
	transactionCategoryFKey      = "transactions_category_id_fkey"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (name, user_id)
		VALUES ($1, $2)
		RETURNING id, created_at`
	err := database.ExecutorFromContext(ctx, r.db).
		QueryRowContext(ctx, query, category.Name, category.UserID).
		Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, categoryNameUniqueConstraint) {
			return financeErrors.ErrDuplicateCategory
		}
		return fmt.Errorf("could not create category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, categoryID int64) (*domain.Category, error) {
	query := "SELECT id, name, user_id, created_at FROM categories WHERE id = $1"

	var category domain.Category
	err := database.ExecutorFromContext(ctx, r.db).
		QueryRowContext(ctx, query, categoryID).
		Scan(&category.ID, &category.Name, &category.UserID, &category.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("could not find category: %w", err)
	}
	return &category, nil
}

func (r *CategoryRepository) ExistsByUserAndName(ctx context.Context, userID, name string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM categories WHERE user_id = $1 AND name = $2)"
	err := database.ExecutorFromContext(ctx, r.db).QueryRowContext(ctx, query, userID, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("could not check category: %w", err)
	}
	return exists, nil
}

func (r *CategoryRepository) FindByUser(ctx context.Context, userID string) ([]domain.Category, error) {
	query := "SELECT id, name, user_id, created_at FROM categories WHERE user_id = $1 ORDER BY name, id"
	rows, err := database.ExecutorFromContext(ctx, r.db).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("could not list categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.UserID, &category.CreatedAt); err != nil {
			return nil, fmt.Errorf("could not scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not iterate categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, categoryID int64) error {
	result, err := database.ExecutorFromContext(ctx, r.db).ExecContext(ctx, "DELETE FROM categories WHERE id = $1", categoryID)
	if err != nil {
		if database.IsForeignKeyViolation(err, transactionCategoryFKey) {
			return financeErrors.ErrCategoryInUse
		}
		return fmt.Errorf("could not delete category: %w", err)
	}
	return expectOneRow(result, financeErrors.ErrCategoryNotFound)
}

func expectOneRow(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not read affected rows: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
