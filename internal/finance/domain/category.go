package domain

import (
	"context"
	"strings"
	"time"

	"github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
)

const maxCategoryNameLength = 100

type Category struct {
	ID        int64
	Name      string
	UserID    string // user UUID
	CreatedAt time.Time
}

type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	FindByID(ctx context.Context, categoryID int64) (*Category, error)
	ExistsByUserAndName(ctx context.Context, userID, name string) (bool, error)
	FindByUser(ctx context.Context, userID string) ([]Category, error)
	Delete(ctx context.Context, categoryID int64) error
}

// NormalizeCategoryName trims the name and checks its length.
func NormalizeCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.NewFieldValidationError("name", "must not be empty")
	}
	if len(name) > maxCategoryNameLength {
		return "", errors.NewFieldValidationError("name", "must be at most 100 characters")
	}
	return name, nil
}
