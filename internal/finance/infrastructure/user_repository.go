package infrastructure

import (
	"context"
	"database/sql"
	"fmt"

	database "github.com/sebuszqo/ExpenseTracker/db"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) ExistsByID(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := database.ExecutorFromContext(ctx, r.db).
		QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)", userID).
		Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("could not check user: %w", err)
	}
	return exists, nil
}
