package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert failed: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	assert.True(t, IsUniqueViolation(err, ""))
	assert.True(t, IsUniqueViolation(err, "users_email_key"))
	assert.False(t, IsUniqueViolation(err, "categories_user_id_name_key"))
	assert.False(t, IsForeignKeyViolation(err, ""))
}

func TestIsForeignKeyViolation(t *testing.T) {
	err := &pgconn.PgError{Code: "23503", ConstraintName: "transactions_category_id_fkey"}

	assert.True(t, IsForeignKeyViolation(err, "transactions_category_id_fkey"))
	assert.False(t, IsUniqueViolation(err, ""))
	assert.False(t, IsForeignKeyViolation(errors.New("plain error"), ""))
	assert.False(t, IsForeignKeyViolation(nil, ""))
}

func TestExecutorFromContext_WithoutTransactionReturnsDB(t *testing.T) {
	db := &sql.DB{}
	assert.Same(t, db, ExecutorFromContext(context.Background(), db))
}
