package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsPGUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	assert.True(t, IsPGUniqueViolation(unique))
	assert.True(t, IsPGUniqueViolation(fmt.Errorf("insert user: %w", unique)))

	assert.False(t, IsPGUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsPGUniqueViolation(errors.New("duplicate key")))
	assert.False(t, IsPGUniqueViolation(nil))
}

func TestIsPGForeignKeyViolation(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503"}
	assert.True(t, IsPGForeignKeyViolation(fk))
	assert.True(t, IsPGForeignKeyViolation(fmt.Errorf("insert task: %w", fk)))

	assert.False(t, IsPGForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsPGForeignKeyViolation(nil))
}
