package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestConstraintClassification(t *testing.T) {
	dup := fmt.Errorf("insert user: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "users_donor_id_fkey"}

	assert.True(t, IsDuplicateConstraintError(dup, "users_email_key"))
	assert.False(t, IsDuplicateConstraintError(dup, "users_donor_id_key"))
	assert.True(t, IsUniqueViolation(dup))
	assert.False(t, IsUniqueViolation(fk))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsForeignKeyViolation(errors.New("boom")))
}

func TestDataErrorClassification(t *testing.T) {
	check := fmt.Errorf("upsert: %w", &pgconn.PgError{Code: "23514", ConstraintName: "donors_sexo_check"})
	notNull := &pgconn.PgError{Code: "23502", ColumnName: "nome_completo"}
	tooLong := fmt.Errorf("upsert: %w", &pgconn.PgError{Code: "22001"})

	name, ok := CheckViolation(check)
	assert.True(t, ok)
	assert.Equal(t, "donors_sexo_check", name)
	_, ok = CheckViolation(notNull)
	assert.False(t, ok)

	column, ok := NotNullViolation(notNull)
	assert.True(t, ok)
	assert.Equal(t, "nome_completo", column)
	_, ok = NotNullViolation(errors.New("boom"))
	assert.False(t, ok)

	assert.True(t, IsStringTooLong(tooLong))
	assert.False(t, IsStringTooLong(check))
}
