package dbx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		unique bool
		check  bool
		fk     bool
	}{
		{name: "unique", err: &pgconn.PgError{Code: "23505"}, unique: true},
		{name: "wrapped unique", err: fmt.Errorf("db error: %w", &pgconn.PgError{Code: "23505"}), unique: true},
		{name: "check", err: &pgconn.PgError{Code: "23514"}, check: true},
		{name: "fk", err: &pgconn.PgError{Code: "23503"}, fk: true},
		{name: "plain", err: errors.New("boom")},
		{name: "nil", err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unique, IsUniqueViolation(tt.err))
			assert.Equal(t, tt.check, IsCheckViolation(tt.err))
			assert.Equal(t, tt.fk, IsForeignKeyViolation(tt.err))
		})
	}
}
