package postgres_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/flashdeck/flashdeck-api/internal/platform/postgres"
	"github.com/flashdeck/flashdeck-api/internal/store"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func pgError(code string) *pgconn.PgError {
	return &pgconn.PgError{Code: code, ConstraintName: "some_constraint"}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantIs  error
		wantNil bool
	}{
		{name: "nil passes through", err: nil, wantNil: true},
		{name: "no rows maps to not found", err: sql.ErrNoRows, wantIs: store.ErrNotFound},
		{name: "unique violation maps to duplicate", err: pgError("23505"), wantIs: store.ErrDuplicate},
		{name: "fk violation maps to invalid entity", err: pgError("23503"), wantIs: store.ErrInvalidEntity},
		{name: "check violation maps to invalid entity", err: pgError("23514"), wantIs: store.ErrInvalidEntity},
		{name: "not null violation maps to invalid entity", err: pgError("23502"), wantIs: store.ErrInvalidEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := postgres.MapError(tt.err)
			if tt.wantNil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.wantIs)
		})
	}

	t.Run("unknown errors pass through unchanged", func(t *testing.T) {
		cause := errors.New("connection reset")
		assert.Equal(t, cause, postgres.MapError(cause))
	})

	t.Run("wrapped pg errors are still detected", func(t *testing.T) {
		wrapped := fmt.Errorf("exec failed: %w", pgError("23505"))
		assert.ErrorIs(t, postgres.MapError(wrapped), store.ErrDuplicate)
	})
}

func TestViolationPredicates(t *testing.T) {
	assert.True(t, postgres.IsUniqueViolation(pgError("23505")))
	assert.False(t, postgres.IsUniqueViolation(pgError("23503")))

	assert.True(t, postgres.IsForeignKeyViolation(pgError("23503")))
	assert.False(t, postgres.IsForeignKeyViolation(errors.New("plain")))

	assert.True(t, postgres.IsNotFoundError(sql.ErrNoRows))
	assert.True(t, postgres.IsNotFoundError(store.ErrCardNotFound))
	assert.False(t, postgres.IsNotFoundError(errors.New("plain")))
}

// fakeResult implements sql.Result for CheckRowsAffected tests.
type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestCheckRowsAffected(t *testing.T) {
	assert.NoError(t, postgres.CheckRowsAffected(fakeResult{rows: 1}, "card"))

	err := postgres.CheckRowsAffected(fakeResult{rows: 0}, "card")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Contains(t, err.Error(), "card")

	err = postgres.CheckRowsAffected(fakeResult{err: errors.New("driver broke")}, "card")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, store.ErrNotFound))

	assert.Error(t, postgres.CheckRowsAffected(nil, "card"))
}
