package infra

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsSchemaMismatch(t *testing.T) {
	assert.True(t, IsSchemaMismatch(&pgconn.PgError{Code: "42703", Message: `column "day_cost" does not exist`}))
	assert.False(t, IsSchemaMismatch(&pgconn.PgError{Code: "23505", Message: "duplicate key"}))
	assert.True(t, IsSchemaMismatch(errors.New("no such column: day_cost")))
	assert.False(t, IsSchemaMismatch(errors.New("connection reset by peer")))
	assert.False(t, IsSchemaMismatch(nil))
}
