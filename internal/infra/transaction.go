package infra

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"wayfare/pkg/utils"
)

// WithTransaction runs fn inside one transaction on a single pooled
// connection. Any error or panic rolls the whole transaction back; the
// connection goes back to the pool on every path. Failures come back as
// *utils.TransactionError.
func WithTransaction(ctx context.Context, db *gorm.DB, op string, fn func(tx *gorm.DB) error) (err error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return newTransactionError(op, tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			err = newTransactionError(op, fmt.Errorf("panic: %v", r))
		}
	}()

	if fnErr := fn(tx); fnErr != nil {
		ReleaseTransaction(tx, fnErr)
		var txErr *utils.TransactionError
		if errors.As(fnErr, &txErr) {
			return txErr
		}
		if errors.Is(fnErr, utils.ErrValidation) || errors.Is(fnErr, utils.ErrTripNotFound) {
			return fnErr
		}
		return newTransactionError(op, fnErr)
	}

	if commitErr := ReleaseTransaction(tx, nil); commitErr != nil {
		return newTransactionError(op, commitErr)
	}
	return nil
}

// ReleaseTransaction commits when err is nil, rolls back otherwise.
func ReleaseTransaction(tx *gorm.DB, err error) error {
	if err != nil {
		if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
			return rollbackErr
		}
		return nil
	}
	return tx.Commit().Error
}

func newTransactionError(op string, cause error) *utils.TransactionError {
	return &utils.TransactionError{
		Op:             op,
		Cause:          cause,
		SchemaMismatch: IsSchemaMismatch(cause),
	}
}

// Postgres SQLSTATEs that mean the code and the schema disagree.
var schemaStates = map[string]bool{
	"42703": true, // undefined_column
	"42P01": true, // undefined_table
	"42804": true, // datatype_mismatch
	"42P10": true, // invalid_column_reference (ON CONFLICT without a matching unique index)
	"22P02": true, // invalid_text_representation
}

var schemaMessages = []string{
	"no such table",
	"no such column",
	"has no column named",
	"on conflict clause does not match",
}

func IsSchemaMismatch(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return schemaStates[pgErr.Code]
	}
	msg := strings.ToLower(err.Error())
	for _, m := range schemaMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
