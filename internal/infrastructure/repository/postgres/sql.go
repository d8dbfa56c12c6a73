package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/lib/pq"

	"github.com/hoopstack/hoops-tracker/internal/domain/datasync"
	"github.com/hoopstack/hoops-tracker/internal/usecase"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"

	pqInvalidAuthorization = "28000"
	pqInvalidPassword      = "28P01"
	pqInvalidCatalogName   = "3D000"

	pqClassConnection           = "08"
	pqClassOperatorIntervention = "57"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func notFound(entity string, key any) error {
	return fmt.Errorf("%w: %s %v", usecase.ErrNotFound, entity, key)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

// mapWriteError converts driver failures into the pipeline error
// taxonomy: a constraint violation quarantines the row, a lost
// connection makes the batch retryable, and bad credentials or a
// missing database abort the whole job. Statement-level errors the
// server rejected pass through untouched.
func mapWriteError(entity datasync.EntityType, key string, err error) error {
	op := fmt.Sprintf("upsert %s key=%s", entity, key)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation, pqForeignKeyViolation, pqCheckViolation:
			return &datasync.ConstraintError{
				EntityType: entity,
				Key:        key,
				Constraint: pqErr.Constraint,
				Err:        err,
			}
		case pqInvalidAuthorization, pqInvalidPassword, pqInvalidCatalogName:
			return &datasync.FatalError{Op: op, Err: err}
		}
		switch pqErr.Code.Class() {
		case pqClassConnection, pqClassOperatorIntervention:
			return &datasync.TransientError{Op: op, Err: err}
		}
		return err
	}

	if isConnectionLoss(err) {
		return &datasync.TransientError{Op: op, Err: err}
	}
	return err
}

// isConnectionLoss reports failures that mean the session died rather
// than the statement being rejected.
func isConnectionLoss(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, sql.ErrTxDone) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// upsertReturning captures the outcome row of an ON CONFLICT upsert.
// A missing row means the guard clause suppressed a no-op update.
type upsertReturning struct {
	ID       int64 `db:"id"`
	Inserted bool  `db:"inserted"`
}

func nullInt64ToIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	out := int(v.Int64)
	return &out
}

func intPtrToNullInt64(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullInt64ToInt64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	out := v.Int64
	return &out
}

func int64PtrToNullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
