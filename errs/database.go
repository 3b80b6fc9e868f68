package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrAlreadyExists  = errors.New("already exists")
	ErrNotFound       = errors.New("not found")
	ErrStorage        = errors.New("storage failure")
	ErrStorageTimeout = errors.New("storage timeout")
)

// Postgres SQLSTATE codes we branch on.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func NewAlreadyExists(entity string) *ApiErr {
	return newApiErr(http.StatusConflict, entity+" already exists", ErrAlreadyExists, ErrConflict)
}

func NewNotFound(entity string) *ApiErr {
	return newApiErr(http.StatusNotFound, entity+" not found", ErrNotFound)
}

// NewDatabaseError wraps a failed storage call. Unique violations become
// conflicts; everything else is a 500 whose cause stays server side.
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	if IsUniqueViolation(cause) {
		e := NewAlreadyExists(entity)
		e.Details = details
		e.Cause = cause
		return e
	}

	kind := ErrStorage
	if errors.Is(cause, context.DeadlineExceeded) {
		kind = ErrStorageTimeout
	}

	e := newApiErr(http.StatusInternalServerError, "internal server error", kind, ErrInternal)
	e.Details = details
	e.Cause = cause
	return e
}

// IsUniqueViolation detects duplicate key errors from either gorm's error
// translation or a raw pgx error.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// IsForeignKeyViolation detects a reference to a missing row.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage) || errors.Is(err, ErrStorageTimeout)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}
