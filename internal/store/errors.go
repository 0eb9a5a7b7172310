package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors repositories translate database failures into. Handlers map
// these onto HTTP statuses; nothing above the store layer inspects pg codes.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrBadLinkage = errors.New("referenced id does not exist")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Translate maps a driver error onto a store sentinel. Insert/update callers see
// fk violations as bad linkage (the referenced row is missing); delete callers
// should use TranslateDelete, where an fk violation means the row is still in use.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrBadLinkage, pgErr.ConstraintName)
		}
	}
	return err
}

// TranslateDelete maps a driver error for a DELETE, where a foreign key
// violation means the row is still referenced and the delete is blocked.
func TranslateDelete(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return fmt.Errorf("%w: still referenced via %s", ErrConflict, pgErr.ConstraintName)
	}
	return Translate(err)
}
