package db

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrConflict     = errors.New("record conflicts with an existing one")
	ErrInvalid      = errors.New("record violates a constraint")
	ErrInUse        = errors.New("record is still referenced")
	ErrUnknownField = errors.New("field cannot be updated")
)

// translate maps driver errors onto the package sentinels so callers never
// need to know which dialect is underneath.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errors.WithStack(ErrNotFound)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505", "23503":
			return errors.Wrap(ErrConflict, pqErr.Message)
		case "23514", "23502":
			return errors.Wrap(ErrInvalid, pqErr.Message)
		}
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.Code == sqlite3.ErrConstraint {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintForeignKey:
			return errors.Wrap(ErrConflict, liteErr.Error())
		case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
			return errors.Wrap(ErrInvalid, liteErr.Error())
		}
	}

	return errors.WithStack(err)
}
