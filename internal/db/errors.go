package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// Constraint classifies a driver error as a constraint violation.
type Constraint int

const (
	ConstraintNone Constraint = iota
	ConstraintForeignKey
	ConstraintUnique
)

// ClassifyConstraint reports which integrity constraint err violates, if any,
// for both supported drivers.
func ClassifyConstraint(err error) Constraint {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			return ConstraintForeignKey
		case "23505":
			return ConstraintUnique
		}
		return ConstraintNone
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintForeignKey:
			return ConstraintForeignKey
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return ConstraintUnique
		}
	}
	return ConstraintNone
}
