// Copyright (c) 2026 TaskHive. All rights reserved.

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taskhive/taskhive/internal/platform/apperr"
)

// IsNoRows reports whether err is pgx's row-not-found sentinel.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505), e.g. a duplicate email slipping past the
// existence pre-check under concurrent sign-ups.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	if IsNoRows(err) {
		return apperr.NotFound(resource)
	}

	// Unknown query errors become Internal Server Errors.
	return apperr.Internal(err)
}
