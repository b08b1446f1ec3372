package db

import (
	"context"
	"errors"
	"net"

	"github.com/cj-tomlin/skate-project/internal/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
	pgInvalidText         = "22P02"
	pgInvalidEnumValue    = "22023"
)

// Translate maps driver errors onto the application taxonomy. entity names
// the record involved and is used in user-facing messages.
func Translate(err error, entity string) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("%s not found", entity)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperr.Validation("%s already exists", entity)
		case pgForeignKeyViolation:
			return apperr.NotFound("referenced record for %s not found", entity)
		case pgCheckViolation, pgNotNullViolation, pgInvalidText, pgInvalidEnumValue:
			return apperr.Validation("invalid %s: %s", entity, pgErr.Message)
		}
		return err
	}

	var netErr net.Error
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) || errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return apperr.Unavailable(err, "database unavailable")
	}
	return err
}
