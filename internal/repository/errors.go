package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"grading_service/internal/errdefs"
)

// Querier is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock pools.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var ErrNoFieldsToUpdate = fmt.Errorf("no fields to update: %w", errdefs.ErrValidation)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func handleError(err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return errdefs.ErrNotFound
	case isUniqueViolation(err):
		return errdefs.ErrAlreadyExists
	case isForeignKeyViolation(err):
		return fmt.Errorf("referenced record does not exist: %w", errdefs.ErrValidation)
	default:
		return fmt.Errorf("repository error: %w", err)
	}
}
