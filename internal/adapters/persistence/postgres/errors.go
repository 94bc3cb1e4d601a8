package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/brchinacargo-glitch/BRCcSis/internal/domain"
)

// PostgreSQL error codes the adapter distinguishes.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeLockNotAvailable    = "55P03"
)

// mapError turns driver failures into domain errors. A missing row becomes
// NotFound for the given entity, everything else a StorageError.
func mapError(op, entity string, id any, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewNotFoundError(entity, fmt.Sprint(id))
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeForeignKeyViolation:
			return domain.NewStorageError(op, fmt.Errorf("referenced row missing (%s): %w", pgErr.ConstraintName, err))
		case codeUniqueViolation:
			return domain.NewStorageError(op, fmt.Errorf("duplicate key (%s): %w", pgErr.ConstraintName, err))
		case codeLockNotAvailable:
			return domain.NewStorageError(op, fmt.Errorf("row lock not available: %w", err))
		}
	}

	return domain.NewStorageError(op, err)
}

// storageError wraps failures where a missing row is not expected.
func storageError(op string, err error) error {
	if err == nil {
		return nil
	}

	return domain.NewStorageError(op, err)
}
