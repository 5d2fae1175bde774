// Package store persists users, categories, recipes and contact messages.
// Constraint violations come back as common error kinds.
package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"recetas-api/internal/common"
)

// Postgres SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// translate maps driver and gorm errors onto common kinds. Anything it does
// not recognise is returned unchanged.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return common.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return common.ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return common.ErrReferential
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return common.ErrDuplicate
		case pgForeignKeyViolation:
			return common.ErrReferential
		case pgCheckViolation:
			return common.ErrValidation
		}
	}
	return err
}
