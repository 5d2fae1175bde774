package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"recetas-api/internal/common"
)

func TestTranslate(t *testing.T) {
	other := errors.New("connection reset")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"record not found", gorm.ErrRecordNotFound, common.ErrNotFound},
		{"wrapped record not found", fmt.Errorf("x: %w", gorm.ErrRecordNotFound), common.ErrNotFound},
		{"gorm duplicate", gorm.ErrDuplicatedKey, common.ErrDuplicate},
		{"gorm foreign key", gorm.ErrForeignKeyViolated, common.ErrReferential},
		{"pg unique", &pgconn.PgError{Code: "23505"}, common.ErrDuplicate},
		{"pg foreign key", &pgconn.PgError{Code: "23503"}, common.ErrReferential},
		{"pg check", &pgconn.PgError{Code: "23514"}, common.ErrValidation},
		{"pg other", &pgconn.PgError{Code: "40001"}, nil},
		{"unknown", other, other},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := translate(tc.in)
			switch {
			case tc.in == nil:
				assert.NoError(t, got)
			case tc.want == nil:
				assert.Same(t, tc.in, got)
			default:
				assert.ErrorIs(t, got, tc.want)
			}
		})
	}
}
