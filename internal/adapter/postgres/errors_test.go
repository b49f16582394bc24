package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/gearcatalog-backend/internal/domain"
)

func TestMapError_Nil(t *testing.T) {
	t.Parallel()

	if got := MapError(nil, "catalog item", "sony-a1"); got != nil {
		t.Errorf("MapError(nil) = %v, want nil", got)
	}
}

func TestMapError_NoRows(t *testing.T) {
	t.Parallel()

	got := MapError(pgx.ErrNoRows, "catalog item", "sony-a1")

	if !errors.Is(got, domain.ErrNotFound) {
		t.Errorf("MapError(ErrNoRows) does not wrap domain.ErrNotFound: %v", got)
	}
	if want := "catalog item sony-a1: not found"; got.Error() != want {
		t.Errorf("MapError(ErrNoRows).Error() = %q, want %q", got.Error(), want)
	}
}

func TestMapError_WrappedNoRows(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("scan row: %w", pgx.ErrNoRows)
	if got := MapError(wrapped, "brand", "canon"); !errors.Is(got, domain.ErrNotFound) {
		t.Errorf("MapError(wrapped ErrNoRows) does not wrap domain.ErrNotFound: %v", got)
	}
}

func TestMapError_PgCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want error
	}{
		{codeUniqueViolation, domain.ErrAlreadyExists},
		{codeForeignKeyViolation, domain.ErrNotFound},
		{codeCheckViolation, domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			t.Parallel()

			got := MapError(&pgconn.PgError{Code: tt.code}, "catalog item", "x")
			if !errors.Is(got, tt.want) {
				t.Errorf("MapError(%s) = %v, want wrapping %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestMapError_ContextPassesThrough(t *testing.T) {
	t.Parallel()

	for _, ctxErr := range []error{context.Canceled, context.DeadlineExceeded} {
		got := MapError(ctxErr, "catalog search", "z6")
		if !errors.Is(got, ctxErr) {
			t.Errorf("MapError(%v) lost the context error: %v", ctxErr, got)
		}
		if errors.Is(got, domain.ErrNotFound) {
			t.Errorf("MapError(%v) must not map to ErrNotFound", ctxErr)
		}
	}
}

func TestMapError_UnknownKeepsCause(t *testing.T) {
	t.Parallel()

	cause := &pgconn.PgError{Code: "42P01", Message: "relation does not exist"}
	got := MapError(cause, "catalog search", "a7")

	var pgErr *pgconn.PgError
	if !errors.As(got, &pgErr) || pgErr.Code != "42P01" {
		t.Errorf("MapError lost the original PgError: %v", got)
	}
}
