package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_SingleField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("query", "too long")

	if got := err.Error(); got != "validation: query: too long" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatal("errors.Is(err, ErrValidation) = false")
	}
}

func TestValidationError_MultipleFields(t *testing.T) {
	t.Parallel()

	err := NewValidationErrors([]FieldError{
		{Field: "sort", Message: "unknown sort mode"},
		{Field: "page", Message: "must be >= 1"},
	})

	if got := err.Error(); got != "validation: 2 errors (sort, page)" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatal("errors.Is(err, ErrValidation) = false")
	}
}

func TestValidationError_Collector(t *testing.T) {
	t.Parallel()

	var v ValidationError
	if err := v.Err(); err != nil {
		t.Fatalf("empty collector should yield nil, got %v", err)
	}

	v.Add("price_min", "must not be negative")
	v.Add("price_max", "must not be negative")

	err := v.Err()
	if err == nil {
		t.Fatal("expected an error")
	}

	wrapped := fmt.Errorf("search input: %w", err)
	var ve *ValidationError
	if !errors.As(wrapped, &ve) {
		t.Fatal("errors.As should find the ValidationError")
	}
	if got := ve.Fields(); len(got) != 2 || got[0] != "price_min" || got[1] != "price_max" {
		t.Fatalf("Fields() = %v", got)
	}
	if !errors.Is(wrapped, ErrValidation) {
		t.Fatal("wrapped error should match ErrValidation")
	}
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{
		ErrNotFound, ErrAlreadyExists, ErrValidation, ErrSearchFailed,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel errors %d and %d should not match", i, j)
			}
		}
	}
}
