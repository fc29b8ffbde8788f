// Package apperror defines the error kinds shared by every domain service.
// Domain errors wrap one of the sentinels below so the HTTP layer can map them
// to a status code with errors.Is.
package apperror

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrAssetStore      = errors.New("asset store failure")
	ErrDataStore       = errors.New("data store failure")
)

// FieldErrors maps request fields to validation issues.
type FieldErrors map[string][]string

// Add appends a message for the given field.
func (f FieldErrors) Add(field, message string) {
	if f == nil {
		return
	}
	f[field] = append(f[field], message)
}

// ValidationError is returned when the input payload is invalid.
type ValidationError struct {
	Fields FieldErrors
}

func (v *ValidationError) Error() string {
	if len(v.Fields) == 0 {
		return "validation error"
	}
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(v.Fields[k], "; ")))
	}
	return "validation error: " + strings.Join(parts, ", ")
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (v *ValidationError) Unwrap() error {
	return ErrValidation
}

// Validation builds a ValidationError for a single field.
func Validation(field, message string) *ValidationError {
	fe := FieldErrors{}
	fe.Add(field, message)
	return &ValidationError{Fields: fe}
}

// FromFields returns nil when there are no field errors.
func FromFields(fields FieldErrors) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// DataStore wraps a persistence failure so it maps to a generic 500.
func DataStore(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrDataStore, op, err)
}

// AssetStore wraps an asset backend failure.
func AssetStore(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrAssetStore, op, err)
}
