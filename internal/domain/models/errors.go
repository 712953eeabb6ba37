package models

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound indicates the requested record does not exist in the tenant.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateSKU indicates an inventory item with the same SKU already exists.
	ErrDuplicateSKU = errors.New("duplicate sku")
	// ErrInsufficientStock indicates an adjustment would drive quantity below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrUnknownScreen indicates a navigation target outside the screen enumeration.
	ErrUnknownScreen = errors.New("unknown screen")
	// ErrNotLoggedIn indicates the session has no authenticated user.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrIndexOutOfRange indicates a scratch-row or milestone index does not exist.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// ValidationError reports which input fields were rejected and why.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
