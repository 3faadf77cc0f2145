// file: internal/server/validators.go
// version: 2.0.0
// guid: 9b0c1d2e-3f4a-5b6c-7d8e-9f0a1b2c3d4e

package server

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxQueryLength bounds the query text accepted over HTTP, in characters.
const MaxQueryLength = 1024

// ValidationError represents a validation error with code
type ValidationError struct {
	Field   string
	Message string
	Code    string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateInteger validates that an integer is within acceptable range.
// A negative bound is not checked.
func ValidateInteger(value int, fieldName string, minValue int, maxValue int) error {
	if minValue >= 0 && value < minValue {
		return ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be at least %d", fieldName, minValue),
			Code:    fmt.Sprintf("%s_TOO_SMALL", strings.ToUpper(fieldName)),
		}
	}
	if maxValue >= 0 && value > maxValue {
		return ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must not exceed %d", fieldName, maxValue),
			Code:    fmt.Sprintf("%s_TOO_LARGE", strings.ToUpper(fieldName)),
		}
	}
	return nil
}

// ParseLimit parses the optional result limit. Empty means no limit (0).
func ParseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ValidationError{
			Field:   "limit",
			Message: fmt.Sprintf("limit must be an integer, got %q", raw),
			Code:    "LIMIT_INVALID",
		}
	}
	if err := ValidateInteger(n, "limit", 0, -1); err != nil {
		return 0, err
	}
	return n, nil
}

// ValidateQuery rejects query text longer than MaxQueryLength characters.
// An empty query is valid; it yields the no-query outcome.
func ValidateQuery(query string) error {
	if n := utf8.RuneCountInString(query); n > MaxQueryLength {
		return ValidationError{
			Field:   "q",
			Message: fmt.Sprintf("query must not exceed %d characters, got %d", MaxQueryLength, n),
			Code:    "QUERY_TOO_LONG",
		}
	}
	return nil
}
