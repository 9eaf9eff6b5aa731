package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound means the referenced post does not exist.
	ErrNotFound = errors.New("post not found")
	// ErrValidation means required input was missing or empty.
	ErrValidation = errors.New("validation failed")
	// ErrPersistence means the store could not load or save; the operation did not take effect
	// and may be retried.
	ErrPersistence = errors.New("persistence failed")
)

// ValidationError names the fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: required %s", ErrValidation, strings.Join(e.Fields, ", "))
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error { return ErrValidation }

type field struct {
	name  string
	value string
}

func required(fields ...field) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Fields: missing}
}

func notFound(id int64) error {
	return fmt.Errorf("post %d: %w", id, ErrNotFound)
}

func persistence(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
