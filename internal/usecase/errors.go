package usecase

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"meditrack-backend/internal/domain/entity"
)

// ErrValidation matches every *ValidationError through errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError lists the offending request fields and their messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// patchValidationError converts a patch decoding failure into a
// ValidationError, passing other errors through.
func patchValidationError(err error) error {
	var fieldErr *entity.FieldError
	if errors.As(err, &fieldErr) {
		return newValidationError(map[string]string{fieldErr.Field: fieldErr.Field + " is invalid"})
	}
	return err
}
