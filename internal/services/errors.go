package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Dias221467/Habit_Tracker/internal/repository"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidID          = errors.New("invalid id")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// NonFieldErrors is the key cross-field rule violations are reported under.
const NonFieldErrors = "non_field_errors"

// ValidationError collects user-facing messages keyed by field name.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

// Add records msg for field.
func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

// Empty reports whether no message was recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// Messages returns all messages ordered by field name.
func (e *ValidationError) Messages() []string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []string
	for _, k := range keys {
		out = append(out, e.Fields[k]...)
	}
	return out
}

// Has reports whether msg was recorded for any field.
func (e *ValidationError) Has(msg string) bool {
	for _, msgs := range e.Fields {
		for _, m := range msgs {
			if m == msg {
				return true
			}
		}
	}
	return false
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Messages(), "; "))
}

// errOrNil returns e as an error only when it holds messages, so callers
// never get a typed nil inside a non-nil error.
func (e *ValidationError) errOrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

// notFound converts the repository sentinel into the service one.
func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
