package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a record identifier does not resolve.
var ErrNotFound = errors.New("record not found")

// Field error messages shared by the store and the request decoders.
const (
	MsgRequired = "This field is required."
	MsgBlank    = "This field may not be blank."
	MsgNull     = "This field may not be null."
	MsgString   = "Not a valid string."
	MsgList     = "Expected a list of items."
	MsgObject   = "Expected an object."
)

// MaxNameLength bounds recipe titles and ingredient names.
const MaxNameLength = 255

// ValidationError collects messages per field. Nested fields use
// "parent[index].child" keys.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError returns an empty ValidationError ready for Add.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

// Add records a message against a field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// Empty reports whether no field errors were recorded.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

// Err returns e as an error, or nil when it holds no messages.
func (e *ValidationError) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", key, strings.Join(e.Fields[key], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// CheckName validates a required short text field such as a title or name.
func CheckName(verr *ValidationError, field, value string) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		verr.Add(field, MsgBlank)
		return
	}
	if len([]rune(trimmed)) > MaxNameLength {
		verr.Add(field, fmt.Sprintf("Ensure this field has no more than %d characters.", MaxNameLength))
	}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
