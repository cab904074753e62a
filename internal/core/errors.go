package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrDuplicateCategory rejects a budget batch containing the same
	// category twice (case-insensitive, trimmed comparison).
	ErrDuplicateCategory = errors.New("duplicate budget category")
)

// ValidationErrors maps a field name to a human-readable problem. Every
// field is checked independently so a caller can surface all problems at
// once; an empty map never escapes a validator.
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e[f]))
	}
	return strings.Join(parts, "; ")
}

// Messages returns the problems as a sorted list, one entry per field.
func (e ValidationErrors) Messages() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, e[f])
	}
	return msgs
}

// AsValidationErrors unwraps err into ValidationErrors if it is one.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
