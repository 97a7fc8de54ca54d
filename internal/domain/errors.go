package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// FieldErrors maps a form field name to its validation message. Validation
// errors are local and recoverable; they are never sent to the network.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// IsFieldErrors checks if an error carries per-field validation messages.
func IsFieldErrors(err error) (FieldErrors, bool) {
	var fieldErrs FieldErrors
	ok := errors.As(err, &fieldErrs)
	return fieldErrs, ok
}
