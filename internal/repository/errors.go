package repository

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation is matched by every error caused by invalid repository data.
	ErrValidation = errors.New("validation error")

	// ErrRepository reports an unexpected condition on a repository entry.
	ErrRepository = errors.New("repository error")

	// ErrMalformed reports a repos document that does not have the nested form.
	ErrMalformed = errors.New("malformed repos document")
)

// MissingFieldError reports the first required field missing from a repository entry.
type MissingFieldError struct {
	Field string
	Repo  string
	Group string
}

func (e *MissingFieldError) Error() string {
	msg := "missing required field: " + e.Field
	if e.Repo != "" {
		msg += fmt.Sprintf(" in repository '%s'", e.Repo)
		if e.Group != "" && e.Group != DefaultGroup {
			msg += fmt.Sprintf(" in group '%s'", e.Group)
		}
	}
	return msg
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrValidation
}

// InvalidServerTypeError reports a server type outside the supported set.
type InvalidServerTypeError struct {
	Value     string
	Supported []ServerType
}

func (e *InvalidServerTypeError) Error() string {
	names := make([]string, len(e.Supported))
	for i, s := range e.Supported {
		names[i] = string(s)
	}
	return fmt.Sprintf("invalid server type: %s. Supported types: %s", e.Value, strings.Join(names, ", "))
}

func (e *InvalidServerTypeError) Is(target error) bool {
	return target == ErrValidation
}
