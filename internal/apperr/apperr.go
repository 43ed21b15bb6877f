package apperr

import (
	"errors"
	"fmt"
)

// ErrTrendsUnavailable is returned by the trend service when a refresh
// failed and no previously cached snapshot exists. Handlers map it to an
// empty-but-successful trends payload: trends are supplementary and must
// never fail a request outright.
var ErrTrendsUnavailable = errors.New("trend data unavailable")

// ValidationError reports a bad or missing request field. The offending
// field is surfaced to the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidation creates a ValidationError for the given field.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError reports an unknown catalog identifier (niche, hook style
// or length profile). Kind names the catalog, ID the rejected identifier.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unknown %s: %q", e.Kind, e.ID)
}

// NewNotFound creates a NotFoundError for the given catalog kind and id.
func NewNotFound(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}
