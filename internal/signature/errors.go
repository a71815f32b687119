package signature

import "fmt"

// ValidationError reports a declaration that a catalog author could write
// but the analyzer cannot accept. The message embeds the offending
// declaration's debug string so the author can locate it.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// InternalError reports a broken invariant that no well-behaved producer
// reaches: a constructor or decoder bug rather than a catalog mistake.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return "internal: " + e.Message
}

func NewInternalError(message string) *InternalError {
	return &InternalError{Message: message}
}

func internalErrorf(format string, args ...any) *InternalError {
	return &InternalError{Message: fmt.Sprintf(format, args...)}
}
