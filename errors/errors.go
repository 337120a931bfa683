package errors

import (
	stderrors "errors"
	"fmt"
)

// Error is the engine's error type.
type Error struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Operation names the operation or source that raised the error, if any.
	Operation string `json:"operation,omitempty"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	prefix := string(e.Code)
	if e.Operation != "" {
		prefix = fmt.Sprintf("%s [%s]", e.Code, e.Operation)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same code.
// It lets callers write errors.Is(err, &errors.Error{Code: errors.ErrCodeOutOfBounds}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *Error) WithDetails(details map[string]any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error.
func New(code ErrorCode, operation, message string) *Error {
	return &Error{Code: code, Operation: operation, Message: message}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsCode reports whether err's chain holds an *Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	e, ok := As(err)
	return ok && e.Code == code
}

// IsConfiguration reports whether err is a configuration error, including out-of-bounds.
func IsConfiguration(err error) bool {
	e, ok := As(err)
	return ok && IsConfigurationCode(e.Code)
}

// --- Common Error Constructors ---

// Configuration creates an error for an operation bound with invalid parameters.
func Configuration(operation, reason string) *Error {
	return &Error{Code: ErrCodeConfiguration, Operation: operation, Message: reason}
}

// OutOfBounds creates an error for a parameter outside its accepted range.
func OutOfBounds(operation, param string, value any) *Error {
	return &Error{
		Code: ErrCodeOutOfBounds, Operation: operation,
		Message: fmt.Sprintf("%s is out of bounds (got: %v)", param, value),
		Details: map[string]any{"param": param, "value": value},
	}
}

// InvalidSource creates an error for an input the source adapter does not recognize.
func InvalidSource(shape string) *Error {
	return &Error{
		Code: ErrCodeInvalidSource, Operation: "source",
		Message: fmt.Sprintf("cannot build a sequence from %s", shape),
		Details: map[string]any{"shape": shape},
	}
}

// SourceConsumed creates an error for iterating a one-shot source twice.
func SourceConsumed(source string) *Error {
	return &Error{
		Code: ErrCodeSourceConsumed, Operation: source,
		Message: "one-shot source was already iterated; wrap it in a cache to replay it",
	}
}

// CacheMisuse creates an error for concurrent advancement of a cache.
func CacheMisuse(cacheID string) *Error {
	return &Error{
		Code: ErrCodeCacheMisuse, Operation: "cache",
		Message: "another consumer is advancing the upstream cursor",
		Details: map[string]any{"cache_id": cacheID},
	}
}

// UnhashableKey creates an error for a key that cannot be used in a map.
func UnhashableKey(operation string, key any) *Error {
	return &Error{
		Code: ErrCodeUnhashableKey, Operation: operation,
		Message: fmt.Sprintf("key of type %T cannot be used as a map key", key),
	}
}

// LengthMismatch creates an error for sequences whose lengths had to agree.
func LengthMismatch(operation string, want, got int) *Error {
	return &Error{
		Code: ErrCodeLengthMismatch, Operation: operation,
		Message: fmt.Sprintf("expected %d elements, got %d", want, got),
		Details: map[string]any{"want": want, "got": got},
	}
}

// InvalidDefinition creates an error for a malformed pipeline definition.
func InvalidDefinition(name, reason string) *Error {
	return &Error{
		Code: ErrCodeInvalidDefinition, Operation: "definition",
		Message: reason,
		Details: map[string]any{"definition": name},
	}
}

// NotFound creates an error for an unknown definition or operation.
func NotFound(kind, name string) *Error {
	return &Error{
		Code: ErrCodeNotFound, Operation: kind,
		Message: fmt.Sprintf("%s %q was not found", kind, name),
		Details: map[string]any{"name": name},
	}
}
