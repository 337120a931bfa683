package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Configuration errors, raised when an operation is bound with invalid parameters.
const (
	// ErrCodeConfiguration indicates an invalid operation parameter.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	// ErrCodeOutOfBounds indicates a parameter outside its accepted range.
	ErrCodeOutOfBounds ErrorCode = "OUT_OF_BOUNDS"
)

// Source errors
const (
	// ErrCodeInvalidSource indicates an input shape the source adapter cannot handle.
	ErrCodeInvalidSource ErrorCode = "INVALID_SOURCE"
	// ErrCodeSourceConsumed indicates a second iteration of a one-shot source.
	ErrCodeSourceConsumed ErrorCode = "SOURCE_CONSUMED"
)

// Evaluation errors
const (
	// ErrCodeCacheMisuse indicates two consumers advancing one cache at the same time.
	ErrCodeCacheMisuse ErrorCode = "CACHE_MISUSE"
	// ErrCodeUnhashableKey indicates a key that cannot index a map.
	ErrCodeUnhashableKey ErrorCode = "UNHASHABLE_KEY"
	// ErrCodeLengthMismatch indicates two sequences that had to be the same length were not.
	ErrCodeLengthMismatch ErrorCode = "LENGTH_MISMATCH"
)

// Definition errors
const (
	// ErrCodeInvalidDefinition indicates a pipeline definition that cannot be parsed.
	ErrCodeInvalidDefinition ErrorCode = "INVALID_DEFINITION"
	// ErrCodeNotFound indicates an unknown definition or operation name.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

var configurationCodes = map[ErrorCode]bool{
	ErrCodeConfiguration: true,
	ErrCodeOutOfBounds:   true,
}

// IsConfigurationCode returns true if the code belongs to the configuration family.
func IsConfigurationCode(code ErrorCode) bool {
	return configurationCodes[code]
}
