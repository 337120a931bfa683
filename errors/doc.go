// Package errors provides the structured error type used across the
// collection engine. Every failure the engine itself raises carries a
// machine-readable ErrorCode; errors returned by user callbacks are never
// wrapped and reach the caller unchanged.
package errors
