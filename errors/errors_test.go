package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_New_Success(t *testing.T) {
	err := New(ErrCodeConfiguration, "chunk", "size must be positive")
	if err.Code != ErrCodeConfiguration {
		t.Errorf("expected code %s, got %s", ErrCodeConfiguration, err.Code)
	}
	if err.Operation != "chunk" {
		t.Errorf("expected operation 'chunk', got %q", err.Operation)
	}
	if err.Message != "size must be positive" {
		t.Errorf("expected message, got %q", err.Message)
	}
}

func TestError_OutOfBounds_IsConfiguration(t *testing.T) {
	err := OutOfBounds("limit", "count", 0)
	if err.Code != ErrCodeOutOfBounds {
		t.Errorf("expected OUT_OF_BOUNDS, got %s", err.Code)
	}
	if !IsConfiguration(err) {
		t.Error("OUT_OF_BOUNDS should be a configuration error")
	}
	if err.Details["param"] != "count" {
		t.Errorf("expected param=count, got %v", err.Details["param"])
	}
	if err.Details["value"] != 0 {
		t.Errorf("expected value=0, got %v", err.Details["value"])
	}
}

func TestError_InvalidSource_NotConfiguration(t *testing.T) {
	err := InvalidSource("chan<- int")
	if IsConfiguration(err) {
		t.Error("INVALID_SOURCE should not be a configuration error")
	}
	if !strings.Contains(err.Error(), "chan<- int") {
		t.Errorf("expected shape in message, got %q", err.Error())
	}
}

func TestError_Error_Format(t *testing.T) {
	err := Configuration("intersperse", "every must be at least 1")
	s := err.Error()
	if !strings.Contains(s, "CONFIGURATION_ERROR") {
		t.Errorf("expected error string to contain code, got %q", s)
	}
	if !strings.Contains(s, "[intersperse]") {
		t.Errorf("expected error string to contain operation, got %q", s)
	}

	plain := New(ErrCodeNotFound, "", "missing")
	if plain.Error() != "NOT_FOUND: missing" {
		t.Errorf("unexpected format %q", plain.Error())
	}
}

func TestError_WithCause_Chain(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := InvalidDefinition("words", "bad yaml").WithCause(cause)
	if err.Cause != cause {
		t.Error("expected cause to be set via WithCause")
	}
	if !strings.Contains(err.Error(), "root cause") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
}

func TestError_Is_MatchesByCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", OutOfBounds("limit", "count", -1))
	if !stderrors.Is(err, &Error{Code: ErrCodeOutOfBounds}) {
		t.Error("expected errors.Is to match by code")
	}
	if stderrors.Is(err, &Error{Code: ErrCodeInvalidSource}) {
		t.Error("expected errors.Is not to match a different code")
	}
	if !IsCode(err, ErrCodeOutOfBounds) {
		t.Error("expected IsCode to see through wrapping")
	}
}

func TestError_WithDetails_Merge(t *testing.T) {
	err := NotFound("operation", "frobnicate").WithDetails(map[string]any{
		"extra": "info",
	})
	if err.Details["extra"] != "info" {
		t.Errorf("expected extra=info in details")
	}
	if err.Details["name"] != "frobnicate" {
		t.Error("expected original details to be preserved")
	}
}

func TestError_WithDetail_NilMap(t *testing.T) {
	err := &Error{}
	err.WithDetail("key", "value")
	if err.Details == nil {
		t.Fatal("expected Details map to be initialized")
	}
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestAs(t *testing.T) {
	if _, ok := As(stderrors.New("plain")); ok {
		t.Error("plain error should not convert")
	}
	e, ok := As(fmt.Errorf("ctx: %w", CacheMisuse("abc")))
	if !ok {
		t.Fatal("expected wrapped *Error to convert")
	}
	if e.Details["cache_id"] != "abc" {
		t.Errorf("expected cache_id=abc, got %v", e.Details["cache_id"])
	}
}

func TestLengthMismatch(t *testing.T) {
	err := LengthMismatch("combine", 5, 100)
	if err.Details["want"] != 5 || err.Details["got"] != 100 {
		t.Errorf("unexpected details %v", err.Details)
	}
	if IsConfigurationCode(err.Code) {
		t.Error("LENGTH_MISMATCH is not a configuration code")
	}
}
