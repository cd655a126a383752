package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidName, "bad name: %s", "1A")

	if err.Code != ErrCodeInvalidName {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidName)
	}

	if err.Message != "bad name: 1A" {
		t.Errorf("Message = %v, want %v", err.Message, "bad name: 1A")
	}

	expected := "INVALID_NAME: bad name: 1A"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeReadWrite, cause, "failed to open")

	if err.Code != ErrCodeReadWrite {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeReadWrite)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidName, "test"),
			code:     ErrCodeInvalidName,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidName, "test"),
			code:     ErrCodeCircular,
			expected: false,
		},
		{
			name:     "outer code of wrapped error",
			err:      Wrap(ErrCodeReadWrite, New(ErrCodeCircular, "inner"), "outer"),
			code:     ErrCodeReadWrite,
			expected: true,
		},
		{
			name:     "inner code of wrapped error",
			err:      Wrap(ErrCodeReadWrite, New(ErrCodeCircular, "inner"), "outer"),
			code:     ErrCodeCircular,
			expected: false,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidName,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidName,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHas(t *testing.T) {
	inner := New(ErrCodeCircular, "cycle")
	wrapped := Wrap(ErrCodeReadWrite, inner, "replay A1")
	viaFmt := fmt.Errorf("load: %w", wrapped)

	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"outer", wrapped, ErrCodeReadWrite, true},
		{"inner", wrapped, ErrCodeCircular, true},
		{"through fmt wrap", viaFmt, ErrCodeCircular, true},
		{"absent", wrapped, ErrCodeInvalidName, false},
		{"plain", errors.New("plain"), ErrCodeCircular, false},
		{"nil", nil, ErrCodeCircular, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Has(tt.err, tt.code); got != tt.expected {
				t.Errorf("Has() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidFormula, "test"),
			expected: ErrCodeInvalidFormula,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRootCode(t *testing.T) {
	err := Wrap(ErrCodeReadWrite, fmt.Errorf("ctx: %w", New(ErrCodeInvalidFormula, "bad")), "load")
	if got := RootCode(err); got != ErrCodeInvalidFormula {
		t.Errorf("RootCode() = %v, want %v", got, ErrCodeInvalidFormula)
	}
	if got := RootCode(errors.New("plain")); got != "" {
		t.Errorf("RootCode(plain) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "wrapped Error",
			err:      Wrap(ErrCodeReadWrite, New(ErrCodeCircular, "cycle A1 -> A1"), "replay A1"),
			expected: "replay A1: cycle A1 -> A1",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}
