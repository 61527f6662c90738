package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeNetworkFailure, cause, "failed to fetch")

	if err.Code != ErrCodeNetworkFailure {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNetworkFailure)
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
			err:      New(ErrCodeEmptyAddress, "test"),
			code:     ErrCodeEmptyAddress,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeNetworkFailure,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeNetworkFailure, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeNetworkFailure,
			expected: true,
		},
		{
			name:     "provider error",
			err:      &ProviderError{Status: 502},
			code:     ErrCodeProvider,
			expected: true,
		},
		{
			name:     "provider error behind fmt wrap",
			err:      fmt.Errorf("fetch page: %w", &ProviderError{Status: 500}),
			code:     ErrCodeProvider,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
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

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeNoMorePages, "x")); got != ErrCodeNoMorePages {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeNoMorePages)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"structured", New(ErrCodeEmptyAddress, "missing address"), "missing address"},
		{"structured with cause", Wrap(ErrCodeNetworkFailure, errors.New("dial tcp"), "fetch wallet"), "fetch wallet: dial tcp"},
		{"provider", &ProviderError{Status: 429, Detail: "slow down"}, "API error 429"},
		{"plain", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProviderErrorIncludesStatus(t *testing.T) {
	err := &ProviderError{Status: 503}
	if err.Error() != "API error 503" {
		t.Errorf("Error() = %q, want %q", err.Error(), "API error 503")
	}

	var pe *ProviderError
	if !errors.As(fmt.Errorf("wrapped: %w", err), &pe) || pe.Status != 503 {
		t.Errorf("errors.As did not recover status, got %+v", pe)
	}
}
