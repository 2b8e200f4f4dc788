package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNotFound, "resource not found")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "resource not found" {
		t.Errorf("expected message 'resource not found', got %s", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeIO, "operation failed", cause)

	if err.Code != ErrCodeIO {
		t.Errorf("expected code %s, got %s", ErrCodeIO, err.Code)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped")
	}
}

func TestWrapWithContext(t *testing.T) {
	cause := errors.New("no such file or directory")
	ctx := map[string]any{
		"mountpoint": "/home/pi/printer_data/gcodes/USB",
	}

	err := WrapWithContext(ErrCodeMountVanished, "mount point vanished", cause, ctx)

	if err.Code != ErrCodeMountVanished {
		t.Errorf("expected code %s, got %s", ErrCodeMountVanished, err.Code)
	}
	if err.Context == nil {
		t.Fatal("expected context to be set")
	}
	if err.Context["mountpoint"] != "/home/pi/printer_data/gcodes/USB" {
		t.Errorf("expected mountpoint in context")
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StructuredError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(ErrCodeNotFound, "not found"),
			expected: "[NOT_FOUND] not found",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeInternal, "failed", errors.New("root cause")),
			expected: "[INTERNAL] failed: root cause",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(ErrCodeInternal, "wrapped", cause)

	unwrapped := err.Unwrap()
	if !errors.Is(unwrapped, cause) {
		t.Errorf("expected unwrapped error to be original cause")
	}

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is should work with Unwrap")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitOK},
		{name: "no device", err: New(ErrCodeNotFound, "no device"), want: ExitNoDevice},
		{name: "wrapped no device", err: fmt.Errorf("run: %w", New(ErrCodeNotFound, "no device")), want: ExitNoDevice},
		{name: "mount vanished", err: New(ErrCodeMountVanished, "gone"), want: ExitError},
		{name: "plain error", err: errors.New("boom"), want: ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Errorf("expected empty code, got %q", got)
	}
	err := fmt.Errorf("outer: %w", Wrap(ErrCodeTimeout, "slow", errors.New("deadline")))
	if got := CodeOf(err); got != ErrCodeTimeout {
		t.Errorf("expected %s, got %s", ErrCodeTimeout, got)
	}
}
