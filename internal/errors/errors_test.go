package errors

import (
	"errors"
	"testing"
)

type codedError struct {
	Code int
}

func (e codedError) Error() string { return "coded" }

func TestWrap(t *testing.T) {
	base := errors.New("base error")

	t.Run("wrap non-nil error", func(t *testing.T) {
		wrapped := Wrap(base, "wrapped")
		if wrapped == nil {
			t.Fatal("expected wrapped error, got nil")
		}
		if wrapped.Error() != "wrapped: base error" {
			t.Errorf("unexpected message: %s", wrapped.Error())
		}
		if !errors.Is(wrapped, base) {
			t.Error("expected wrapped error to wrap base")
		}
	})

	t.Run("wrap nil error", func(t *testing.T) {
		if wrapped := Wrap(nil, "wrapped"); wrapped != nil {
			t.Errorf("expected nil, got %v", wrapped)
		}
	})
}

func TestWrapf(t *testing.T) {
	base := errors.New("base error")

	t.Run("wrapf non-nil error", func(t *testing.T) {
		wrapped := Wrapf(base, "attempt %d", 2)
		if wrapped == nil {
			t.Fatal("expected wrapped error, got nil")
		}
		if wrapped.Error() != "attempt 2: base error" {
			t.Errorf("unexpected message: %s", wrapped.Error())
		}
		if !errors.Is(wrapped, base) {
			t.Error("expected wrapped error to wrap base")
		}
	})

	t.Run("wrapf nil error", func(t *testing.T) {
		if wrapped := Wrapf(nil, "attempt %d", 2); wrapped != nil {
			t.Errorf("expected nil, got %v", wrapped)
		}
	})
}

func TestIs(t *testing.T) {
	if !Is(Wrap(ErrNotFound, "credential"), ErrNotFound) {
		t.Error("expected wrapped ErrNotFound to match ErrNotFound")
	}
	if Is(ErrNotFound, ErrDataIntegrity) {
		t.Error("expected ErrNotFound NOT to match ErrDataIntegrity")
	}
}

func TestAs(t *testing.T) {
	wrapped := Wrap(codedError{Code: 7}, "context")

	var target codedError
	if !As(wrapped, &target) {
		t.Fatal("expected to extract codedError")
	}
	if target.Code != 7 {
		t.Errorf("expected code 7, got %d", target.Code)
	}
}

func TestStandardErrors(t *testing.T) {
	tests := []struct {
		err  error
		text string
	}{
		{ErrNotFound, "not found"},
		{ErrConflict, "conflict"},
		{ErrInvalidInput, "invalid input"},
		{ErrUnauthorized, "unauthorized"},
		{ErrForbidden, "forbidden"},
		{ErrDataIntegrity, "data integrity"},
	}

	for _, tt := range tests {
		if tt.err.Error() != tt.text {
			t.Errorf("expected text '%s', got '%s'", tt.text, tt.err.Error())
		}
	}
}
