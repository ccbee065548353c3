package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", Validation("amount out of range"), http.StatusBadRequest},
		{"not found", NotFound("bid %s not found", "abc"), http.StatusNotFound},
		{"authorization", Authorization("not the vehicle owner"), http.StatusForbidden},
		{"conflict", Conflict("bid already approved"), http.StatusConflict},
		{"persistence", Persistence(errors.New("socket closed"), "transaction aborted"), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.expected {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestIsMatchesWrappedErrors(t *testing.T) {
	inner := Conflict("bid already processed")
	wrapped := fmt.Errorf("approve bid: %w", inner)

	if !Is(wrapped, KindConflict) {
		t.Error("expected wrapped conflict error to match KindConflict")
	}
	if Is(wrapped, KindValidation) {
		t.Error("conflict error should not match KindValidation")
	}
	if Is(errors.New("plain"), KindConflict) {
		t.Error("plain error should not match any kind")
	}
}

func TestPersistenceUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Persistence(cause, "atomic update failed")

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
	if err.Error() != "atomic update failed: connection reset" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(Validation("bad")); got != KindValidation {
		t.Errorf("KindOf = %s, want %s", got, KindValidation)
	}
	if got := KindOf(errors.New("plain")); got != Kind("") {
		t.Errorf("KindOf(plain) = %s, want empty", got)
	}
}
