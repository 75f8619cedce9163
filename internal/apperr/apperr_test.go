package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{"without cause", NotFound("service", "Visio"), "[NOT_FOUND] service not found: Visio"},
		{"with cause", Parse("read sheet", errors.New("boom")), "[PARSE_ERROR] read sheet: boom"},
		{"invalid input", InvalidInput("unit_price", "must not be negative"), "[INVALID_INPUT] unit_price: must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestIsTypeThroughWrapping(t *testing.T) {
	base := AccessDenied("IT", "Procurement")
	wrapped := fmt.Errorf("admin: update service: %w", base)

	if !IsType(wrapped, TypeAccessDenied) {
		t.Error("expected wrapped error to match TypeAccessDenied")
	}
	if IsType(wrapped, TypeNotFound) {
		t.Error("wrapped AccessDenied must not match TypeNotFound")
	}
	if TypeOf(wrapped) != TypeAccessDenied {
		t.Errorf("TypeOf = %q, want %q", TypeOf(wrapped), TypeAccessDenied)
	}
	if IsType(errors.New("plain"), TypeParse) {
		t.Error("plain error must not match any type")
	}
	if TypeOf(nil) != "" {
		t.Error("TypeOf(nil) should be empty")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("zip: not a valid zip file")
	err := Parse("open workbook", cause)
	if !errors.Is(err, cause) {
		t.Error("Parse error should wrap its cause")
	}
}
