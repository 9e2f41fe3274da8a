package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
		wantMsg    string
	}{
		{"not found", NotFound("City"), CodeNotFound, http.StatusNotFound, "City not found"},
		{"not found with id", NotFoundWithID("Class", "abc"), CodeNotFound, http.StatusNotFound, "Class not found"},
		{"validation", Validation("Validation failed", nil), CodeValidation, http.StatusUnprocessableEntity, "Validation failed"},
		{"invalid input", InvalidInput("no valid identifiers"), CodeInvalidInput, http.StatusBadRequest, "no valid identifiers"},
		{"invalid argument type", InvalidArgumentType("record must be an object", cause), CodeInvalidArgumentType, http.StatusBadRequest, "record must be an object"},
		{"unauthorized", Unauthorized("Sign in required"), CodeUnauthorized, http.StatusUnauthorized, "Sign in required"},
		{"conflict", Conflict("Contact already exists"), CodeConflict, http.StatusConflict, "Contact already exists"},
		{"internal", Internal("Failed to create city", cause), CodeInternal, http.StatusInternalServerError, "Failed to create city"},
		{"unavailable", Unavailable("Payment provider"), CodeUnavailable, http.StatusServiceUnavailable, "Payment provider is temporarily unavailable"},
		{"custom", New(CodeBadRequest, "bad", http.StatusPaymentRequired), CodeBadRequest, http.StatusPaymentRequired, "bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %s, want %s", tt.err.Code, tt.wantCode)
			}
			if tt.err.HTTPStatus != tt.wantStatus {
				t.Errorf("HTTPStatus = %d, want %d", tt.err.HTTPStatus, tt.wantStatus)
			}
			if tt.err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", tt.err.Message, tt.wantMsg)
			}
		})
	}
}

func TestNotFoundWithID_Details(t *testing.T) {
	err := NotFoundWithID("Contact", "507f1f77bcf86cd799439011")

	if err.Details["resource"] != "Contact" || err.Details["id"] != "507f1f77bcf86cd799439011" {
		t.Errorf("unexpected details: %v", err.Details)
	}
}

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("Failed to save", cause)

	if !strings.Contains(err.Error(), "caused by: connection reset") {
		t.Errorf("Error() = %q, expected cause", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if got := InvalidInput("x").Error(); got != "INVALID_INPUT: x" {
		t.Errorf("Error() = %q", got)
	}
}

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", Conflict("slug taken"))

	if got := AsAppError(wrapped); got.Code != CodeConflict {
		t.Errorf("expected wrapped AppError to be found, got %s", got.Code)
	}

	plain := errors.New("driver exploded")
	got := AsAppError(plain)
	if got.Code != CodeInternal || got.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("expected internal error for plain errors, got %s/%d", got.Code, got.HTTPStatus)
	}
	if !errors.Is(got, plain) {
		t.Error("expected internal error to wrap the original")
	}
}

func TestIsAppErrorAndHasCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", InvalidArgumentType("bad", nil))

	if !IsAppError(err) {
		t.Error("IsAppError() = false for wrapped AppError")
	}
	if IsAppError(errors.New("plain")) {
		t.Error("IsAppError() = true for plain error")
	}
	if !HasCode(err, CodeInvalidArgumentType) {
		t.Error("HasCode() = false for matching code")
	}
	if HasCode(err, CodeInvalidInput) {
		t.Error("HasCode() = true for other code")
	}
}
