package model

import (
	"errors"
	"strings"
	"testing"
)

func TestAPIError_ErrorFormat(t *testing.T) {
	e := NewInvalidTokenError()
	got := e.Error()
	if !strings.HasPrefix(got, "[INVALID_TOKEN]") {
		t.Errorf("Error() = %q, want prefix [INVALID_TOKEN]", got)
	}
}

func TestAPIError_AsUnwrapsFromWrappedError(t *testing.T) {
	wrapped := errors.Join(errors.New("outer"), NewAlreadyUsedError())

	var apiErr *APIError
	if !errors.As(wrapped, &apiErr) {
		t.Fatal("errors.As should find *APIError in wrapped error")
	}
	if apiErr.Code != ErrCodeAlreadyUsed {
		t.Errorf("Code = %q, want %q", apiErr.Code, ErrCodeAlreadyUsed)
	}
}

func TestNewInvalidArgumentError_IncludesFieldName(t *testing.T) {
	e := NewInvalidArgumentError("locationId")
	if e.Code != ErrCodeInvalidArgument {
		t.Errorf("Code = %q, want %q", e.Code, ErrCodeInvalidArgument)
	}
	if !strings.Contains(e.Message, "locationId") {
		t.Errorf("Message = %q, should contain field name", e.Message)
	}
	if e.Category != "validation" {
		t.Errorf("Category = %q, want validation", e.Category)
	}
}

func TestSessionErrors_HaveSessionCategory(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		code string
	}{
		{"invalid token", NewInvalidTokenError(), ErrCodeInvalidToken},
		{"already used", NewAlreadyUsedError(), ErrCodeAlreadyUsed},
		{"expired", NewSessionExpiredError(), ErrCodeSessionExpired},
	}

	for _, tt := range tests {
		if tt.err.Code != tt.code {
			t.Errorf("%s: Code = %q, want %q", tt.name, tt.err.Code, tt.code)
		}
		if tt.err.Category != "session" {
			t.Errorf("%s: Category = %q, want session", tt.name, tt.err.Category)
		}
	}
}
