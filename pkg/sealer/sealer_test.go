package sealer

import (
	"errors"
	"testing"
)

const testKey = "lfQVRuulcL2iOhOJ2r8BYTweoSKwVAJnIF9U+AL+M60="

func TestSealer_RoundTrip(t *testing.T) {
	s, err := New(testKey)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	token, err := s.CreateOpaqueToken("507f1f77bcf86cd799439011", "signup-3")
	if err != nil {
		t.Fatalf("CreateOpaqueToken() error = %v", err)
	}

	classID, signupID, err := s.ParseOpaqueToken(token)
	if err != nil {
		t.Fatalf("ParseOpaqueToken() error = %v", err)
	}
	if classID != "507f1f77bcf86cd799439011" || signupID != "signup-3" {
		t.Errorf("got (%q, %q)", classID, signupID)
	}
}

func TestSealer_RejectsForeignAndGarbageTokens(t *testing.T) {
	a, _ := New(testKey)
	b, _ := New("")

	token, err := b.CreateOpaqueToken("x", "y")
	if err != nil {
		t.Fatalf("CreateOpaqueToken() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"other key", token},
		{"not base64", "!!!"},
		{"too short", "AAAA"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := a.ParseOpaqueToken(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("ParseOpaqueToken() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestNew_InvalidKey(t *testing.T) {
	if _, err := New("not-base64!"); err == nil {
		t.Error("expected error for undecodable key")
	}
	if _, err := New("AAAA"); err == nil {
		t.Error("expected error for 3 byte key")
	}
}
