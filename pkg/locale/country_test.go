package locale

import (
	"testing"
	"time"
)

func TestCountryForPhone(t *testing.T) {
	tests := []struct {
		name     string
		phone    string
		wantCode string
		wantNil  bool
	}{
		{
			name:     "US phone",
			phone:    "+12015550123",
			wantCode: "US",
		},
		{
			name:     "US phone in display format",
			phone:    "(201) 555-0123",
			wantCode: "US",
		},
		{
			name:     "Canadian number shares the +1 calling code",
			phone:    "+15062345678",
			wantCode: "CA",
		},
		{
			name:     "Israel mobile",
			phone:    "+972502345678",
			wantCode: "IL",
		},
		{
			name:     "UK mobile",
			phone:    "+447400123456",
			wantCode: "GB",
		},
		{
			name:    "region outside the table",
			phone:   "+61412345678",
			wantNil: true,
		},
		{
			name:    "empty phone",
			phone:   "",
			wantNil: true,
		},
		{
			name:    "invalid phone",
			phone:   "not-a-phone",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CountryForPhone(tt.phone)

			if tt.wantNil {
				if got != nil {
					t.Errorf("CountryForPhone(%q) = %v, want nil", tt.phone, got.Code)
				}
				return
			}

			if got == nil {
				t.Fatalf("CountryForPhone(%q) = nil, want %s", tt.phone, tt.wantCode)
			}
			if got.Code != tt.wantCode {
				t.Errorf("CountryForPhone(%q).Code = %s, want %s", tt.phone, got.Code, tt.wantCode)
			}
		})
	}
}

func TestLocationForPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  string
	}{
		{"+12015550123", "America/New_York"},
		{"+972502345678", "Asia/Jerusalem"},
		{"+61412345678", "UTC"},
		{"", "UTC"},
	}

	for _, tt := range tests {
		if got := LocationForPhone(tt.phone).String(); got != tt.want {
			t.Errorf("LocationForPhone(%q) = %s, want %s", tt.phone, got, tt.want)
		}
	}

	if LocationForPhone("garbage") != time.UTC {
		t.Error("expected time.UTC for unparseable numbers")
	}
}
