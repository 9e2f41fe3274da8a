package sanitizer

import "testing"

func TestStripHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Weekly <b>yoga</b> class", "Weekly yoga class"},
		{`<script>alert("x")</script>Hello`, "Hello"},
		{"Tom & Jerry", "Tom & Jerry"},
		{"  plain  ", "plain"},
	}

	for _, tt := range tests {
		if got := StripHTML(tt.in); got != tt.want {
			t.Errorf("StripHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
