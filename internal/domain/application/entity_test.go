package application

import "testing"

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusReviewed, StatusContacted, StatusRejected, StatusHired} {
		if !s.Valid() {
			t.Fatalf("%s must be valid", s)
		}
	}
	for _, s := range []Status{"", "archived", "Pending", "PENDING"} {
		if s.Valid() {
			t.Fatalf("%q must be invalid", s)
		}
	}
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"jane@example.com", true},
		{"j.doe+tag@sub.example.co", true},
		{"no-at-sign", false},
		{"two@@example.com", false},
		{"spaces in@example.com", false},
		{"missing@tld", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidEmail(tt.email); got != tt.want {
			t.Errorf("ValidEmail(%q) = %t, want %t", tt.email, got, tt.want)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Jane@Example.COM "); got != "jane@example.com" {
		t.Fatalf("got %q", got)
	}
}

func TestParsedResumeEmpty(t *testing.T) {
	var nilResume *ParsedResume
	if !nilResume.Empty() {
		t.Fatalf("nil resume must report empty")
	}
	if !(&ParsedResume{}).Empty() {
		t.Fatalf("zero resume must report empty")
	}
	if (&ParsedResume{FullName: "Jane"}).Empty() {
		t.Fatalf("resume with a field must not report empty")
	}
	if (&ParsedResume{RawData: []byte(`{}`)}).Empty() {
		t.Fatalf("resume with raw data must not report empty")
	}
}
