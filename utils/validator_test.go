package utils

import (
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"pi@example.org",
		"first.last@vet-school.ac.uk",
		"user+tag@example.co",
	}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("expected %q to be valid", email)
		}
	}

	invalid := []string{
		"",
		"plainaddress",
		"@example.org",
		"user@",
		"user@example",
	}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("expected %q to be invalid", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if ok, msg := ValidatePassword("short"); ok || msg == "" {
		t.Error("expected short password to be rejected with a message")
	}
	if ok, msg := ValidatePassword(strings.Repeat("a", 73)); ok || msg == "" {
		t.Error("expected overlong password to be rejected with a message")
	}
	if ok, msg := ValidatePassword("correct horse battery"); !ok || msg != "" {
		t.Errorf("expected password to be accepted, got %q", msg)
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  hello  "); got != "hello" {
		t.Errorf("SanitizeInput() = %q", got)
	}
	if got := SanitizeInput("a\x00b"); got != "ab" {
		t.Errorf("SanitizeInput() = %q", got)
	}
}
