package users

import (
	"strings"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	cases := []struct {
		username string
		wantErr  string
	}{
		{"alice", ""},
		{"alice_bob99", ""},
		{"ABC", ""},
		{"ab", "Username must be at least 3 characters"},
		{strings.Repeat("a", 51), "Username must be at most 50 characters"},
		{strings.Repeat("a", 50), ""},
		{"alice!", "Username can only contain letters, numbers, and underscores"},
		{"alice bob", "Username can only contain letters, numbers, and underscores"},
	}

	for _, tc := range cases {
		err := ValidateUsername(tc.username)
		if tc.wantErr == "" {
			if err != nil {
				t.Errorf("ValidateUsername(%q) returned unexpected error: %v", tc.username, err)
			}
			continue
		}
		if err == nil || err.Error() != tc.wantErr {
			t.Errorf("ValidateUsername(%q): expected %q, got %v", tc.username, tc.wantErr, err)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@x.com", "john.doe+tag@example.co.uk", "USER@EXAMPLE.COM"}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("ValidateEmail(%q) returned unexpected error: %v", email, err)
		}
	}

	invalid := []string{"broken", "a@b", "@example.com", "a b@example.com", "a@example."}
	for _, email := range invalid {
		if err := ValidateEmail(email); err == nil {
			t.Errorf("ValidateEmail(%q): expected error", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("password123"); err != nil {
		t.Errorf("Expected valid password, got %v", err)
	}
	if err := ValidatePassword("short"); err == nil {
		t.Error("Expected short password to be rejected")
	}
	if err := ValidatePassword(strings.Repeat("p", 129)); err == nil {
		t.Error("Expected overlong password to be rejected")
	}
	if err := ValidatePassword(strings.Repeat("p", 128)); err != nil {
		t.Errorf("Expected 128-char password to be accepted, got %v", err)
	}

	// Length is counted in characters, so multibyte runes don't inflate it
	if err := ValidatePassword(strings.Repeat("é", 4)); err == nil {
		t.Error("Expected 4-char multibyte password to be rejected")
	}
	if err := ValidatePassword(strings.Repeat("é", 8)); err != nil {
		t.Errorf("Expected 8-char multibyte password to be accepted, got %v", err)
	}
	if err := ValidatePassword(strings.Repeat("é", 129)); err == nil {
		t.Error("Expected 129-char multibyte password to be rejected")
	}
}

func TestValidateDisplayNameAndBio(t *testing.T) {
	if err := ValidateDisplayName(strings.Repeat("d", 100)); err != nil {
		t.Errorf("Expected 100-char display name to be accepted, got %v", err)
	}
	if err := ValidateDisplayName(strings.Repeat("d", 101)); err == nil {
		t.Error("Expected 101-char display name to be rejected")
	}
	if err := ValidateBio(strings.Repeat("b", 500)); err != nil {
		t.Errorf("Expected 500-char bio to be accepted, got %v", err)
	}
	if err := ValidateBio(strings.Repeat("b", 501)); err == nil {
		t.Error("Expected 501-char bio to be rejected")
	}
}
