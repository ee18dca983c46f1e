package handlers

import (
	"strings"
	"testing"
)

func TestValidateRegistration(t *testing.T) {
	cases := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  bool
	}{
		{"valid", "gopher", "gopher@example.com", "longenough", false},
		{"short username", "ab", "gopher@example.com", "longenough", true},
		{"long username", strings.Repeat("a", 65), "gopher@example.com", "longenough", true},
		{"bad email", "gopher", "not-an-email", "longenough", true},
		{"email without tld", "gopher", "user@host", "longenough", true},
		{"short password", "gopher", "gopher@example.com", "short", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := validateRegistration(tc.username, tc.email, tc.password)
			if (msg != "") != tc.wantErr {
				t.Errorf("validateRegistration(%q, %q, ...) = %q, wantErr=%v",
					tc.username, tc.email, msg, tc.wantErr)
			}
		})
	}
}

func TestValidatePostInput(t *testing.T) {
	cases := []struct {
		name    string
		title   string
		content string
		wantErr bool
	}{
		{"valid", "A Title", "Some content.", false},
		{"empty title", "", "Some content.", true},
		{"whitespace title", "   ", "Some content.", true},
		{"long title", strings.Repeat("x", 301), "Some content.", true},
		{"empty content", "A Title", "", true},
		{"huge content", "A Title", strings.Repeat("x", 100_001), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := validatePostInput(tc.title, tc.content)
			if (msg != "") != tc.wantErr {
				t.Errorf("validatePostInput = %q, wantErr=%v", msg, tc.wantErr)
			}
		})
	}
}

func TestValidateMetadata(t *testing.T) {
	if msg := validateMetadata(strings.Repeat("s", 1001), ""); msg == "" {
		t.Error("oversized summary accepted")
	}
	if msg := validateMetadata("", strings.Repeat("m", 501)); msg == "" {
		t.Error("oversized meta description accepted")
	}
	if msg := validateMetadata("fine", "also fine"); msg != "" {
		t.Errorf("valid metadata rejected: %q", msg)
	}
}

func TestValidateName(t *testing.T) {
	if msg := validateName(""); msg == "" {
		t.Error("empty name accepted")
	}
	if msg := validateName(strings.Repeat("n", 101)); msg == "" {
		t.Error("oversized name accepted")
	}
	if msg := validateName("Tech"); msg != "" {
		t.Errorf("valid name rejected: %q", msg)
	}
}
