package handlers

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation limits for account and content fields.
const (
	minUsernameLen = 3
	maxUsernameLen = 64
	minPasswordLen = 8
	maxNameLen     = 100
	maxTitleLen    = 300
	maxContentLen  = 100_000
	maxSummaryLen  = 1_000
	maxMetaDescLen = 500
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// validateUsername checks username length bounds.
func validateUsername(username string) string {
	username = strings.TrimSpace(username)
	if utf8.RuneCountInString(username) < minUsernameLen {
		return "Username must be at least 3 characters."
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return "Username is too long (max 64 characters)."
	}
	return ""
}

// validateRegistration checks account creation inputs and returns the
// first error found.
func validateRegistration(username, email, password string) string {
	if msg := validateUsername(username); msg != "" {
		return msg
	}
	if !emailPattern.MatchString(email) {
		return "A valid email address is required."
	}
	if len(password) < minPasswordLen {
		return "Password must be at least 8 characters."
	}
	return ""
}

// validatePostInput checks post creation and update inputs.
func validatePostInput(title, content string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if strings.TrimSpace(content) == "" {
		return "Content is required."
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return "Content is too long (max 100,000 characters)."
	}
	return ""
}

// validateMetadata checks optional SEO metadata fields.
func validateMetadata(summary, metaDesc string) string {
	if utf8.RuneCountInString(summary) > maxSummaryLen {
		return "Summary is too long (max 1,000 characters)."
	}
	if utf8.RuneCountInString(metaDesc) > maxMetaDescLen {
		return "Meta description is too long (max 500 characters)."
	}
	return ""
}

// validateName checks category and tag names.
func validateName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 100 characters)."
	}
	return ""
}
