package handlers

import (
	"regexp"

	"blockpress/internal/slug"
)

// maxLanguageCodeLen matches the languages.code column.
const maxLanguageCodeLen = 10

var languageCodeRe = regexp.MustCompile(`^[a-z]{2,3}(-[a-zA-Z0-9]{2,8})?$`)

// validateLanguageCode checks a language path segment and returns the first
// problem found, or "".
func validateLanguageCode(code string) string {
	if code == "" {
		return "Language code is required."
	}
	if len(code) > maxLanguageCodeLen {
		return "Language code is too long (max 10 characters)."
	}
	if !languageCodeRe.MatchString(code) {
		return "Language code is malformed."
	}
	return ""
}

// validateSlug checks a slug path segment and returns the first problem
// found, or "".
func validateSlug(s string) string {
	if s == "" {
		return "Slug is required."
	}
	if len(s) > slug.MaxLen {
		return "Slug is too long (max 300 characters)."
	}
	if !slug.Valid(s) {
		return "Slug may only contain lowercase letters, digits and single hyphens."
	}
	return ""
}
