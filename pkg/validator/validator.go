package validator

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// ValidateTimezone reports whether name is an IANA zone the runtime knows.
// An empty name is accepted and means UTC.
func ValidateTimezone(name string) bool {
	if name == "" {
		return true
	}
	_, err := time.LoadLocation(name)
	return err == nil
}

// ValidateDate reports whether s is a calendar date in YYYY-MM-DD form.
func ValidateDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// ValidateLength checks the length of s in characters, not bytes.
func ValidateLength(s string, max int) bool {
	return utf8.RuneCountInString(s) <= max
}

func FormatName(name string) string {
	if len(name) == 0 {
		return ""
	}

	parts := strings.Fields(name)
	for i, part := range parts {
		subparts := strings.Split(part, "-")
		for j, subpart := range subparts {
			r, size := utf8.DecodeRuneInString(subpart)
			if size == 0 {
				continue
			}
			subparts[j] = string(unicode.ToUpper(r)) + strings.ToLower(subpart[size:])
		}
		parts[i] = strings.Join(subparts, "-")
	}

	return strings.Join(parts, " ")
}

// CollapseSpaces trims s and replaces runs of whitespace with one space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func SanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '<' || r == '>' || r == '&' || r == '"' || r == '`' || r == ';' {
			return -1
		}
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
}
