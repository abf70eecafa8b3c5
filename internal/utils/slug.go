package utils

import (
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const uuidLen = 36

// BuildJobSlug: "Plumber needed in Parramatta" + id -> "plumber-needed-in-parramatta-<uuid>"
func BuildJobSlug(title, id string) string {
	base := slug.Make(title)
	if len(base) > 80 {
		base = strings.TrimRight(base[:80], "-")
	}
	if base == "" {
		return id
	}
	return base + "-" + id
}

// ParseJobSlug достает id работы из конца слага.
// Принимает и "голый" uuid.
func ParseJobSlug(s string) (string, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if len(s) < uuidLen {
		return "", false
	}
	tail := s[len(s)-uuidLen:]
	if _, err := uuid.Parse(tail); err != nil {
		return "", false
	}
	if len(s) > uuidLen && s[len(s)-uuidLen-1] != '-' {
		return "", false
	}
	return tail, true
}
