package service

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// handlePattern is ASCII-only; case folding happens after validation
var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_]{2,16}$`)

// maxNoteLength caps transfer and request notes, in runes
const maxNoteLength = 140

// NormalizeHandle strips surrounding whitespace and an optional leading "$".
// Case is preserved; comparisons use HandleKey.
func NormalizeHandle(raw string) string {
	return strings.TrimPrefix(strings.TrimSpace(raw), "$")
}

// HandleKey returns the lowercase form the handle index is keyed by
func HandleKey(handle string) string {
	return strings.ToLower(NormalizeHandle(handle))
}

// ValidateHandle returns the normalized handle or ErrInvalidHandle
func ValidateHandle(raw string) (string, error) {
	handle := NormalizeHandle(raw)
	if !handlePattern.MatchString(handle) {
		return "", ErrInvalidHandle
	}
	return handle, nil
}

// cleanNote trims a free-text note and truncates it to maxNoteLength runes
func cleanNote(note string) string {
	note = strings.TrimSpace(note)
	if utf8.RuneCountInString(note) <= maxNoteLength {
		return note
	}
	runes := []rune(note)
	return strings.TrimSpace(string(runes[:maxNoteLength]))
}
