package main

import (
	"regexp"
	"strings"
)

// cube notation: moves, rotations, NISS parentheses, step options in brackets
var safeInput = regexp.MustCompile(`^[A-Za-z0-9' ()\-\[\]]*$`)

// Sanitize returns the trimmed string when v is a string made only of
// allow-listed characters. Anything that is not a string sanitizes to "".
func Sanitize(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", nil
	}
	s = strings.TrimSpace(s)
	if !safeInput.MatchString(s) {
		return "", ErrInvalidInput
	}
	return s, nil
}
