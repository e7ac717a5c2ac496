package main

import "strings"

const (
	warningStart = "--- Warning ---"
	warningEnd   = "---------------"
)

// FilterWarnings drops every warning block nissy writes around its output.
// A block that is never closed swallows the rest of the text.
func FilterWarnings(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	filtered := make([]string, 0, len(lines))
	inWarning := false
	for _, line := range lines {
		switch {
		case line == warningStart:
			inWarning = true
		case line == warningEnd && inWarning:
			inWarning = false
		case !inWarning:
			filtered = append(filtered, line)
		}
	}
	return strings.TrimSpace(strings.Join(filtered, "\n"))
}
