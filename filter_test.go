package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterWarnings(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"no markers", "  R U R'\nF2\n\n", "R U R'\nF2"},
		{"one block", "A\n--- Warning ---\nW\n---------------\nB", "A\nB"},
		{"crlf", "A\r\n--- Warning ---\r\nW\r\n---------------\r\nB\r\n", "A\nB"},
		{"unterminated", "A\n--- Warning ---\nW", "A"},
		{"two blocks", "--- Warning ---\nx\n---------------\nA\n--- Warning ---\ny\nz\n---------------\nB", "A\nB"},
		{"only warning", "--- Warning ---\nmissing table\n---------------\n", ""},
		{"stray end marker", "A\n---------------\nB", "A\n---------------\nB"},
		{"not exact", "A\n--- Warning --- extra\nB", "A\n--- Warning --- extra\nB"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, FilterWarnings(tc.in))
		})
	}
}
