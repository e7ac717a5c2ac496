package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSteps(t *testing.T) {
	out := "eofb    EO on F/B\noptimal Optimal solve\nlight   Optimal, less tables\n\ndr      DR from EO   \ngarbage\n"
	steps := ParseSteps(out, map[string]bool{"optimal": true, "light": true})
	require.Equal(t, []Step{
		{Id: "eofb", Description: "EO on F/B"},
		{Id: "dr", Description: "DR from EO"},
	}, steps)
}

func TestParseStepsEmpty(t *testing.T) {
	steps := ParseSteps("", nil)
	require.NotNil(t, steps)
	require.Len(t, steps, 0)
}
