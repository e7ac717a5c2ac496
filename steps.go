package main

import (
	"regexp"
	"strings"
)

type Step struct {
	Id          string `json:"id"`
	Description string `json:"description"`
}

var stepLine = regexp.MustCompile(`^(\S+)\s+(.+)$`)

// ParseSteps reads the "<id> <description>" lines printed by `nissy steps`,
// leaving out ids in skip. Lines of any other shape are ignored.
func ParseSteps(output string, skip map[string]bool) []Step {
	steps := make([]Step, 0)
	for _, line := range strings.Split(output, "\n") {
		m := stepLine.FindStringSubmatch(line)
		if m == nil || skip[m[1]] {
			continue
		}
		steps = append(steps, Step{Id: m[1], Description: strings.TrimSpace(m[2])})
	}
	return steps
}
