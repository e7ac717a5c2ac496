package main

import (
	"os"
	"sort"

	"github.com/alessio/shellescape"
)

// Invocation is one run of the external solver. Args never pass through a shell.
type Invocation struct {
	Path string
	Args []string
	Env  map[string]string
}

func (me *Invocation) Duplicate() *Invocation {
	inv := *me

	// copy env
	inv.Env = make(map[string]string, len(me.Env))
	for k, v := range me.Env {
		inv.Env[k] = v
	}
	inv.Args = append([]string(nil), me.Args...)

	log.Tracef("Duplicate return %#v", inv)
	return &inv
}

func (me *Invocation) Subcommand() string {
	if len(me.Args) == 0 {
		return ""
	}
	return me.Args[0]
}

// CommandLine is the shell-quoted form of the invocation, for logs only.
func (me *Invocation) CommandLine() string {
	return shellescape.QuoteCommand(append([]string{me.Path}, me.Args...))
}

// Environ is the parent environment followed by the configured extras, in key order.
func (me *Invocation) Environ() []string {
	env := os.Environ()
	keys := make([]string, 0, len(me.Env))
	for k := range me.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+me.Env[k])
	}
	return env
}
