package main

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

const (
	DefaultSolverTimeout = 5 * time.Hour

	noSolution = "No solution found"

	// how long Wait keeps draining pipes after the process group was killed
	killWaitDelay = 5 * time.Second
)

// Runner runs the solver with the given arguments and returns its filtered output.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

type Solver struct {
	base    *Invocation
	Timeout time.Duration
}

func NewSolver(cfg SolverConfig) *Solver {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultSolverTimeout
	}
	return &Solver{
		base: &Invocation{
			Path: cfg.Path,
			Env:  cfg.Env,
		},
		Timeout: timeout,
	}
}

// ProcessResult is everything one solver run produced.
type ProcessResult struct {
	Err      error
	ExitCode int
	Pid      int
	Killed   bool
	StdOut   string
	StdErr   string
	Dur      time.Duration
}

func (me *Solver) Invocation(args ...string) *Invocation {
	inv := me.base.Duplicate()
	inv.Args = args
	return inv
}

func (me *Solver) Run(ctx context.Context, args ...string) (string, error) {
	inv := me.Invocation(args...)
	log.Debugf("exec %s", inv.CommandLine())

	ret := me.Exec(ctx, inv)
	out, err := ret.Resolve()
	if err != nil {
		log.Infof("exec %s failed after %dms pid:%d exit_code:%d: %s", inv.Subcommand(), ret.Dur.Milliseconds(), ret.Pid, ret.ExitCode, err)
		return "", err
	}
	log.Infof("exec %s ok after %dms", inv.Subcommand(), ret.Dur.Milliseconds())
	return out, nil
}

// Exec runs inv until it exits or the solver timeout elapses, whichever is first.
func (me *Solver) Exec(ctx context.Context, inv *Invocation) *ProcessResult {
	ctx, cancel := context.WithTimeout(ctx, me.Timeout)
	defer cancel()

	c := exec.CommandContext(ctx, inv.Path, inv.Args...)
	c.Env = inv.Environ()
	killProcessGroup(c)

	var (
		stdout bytes.Buffer
		stderr bytes.Buffer
	)
	c.Stdout = &stdout
	c.Stderr = &stderr

	ret := &ProcessResult{}
	started := time.Now()
	err := c.Run()
	ret.Dur = time.Since(started)
	if err != nil {
		ret.Err = err
		ret.Killed = ctx.Err() != nil
		// grab exit code
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			ret.ExitCode = exitError.ExitCode()
		}
	}
	if c.ProcessState != nil {
		ret.Pid = c.ProcessState.Pid()
	}
	ret.StdOut = stdout.String()
	ret.StdErr = stderr.String()
	return ret
}

// Resolve applies the result policy. nissy exits non-zero when optional
// tables are missing but still prints a valid answer, so stdout wins over
// the exit status.
func (me *ProcessResult) Resolve() (string, error) {
	if out := FilterWarnings(me.StdOut); out != "" {
		return out, nil
	}
	if me.Err == nil {
		return "", nil
	}
	if me.Killed {
		return "", ErrTimeout
	}
	msg := me.StdErr
	if msg == "" && !exitedNormally(me.Err) {
		msg = me.Err.Error()
	}
	if msg = FilterWarnings(msg); msg == "" {
		msg = noSolution
	}
	return "", &ProcessError{Message: msg}
}

// exitedNormally reports whether err is only a non-zero exit status, which
// says nothing a caller could use.
func exitedNormally(err error) bool {
	var exitError *exec.ExitError
	if !errors.As(err, &exitError) {
		return false
	}
	return exitError.Exited()
}
