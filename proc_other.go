//go:build !unix

package main

import "os/exec"

func killProcessGroup(c *exec.Cmd) {
	c.WaitDelay = killWaitDelay
}
