//go:build windows

// Package process terminates the headless Chrome tree started for slide
// rasterizing.
package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup force-kills pid and its child tree with taskkill.
func KillProcessGroup(pid int) {
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // launcher.Kill covers failures
}
