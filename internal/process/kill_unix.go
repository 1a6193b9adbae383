//go:build !windows

// Package process terminates the headless Chrome tree started for slide
// rasterizing.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid. Chrome
// renderer and GPU helpers share that group.
func KillProcessGroup(pid int) {
	_ = syscall.Kill(-pid, syscall.SIGKILL) // launcher.Kill covers failures
}
