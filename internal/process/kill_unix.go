//go:build !windows

// Package process stops the headless browser tree launched for PDF export.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the whole process group led by pid.
// Chromium forks renderer and GPU helpers; killing only the launcher PID
// leaves them running.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
