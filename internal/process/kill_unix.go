//go:build !windows

package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid (negative PID),
// taking the browser's child processes down with it.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best-effort; launcher.Kill() remains the fallback.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
