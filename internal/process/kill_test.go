package process

// Notes:
// - Real kill behavior is exercised by the print integration tests; unit tests
//   only check that invalid PIDs are handled without panicking.
// - PID 0 and negative PIDs are guarded inside KillProcessGroup because
//   syscall.Kill(-0, SIGKILL) would target the current process group.

import "testing"

func TestKillProcessGroup_InvalidPID(t *testing.T) {
	t.Parallel()

	KillProcessGroup(999999999)
}

func TestKillProcessGroup_NonPositivePID(t *testing.T) {
	t.Parallel()

	// Must return without signalling anything.
	KillProcessGroup(0)
	KillProcessGroup(-1)
}
