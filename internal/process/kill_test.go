package process

// Notes:
// - Only unreachable PIDs are used here. Signalling a real group from a unit
//   test could take down the test runner; the browser integration tests cover
//   the actual teardown.

import "testing"

func TestKillProcessGroup_NoTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pid  int
	}{
		{"zero is ignored", 0},
		{"negative is ignored", -42},
		{"nonexistent pid", 999999999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			KillProcessGroup(tt.pid)
		})
	}
}
