//go:build windows

package executor

import "os/exec"

// Windows has no process groups to speak of; only the direct child is
// killed. Grandchildren it spawned may linger.
func setProcessGroup(cmd *exec.Cmd) {}

func killGroup(cmd *exec.Cmd) {
	if cmd.Process != nil {
		cmd.Process.Kill()
	}
}
