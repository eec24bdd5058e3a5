//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillGroup terminates pid and its child tree with taskkill.
// A pid <= 0 is ignored.
func KillGroup(pid int) error {
	if pid <= 0 {
		return nil
	}
	// taskkill exits non-zero when the tree is already gone; that is not a failure here.
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
	return nil
}
