//go:build !windows

package process

import (
	"errors"
	"syscall"
)

// KillGroup sends SIGKILL to the process group led by pid, which takes the
// browser's renderer and GPU children down with it. A pid <= 0 is ignored
// and an already-gone group is not an error.
func KillGroup(pid int) error {
	if pid <= 0 {
		return nil
	}
	err := syscall.Kill(-pid, syscall.SIGKILL)
	if errors.Is(err, syscall.ESRCH) {
		return nil
	}
	return err
}
