package dtmf

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// LockMemory keeps the process resident so page faults can't stall the audio callback.
func LockMemory() error {
	if err := unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE); err != nil {
		return fmt.Errorf("mlockall: %w", err)
	}

	return nil
}
