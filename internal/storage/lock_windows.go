//go:build windows

package storage

import "os"

// On Windows the lock is advisory only: the PID file is written but not
// locked by the kernel.
func flockAcquire(file *os.File) error {
	return nil
}

func flockRelease(file *os.File) error {
	return nil
}
