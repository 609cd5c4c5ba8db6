//go:build unix

package utils

import "golang.org/x/sys/unix"

// DisableCoreDumps sets RLIMIT_CORE to zero for the process.
func DisableCoreDumps() error {
	var rlim unix.Rlimit
	rlim.Cur = 0
	rlim.Max = 0
	return unix.Setrlimit(unix.RLIMIT_CORE, &rlim)
}
