//go:build !unix

package utils

// DisableCoreDumps is a no-op where core dumps are not controlled by rlimits.
func DisableCoreDumps() error {
	return nil
}
