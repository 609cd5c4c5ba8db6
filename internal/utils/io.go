package utils

import (
	"fmt"
	"io"
	"os"
)

// ReadStdin reads everything piped to stdin, as used by --password-file -.
// It fails when stdin is a terminal or nothing was piped.
func ReadStdin() ([]byte, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat stdin: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice != 0 {
		return nil, fmt.Errorf("no data on stdin (pipe the password file, e.g. lockfiles -p - ... < pwfile)")
	}

	return readAllNonEmpty(os.Stdin)
}

func readAllNonEmpty(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read from stdin: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("stdin is empty")
	}
	return data, nil
}
