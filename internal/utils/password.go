package utils

import (
	"bytes"
	"crypto/subtle"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	kerrors "github.com/PolarWolf314/lockfiles/internal/errors"
	logger "github.com/PolarWolf314/lockfiles/internal/logging"
)

// PasswordOptions lists the places a password can come from. The first one
// set wins: Literal, then File, then an interactive prompt.
type PasswordOptions struct {
	// Literal is the password given with -P.
	Literal string

	// File is the password file given with -p. "-" reads it from stdin.
	File string

	// Prompt reads one password without echo. Nil uses ReadPassphraseAny.
	Prompt func(prompt string) ([]byte, error)
}

// GetPassword obtains the password for a run. An empty password is allowed
// but always produces a warning.
func GetPassword(opts PasswordOptions, log logger.Logger) ([]byte, error) {
	var (
		password []byte
		err      error
	)

	switch {
	case opts.Literal != "":
		password = []byte(opts.Literal)
	case opts.File == "-":
		var data []byte
		data, err = ReadStdin()
		if err == nil {
			password, err = ParsePasswordFile(data)
		}
	case opts.File != "":
		password, err = ReadPasswordFile(opts.File, log)
	default:
		prompt := opts.Prompt
		if prompt == nil {
			prompt = ReadPassphraseAny
		}
		password, err = PromptPassword(prompt)
	}
	if err != nil {
		return nil, err
	}

	if len(password) == 0 {
		log.WarnfAlways("the password is empty")
	}
	return password, nil
}

// PromptPassword asks for the password twice and requires both answers to
// match.
func PromptPassword(prompt func(string) ([]byte, error)) ([]byte, error) {
	first, err := prompt("Password: ")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrNoPassword, err)
	}

	second, err := prompt("Re-enter password: ")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrNoPassword, err)
	}

	if subtle.ConstantTimeCompare(first, second) != 1 {
		return nil, kerrors.ErrPasswordMismatch
	}
	return first, nil
}

// ReadPasswordFile reads the password from path. A leading ~/ is expanded.
// Files readable by group or others are accepted with a warning.
func ReadPasswordFile(path string, log logger.Logger) ([]byte, error) {
	path = ExpandHome(path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: password file %s does not exist", kerrors.ErrNoPassword, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat password file: %w", err)
	}

	if runtime.GOOS != "windows" && info.Mode().Perm()&0077 != 0 {
		log.WarnfAlways("password file %s has permissions %04o, it should be 0600", path, info.Mode().Perm())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read password file: %w", err)
	}

	password, err := ParsePasswordFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return password, nil
}

// ParsePasswordFile returns the first line that is neither blank nor a
// comment, without surrounding whitespace.
func ParsePasswordFile(data []byte) ([]byte, error) {
	for _, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		return line, nil
	}
	return nil, fmt.Errorf("%w: no password line found", kerrors.ErrNoPassword)
}

// ExpandHome replaces a leading ~/ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
