package errors

import (
	"errors"
	"fmt"
)

// Per-file errors. Each one is recoverable under --cont: the file is left
// untouched and the run moves on to the next path.
var (
	// ErrRead indicates the source file could not be read.
	ErrRead = errors.New("failed to read file")

	// ErrWrite indicates the destination file could not be written.
	ErrWrite = errors.New("failed to write file")

	// ErrRemove indicates the source could not be removed after the
	// destination was written. Both files are left on disk.
	ErrRemove = errors.New("failed to remove source file")

	// ErrPathExists indicates the destination exists and overwriting is disabled.
	ErrPathExists = errors.New("file exists, cannot continue")

	// ErrFileNotFound indicates a path argument does not exist.
	ErrFileNotFound = errors.New("file not found")
)

// Cryptographic errors indicate failures during encryption or decryption operations.
var (
	// ErrDecryption indicates a malformed blob or a wrong password.
	ErrDecryption = errors.New("failed to decrypt file")

	// ErrEncryption indicates file encryption failed.
	ErrEncryption = errors.New("failed to encrypt file")

	// ErrInvalidKeyScheme indicates an unknown key derivation scheme name.
	ErrInvalidKeyScheme = errors.New("invalid key scheme")
)

// Input errors are detected before any file is touched.
var (
	// ErrPasswordMismatch indicates the two prompted passwords differ.
	ErrPasswordMismatch = errors.New("passwords did not match")

	// ErrNoPassword indicates no password could be obtained.
	ErrNoPassword = errors.New("password not found")

	// ErrConflictingModes indicates lock and unlock were both requested.
	ErrConflictingModes = errors.New("lock and unlock are mutually exclusive")

	// ErrNoFilesGiven indicates no file or directory arguments were given.
	ErrNoFilesGiven = errors.New("no files or directories specified")

	// ErrInvalidConfig indicates the configuration file is malformed.
	ErrInvalidConfig = errors.New("configuration is invalid")

	// ErrNoAuditLog indicates no audit log path was configured.
	ErrNoAuditLog = errors.New("no audit log configured")

	// ErrInvalidDateFormat indicates a date filter is not YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("invalid date format")
)

// FileError records the operation and path that failed along with its cause.
// The cause usually wraps one of the sentinel errors above, so callers keep
// using errors.Is.
type FileError struct {
	Op   string // "lock", "unlock", "read", "write", "remove", ...
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// NewFileError wraps cause with kind so that errors.Is matches both.
func NewFileError(op, path string, kind, cause error) error {
	var err error
	switch {
	case cause == nil:
		err = kind
	case kind == nil:
		err = cause
	default:
		err = fmt.Errorf("%w: %w", kind, cause)
	}
	return &FileError{Op: op, Path: path, Err: err}
}
