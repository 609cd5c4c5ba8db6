// Package errors provides typed error values for lockfiles.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
//   - File errors: per-path failures (ErrRead, ErrWrite, ErrPathExists)
//   - Crypto errors: wrong password or corrupted blob (ErrDecryption)
//   - Input errors: detected before any file is touched (ErrConflictingModes,
//     ErrPasswordMismatch)
//
// # Usage
//
// Per-file failures are returned as a *FileError that wraps a sentinel:
//
//	return errors.NewFileError("read", path, errors.ErrRead, err)
//
// Handle them in the workflow or CLI layer:
//
//	if errors.Is(err, kerrors.ErrDecryption) {
//	    // Probably the wrong password
//	}
package errors
