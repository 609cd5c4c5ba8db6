// Package utils provides shared helpers for the lockfiles command.
//
// # Filesystem
//
// OSFileSystem adapts the os package to absfs.FileSystem so that the
// transition and files packages can run against the real disk or an
// in-memory filesystem in tests.
//
// # Passwords
//
// GetPassword resolves the password from -P, -p (a file, or "-" for stdin)
// or an interactive prompt that asks twice. Password files use their first
// line that is neither blank nor a comment.
//
// # Terminal Utilities
//
// ReadPassphrase and ReadPassphraseFromTTY read without echo using
// golang.org/x/term. DisableCoreDumps keeps the password out of core
// files on unix systems.
//
// # String Utilities
//
// FormatPaths and FormatCount format paths and statistics for output.
package utils
