// Package workflows provides high-level orchestration for lockfiles commands.
//
// Workflows coordinate multiple operations across packages (codec, files,
// transition, audit) to implement complete user-facing features, independent
// of CLI concerns like flag parsing, spinners, and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Obtains the password
//   - Calls Run or Log
//   - Formats the result for display
//
// Run handles everything else: deriving the key, expanding arguments into
// files, applying the continuation policy and recording audit entries. Log
// reads those entries back with filters.
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching:
//
//	result, err := workflows.Run(ctx, fsys, opts, log)
//	if errors.Is(err, kerrors.ErrPathExists) {
//	    // Suggest --overwrite
//	}
//
// # Context Usage
//
// Run accepts a context.Context as its first parameter. Cancellation is
// observed between files, never in the middle of one.
package workflows
