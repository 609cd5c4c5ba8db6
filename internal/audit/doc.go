// Package audit records every transitioned file in an optional audit log.
//
// # Log Format
//
// The log is stored as JSON Lines (one JSON object per line) at the path
// given by --audit-log or the audit_log config key. Each entry contains:
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - Run ID, shared by all entries written by one invocation
//   - Operation name ("lock" or "unlock")
//   - Source and destination paths, bytes read and written
//
// The file is created with mode 0600 since it names every protected file.
//
// # Failure Handling
//
// Audit logging is best-effort. If logging fails (permissions, disk full,
// etc.), the run continues without error.
//
// # Reading Logs
//
// ReadEntries parses the log; `lockfiles log` uses it to display and filter
// entries.
// Malformed entries are silently skipped to handle partial writes.
package audit
