package workflows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PolarWolf314/lockfiles/internal/audit"
	kerrors "github.com/PolarWolf314/lockfiles/internal/errors"
	"github.com/PolarWolf314/lockfiles/internal/utils"
)

const dateLayout = "2006-01-02"

// LogOptions configures the log workflow.
type LogOptions struct {
	// Path is the audit log to read.
	Path string

	// Limit is the maximum number of entries to return. 0 means no limit.
	Limit int

	// Reverse orders entries from most recent to oldest.
	Reverse bool

	// Operations filters by operation, comma-separated ("lock,unlock").
	Operations string

	// RunID keeps only the entries of one run.
	RunID string

	// Since and Until bound the entry dates, inclusive (YYYY-MM-DD).
	Since string
	Until string
}

// LogResult contains the filtered audit entries.
type LogResult struct {
	Entries []audit.Entry

	// TotalEntriesBeforeFilter is the count of entries before filtering.
	TotalEntriesBeforeFilter int
}

// Log reads and filters the audit log. A log that does not exist yet has no
// entries.
//
// Returns ErrNoAuditLog if opts.Path is empty.
// Returns ErrInvalidDateFormat if Since or Until cannot be parsed.
func Log(ctx context.Context, opts LogOptions) (*LogResult, error) {
	if opts.Path == "" {
		return nil, kerrors.ErrNoAuditLog
	}

	var since, until time.Time
	if opts.Since != "" {
		t, err := time.Parse(dateLayout, opts.Since)
		if err != nil {
			return nil, fmt.Errorf("%w: --since %q, use YYYY-MM-DD", kerrors.ErrInvalidDateFormat, opts.Since)
		}
		since = t
	}
	if opts.Until != "" {
		t, err := time.Parse(dateLayout, opts.Until)
		if err != nil {
			return nil, fmt.Errorf("%w: --until %q, use YYYY-MM-DD", kerrors.ErrInvalidDateFormat, opts.Until)
		}
		until = t.Add(24*time.Hour - time.Nanosecond)
	}

	entries, err := audit.ReadEntries(utils.ExpandHome(opts.Path))
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}

	result := &LogResult{TotalEntriesBeforeFilter: len(entries)}

	ops := map[string]bool{}
	for _, op := range strings.Split(opts.Operations, ",") {
		if op = strings.ToLower(strings.TrimSpace(op)); op != "" {
			ops[op] = true
		}
	}

	var filtered []audit.Entry
	for _, e := range entries {
		if len(ops) > 0 && !ops[strings.ToLower(e.Operation)] {
			continue
		}
		if opts.RunID != "" && e.RunID != opts.RunID {
			continue
		}
		if !since.IsZero() || !until.IsZero() {
			ts, ok := entryTime(e)
			if !ok || (!since.IsZero() && ts.Before(since)) || (!until.IsZero() && ts.After(until)) {
				continue
			}
		}
		filtered = append(filtered, e)
	}

	// The limit keeps the most recent entries in either order.
	if opts.Limit > 0 && len(filtered) > opts.Limit {
		filtered = filtered[len(filtered)-opts.Limit:]
	}
	if opts.Reverse {
		for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		}
	}

	result.Entries = filtered
	return result, nil
}

func entryTime(e audit.Entry) (time.Time, bool) {
	t, err := time.Parse(audit.TimestampFormat, e.Timestamp)
	if err != nil {
		t, err = time.Parse(time.RFC3339, e.Timestamp)
	}
	return t, err == nil
}

// FormatDateTime renders an entry timestamp as local "YYYY-MM-DD HH:MM:SS".
// Unparseable timestamps are returned unchanged.
func FormatDateTime(ts string) string {
	t, ok := entryTime(audit.Entry{Timestamp: ts})
	if !ok {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// FormatDetails describes what an entry did, e.g. "a.txt -> a.txt.locked (5 -> 64 bytes)".
func FormatDetails(e audit.Entry) string {
	return fmt.Sprintf("%s -> %s (%s -> %s bytes)", e.Source, e.Destination,
		utils.FormatCount(e.BytesRead), utils.FormatCount(e.BytesWritten))
}
