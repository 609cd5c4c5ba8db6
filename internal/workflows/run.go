package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/lockfiles/internal/audit"
	"github.com/PolarWolf314/lockfiles/internal/codec"
	kerrors "github.com/PolarWolf314/lockfiles/internal/errors"
	"github.com/PolarWolf314/lockfiles/internal/files"
	logger "github.com/PolarWolf314/lockfiles/internal/logging"
	"github.com/PolarWolf314/lockfiles/internal/transition"
	"github.com/absfs/absfs"
	"github.com/google/uuid"
)

// RunOptions configures a lock or unlock run.
type RunOptions struct {
	// Paths are the files, directories and glob patterns to process, in order.
	Paths []string

	// Mode is the direction of the run, resolved before any file is touched.
	Mode transition.Mode

	// Policy controls suffix, overwrite, continue-on-error and dry run.
	Policy transition.Policy

	// Recurse descends into subdirectories of directory arguments.
	Recurse bool

	// Password is the raw password. The derived key is wiped when Run
	// returns; the password itself belongs to the caller.
	Password []byte

	// KeyScheme selects how Password becomes a key.
	KeyScheme codec.KeyScheme

	// AuditPath enables the JSON Lines audit log when not empty.
	AuditPath string

	// Codec overrides the cipher's random source. The zero value uses
	// crypto/rand.
	Codec codec.Codec
}

// Failure is a per-file error that was turned into a warning.
type Failure struct {
	Path string
	Err  error
}

// RunResult contains the outcome of a run.
type RunResult struct {
	// Mode is the direction the run used.
	Mode transition.Mode

	// Stats is the sum of every per-file outcome.
	Stats transition.Stats

	// Outcomes lists each processed path in order, including files that were
	// written but whose source could not be removed.
	Outcomes []transition.Outcome

	// Failures lists the errors skipped under ContinueOnError.
	Failures []Failure

	// RunID identifies this run in the audit log.
	RunID string

	// DryRun indicates whether this was a dry-run (no files modified).
	DryRun bool
}

// Run locks or unlocks every file named by opts.Paths.
//
// The key is derived once and reused for every file. Files are processed
// sequentially in argument order. When Policy.ContinueOnError is false the
// first failure stops the run and is returned along with the partial result;
// files after it are untouched. Otherwise each failure is logged as a warning
// and recorded in RunResult.Failures.
//
// The audit log at opts.AuditPath is never itself locked or unlocked.
//
// The context is checked between files; a file that has started is always
// finished.
//
// Returns ErrNoFilesGiven if opts.Paths is empty.
// Returns ErrInvalidKeyScheme if opts.KeyScheme is unknown.
func Run(ctx context.Context, fsys absfs.FileSystem, opts RunOptions, log logger.Logger) (*RunResult, error) {
	if len(opts.Paths) == 0 {
		return nil, kerrors.ErrNoFilesGiven
	}

	key, err := codec.DeriveKey(opts.KeyScheme, opts.Password)
	if err != nil {
		return nil, err
	}
	defer key.Wipe()

	enum := &files.Enumerator{FS: fsys, Recurse: opts.Recurse}
	if opts.AuditPath != "" {
		enum.Exclude = []string{opts.AuditPath}
	}
	expanded, err := enum.Expand(opts.Paths)
	if err != nil {
		return nil, err
	}

	result := &RunResult{
		Mode:   opts.Mode,
		Stats:  transition.Stats{Dirs: expanded.Dirs},
		RunID:  uuid.New().String(),
		DryRun: opts.Policy.DryRun,
	}

	tr := &transition.Transitioner{
		FS:     fsys,
		Key:    key,
		Policy: opts.Policy,
		Codec:  opts.Codec,
		Logger: log,
	}
	defer tr.Key.Wipe()

	for _, entry := range expanded.Entries {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("run interrupted: %w", err)
		}

		if entry.Err != nil {
			if err := result.fail(opts.Policy, log, entry.Path, entry.Err); err != nil {
				return result, err
			}
			continue
		}

		out, err := tr.Apply(opts.Mode, entry.Path)
		result.Stats = result.Stats.Add(out.Stats)
		if err == nil || out.Written() {
			result.record(opts, out)
		}
		if err != nil {
			if err := result.fail(opts.Policy, log, entry.Path, err); err != nil {
				return result, err
			}
		}
	}

	return result, nil
}

// record keeps out and audits it when a file was written. A file whose
// source could not be removed afterwards is recorded here and as a failure.
func (r *RunResult) record(opts RunOptions, out transition.Outcome) {
	r.Outcomes = append(r.Outcomes, out)
	if !out.Written() {
		return
	}
	audit.Log(opts.AuditPath, audit.Entry{
		RunID:        r.RunID,
		Operation:    opts.Mode.String(),
		Source:       out.Source,
		Destination:  out.Destination,
		BytesRead:    out.Stats.BytesRead,
		BytesWritten: out.Stats.BytesWritten,
	})
}

// fail records a per-file error. It returns err when the policy says the run
// must stop.
func (r *RunResult) fail(policy transition.Policy, log logger.Logger, path string, err error) error {
	r.Stats.Failed++
	if !policy.ContinueOnError {
		return err
	}
	log.WarnfAlways("%v", err)
	r.Failures = append(r.Failures, Failure{Path: path, Err: err})
	return nil
}
