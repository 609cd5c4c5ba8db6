package transition

import (
	"fmt"
	"os"
	"strings"

	"github.com/PolarWolf314/lockfiles/internal/codec"
	kerrors "github.com/PolarWolf314/lockfiles/internal/errors"
	logger "github.com/PolarWolf314/lockfiles/internal/logging"
	"github.com/absfs/absfs"
)

// Action is what happened to a single path.
type Action int

const (
	ActionLocked Action = iota
	ActionUnlocked
	ActionSkipped
	ActionPlanned
)

func (a Action) String() string {
	switch a {
	case ActionLocked:
		return "locked"
	case ActionUnlocked:
		return "unlocked"
	case ActionSkipped:
		return "skipped"
	case ActionPlanned:
		return "planned"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Outcome describes one transitioned path.
type Outcome struct {
	Mode        Mode
	Source      string
	Destination string
	Action      Action
	Stats       Stats
}

// Written reports whether the destination was written, even if removing the
// source failed afterwards.
func (o Outcome) Written() bool {
	return o.Stats.Locked+o.Stats.Unlocked > 0
}

// Transitioner locks and unlocks single files. The key is derived once by
// the caller and reused for every path.
type Transitioner struct {
	FS     absfs.FileSystem
	Key    codec.Key
	Policy Policy
	Codec  codec.Codec
	Logger logger.Logger
}

// Destination computes where path goes in mode. For unlock, eligible is false
// when path does not carry the suffix; an empty suffix makes every path
// eligible and maps it onto itself.
func Destination(mode Mode, path, suffix string) (dest string, eligible bool) {
	if mode == ModeLock {
		return path + suffix, true
	}
	if !strings.HasSuffix(path, suffix) {
		return "", false
	}
	return strings.TrimSuffix(path, suffix), true
}

// Apply transitions path in mode and counts it as one processed file.
func (t *Transitioner) Apply(mode Mode, path string) (Outcome, error) {
	var (
		out Outcome
		err error
	)
	switch mode {
	case ModeLock:
		out, err = t.Lock(path)
	case ModeUnlock:
		out, err = t.Unlock(path)
	default:
		return Outcome{}, fmt.Errorf("unknown mode %v", mode)
	}
	out.Stats.Files++
	return out, err
}

// Lock encrypts path into path+suffix and removes path once the locked copy
// is safely on disk.
func (t *Transitioner) Lock(path string) (Outcome, error) {
	dest, _ := Destination(ModeLock, path, t.Policy.Suffix)
	t.Logger.Debugf("lock %q --> %q", path, dest)

	return t.transform(ModeLock, path, dest, func(data []byte) ([]byte, error) {
		return t.Codec.Encrypt(t.Key, data)
	})
}

// Unlock decrypts a path carrying the suffix into the path without it.
// Paths without the suffix are skipped, which is not an error.
func (t *Transitioner) Unlock(path string) (Outcome, error) {
	dest, eligible := Destination(ModeUnlock, path, t.Policy.Suffix)
	if !eligible {
		t.Logger.Debugf("skip %q", path)
		return Outcome{
			Mode:   ModeUnlock,
			Source: path,
			Action: ActionSkipped,
			Stats:  Stats{Skipped: 1},
		}, nil
	}
	t.Logger.Debugf("unlock %q --> %q", path, dest)

	return t.transform(ModeUnlock, path, dest, func(data []byte) ([]byte, error) {
		return t.Codec.Decrypt(t.Key, data)
	})
}

// transform runs the read, convert, write, remove sequence. The source is
// removed only after the destination has been renamed into place, and never
// when both names are the same.
func (t *Transitioner) transform(mode Mode, path, dest string, convert func([]byte) ([]byte, error)) (Outcome, error) {
	op := mode.String()
	out := Outcome{Mode: mode, Source: path, Destination: dest}

	if !t.Policy.Overwrite {
		_, err := t.FS.Stat(dest)
		switch {
		case err == nil:
			return out, kerrors.NewFileError(op, dest, kerrors.ErrPathExists, nil)
		case !os.IsNotExist(err):
			return out, kerrors.NewFileError(op, dest, kerrors.ErrRead, err)
		}
	}

	if t.Policy.DryRun {
		out.Action = ActionPlanned
		return out, nil
	}

	data, perm, err := readFile(t.FS, path)
	if err != nil {
		return out, kerrors.NewFileError(op, path, kerrors.ErrRead, err)
	}

	converted, err := convert(data)
	if err != nil {
		return out, kerrors.NewFileError(op, path, nil, err)
	}

	if err := writeFileAtomic(t.FS, dest, converted, perm); err != nil {
		return out, kerrors.NewFileError(op, dest, kerrors.ErrWrite, err)
	}

	out.Stats.BytesRead = int64(len(data))
	out.Stats.BytesWritten = int64(len(converted))
	if mode == ModeLock {
		out.Action = ActionLocked
		out.Stats.Locked = 1
	} else {
		out.Action = ActionUnlocked
		out.Stats.Unlocked = 1
	}

	if dest != path {
		if err := t.FS.Remove(path); err != nil {
			return out, kerrors.NewFileError(op, path, kerrors.ErrRemove, err)
		}
	}

	return out, nil
}
