package transition

import (
	"fmt"

	kerrors "github.com/PolarWolf314/lockfiles/internal/errors"
)

// Mode is the direction of a run. Exactly one mode applies to every file.
type Mode int

const (
	ModeLock Mode = iota
	ModeUnlock
)

func (m Mode) String() string {
	switch m {
	case ModeLock:
		return "lock"
	case ModeUnlock:
		return "unlock"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ModeFlags are the raw command-line switches. Encrypt and Decrypt are the
// deprecated spellings of Lock and Unlock.
type ModeFlags struct {
	Lock    bool
	Unlock  bool
	Encrypt bool
	Decrypt bool
}

// ResolveMode maps the switches onto a single Mode. Asking for both
// directions is an error; asking for neither means lock.
func ResolveMode(f ModeFlags) (Mode, error) {
	lock := f.Lock || f.Encrypt
	unlock := f.Unlock || f.Decrypt

	switch {
	case lock && unlock:
		return 0, kerrors.ErrConflictingModes
	case unlock:
		return ModeUnlock, nil
	default:
		return ModeLock, nil
	}
}
