package codec

import (
	"crypto/sha256"
	"fmt"
	"io"
	"strings"

	kerrors "github.com/PolarWolf314/lockfiles/internal/errors"
	"golang.org/x/crypto/hkdf"
)

// KeySize is the AES-256 key length.
const KeySize = 32

// Key is a derived AES-256 key. It lives in memory for one run only.
type Key [KeySize]byte

// Wipe zeroes the key.
func (k *Key) Wipe() {
	for i := range k {
		k[i] = 0
	}
}

// KeyScheme selects how a password becomes a Key.
type KeyScheme int

const (
	// SchemeDigest expands the password with HKDF-SHA256.
	SchemeDigest KeyScheme = iota
	// SchemeLegacy truncates or pads the password to 32 bytes, which is
	// what lock_files.py does. Use it to open files written by that script.
	SchemeLegacy
)

const digestInfo = "lockfiles key v1"

func (s KeyScheme) String() string {
	switch s {
	case SchemeDigest:
		return "digest"
	case SchemeLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("KeyScheme(%d)", int(s))
	}
}

// ParseKeyScheme maps a configuration or flag value onto a KeyScheme.
// The empty string selects the default.
func ParseKeyScheme(name string) (KeyScheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "digest":
		return SchemeDigest, nil
	case "legacy":
		return SchemeLegacy, nil
	default:
		return 0, fmt.Errorf("%w: %q (expected digest or legacy)", kerrors.ErrInvalidKeyScheme, name)
	}
}

// DeriveKey turns a password into a Key. It is called once per run.
func DeriveKey(scheme KeyScheme, password []byte) (Key, error) {
	switch scheme {
	case SchemeDigest:
		return digestKey(password)
	case SchemeLegacy:
		return NormalizeKey(password), nil
	default:
		return Key{}, fmt.Errorf("%w: %v", kerrors.ErrInvalidKeyScheme, scheme)
	}
}

// NormalizeKey is the legacy derivation: passwords of 32 bytes or more are
// truncated, shorter ones are padded with Pad.
func NormalizeKey(password []byte) Key {
	var key Key
	if len(password) >= KeySize {
		copy(key[:], password[:KeySize])
		return key
	}
	copy(key[:], Pad(password))
	return key
}

func digestKey(password []byte) (Key, error) {
	var key Key
	r := hkdf.New(sha256.New, password, nil, []byte(digestInfo))
	if _, err := io.ReadFull(r, key[:]); err != nil {
		return Key{}, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}
