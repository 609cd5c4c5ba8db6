package transition

import (
	"errors"
	"testing"

	kerrors "github.com/PolarWolf314/lockfiles/internal/errors"
)

func TestResolveMode(t *testing.T) {
	testCases := []struct {
		name    string
		flags   ModeFlags
		want    Mode
		wantErr error
	}{
		{"nothing defaults to lock", ModeFlags{}, ModeLock, nil},
		{"lock", ModeFlags{Lock: true}, ModeLock, nil},
		{"encrypt alias", ModeFlags{Encrypt: true}, ModeLock, nil},
		{"unlock", ModeFlags{Unlock: true}, ModeUnlock, nil},
		{"decrypt alias", ModeFlags{Decrypt: true}, ModeUnlock, nil},
		{"unlock and decrypt agree", ModeFlags{Unlock: true, Decrypt: true}, ModeUnlock, nil},
		{"lock and encrypt agree", ModeFlags{Lock: true, Encrypt: true}, ModeLock, nil},
		{"lock and unlock conflict", ModeFlags{Lock: true, Unlock: true}, 0, kerrors.ErrConflictingModes},
		{"encrypt and decrypt conflict", ModeFlags{Encrypt: true, Decrypt: true}, 0, kerrors.ErrConflictingModes},
		{"lock and decrypt conflict", ModeFlags{Lock: true, Decrypt: true}, 0, kerrors.ErrConflictingModes},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveMode(tc.flags)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("ResolveMode() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestStatsAdd(t *testing.T) {
	a := Stats{Files: 1, Locked: 1, BytesRead: 10, BytesWritten: 64}
	b := Stats{Files: 2, Dirs: 1, Skipped: 1, Failed: 1, BytesRead: 5}

	got := a.Add(b)
	want := Stats{Files: 3, Dirs: 1, Locked: 1, Skipped: 1, Failed: 1, BytesRead: 15, BytesWritten: 64}
	if got != want {
		t.Errorf("Add() = %+v, want %+v", got, want)
	}
	if a.Files != 1 {
		t.Errorf("Add mutated its receiver")
	}
}

func TestPolicyInPlace(t *testing.T) {
	p := Policy{Suffix: ".locked", ContinueOnError: true}.InPlace()
	if p.Suffix != "" || !p.Overwrite || !p.ContinueOnError {
		t.Errorf("InPlace() = %+v", p)
	}
}
