package transition

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	kerrors "github.com/PolarWolf314/lockfiles/internal/errors"
)

func TestDestination(t *testing.T) {
	testCases := []struct {
		name         string
		mode         Mode
		path         string
		suffix       string
		wantDest     string
		wantEligible bool
	}{
		{"lock appends suffix", ModeLock, "/a/file.txt", ".locked", "/a/file.txt.locked", true},
		{"lock stacks suffix", ModeLock, "file.txt.locked", ".locked", "file.txt.locked.locked", true},
		{"lock in place", ModeLock, "file.txt", "", "file.txt", true},
		{"unlock strips suffix", ModeUnlock, "file.txt.locked", ".locked", "file.txt", true},
		{"unlock strips one layer", ModeUnlock, "file.txt.locked.locked", ".locked", "file.txt.locked", true},
		{"unlock ineligible", ModeUnlock, "file.txt", ".locked", "", false},
		{"unlock in place", ModeUnlock, "file.txt", "", "file.txt", true},
		{"unlock custom suffix", ModeUnlock, "file.txt.EncRypt", ".EncRypt", "file.txt", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dest, eligible := Destination(tc.mode, tc.path, tc.suffix)
			if dest != tc.wantDest || eligible != tc.wantEligible {
				t.Errorf("Destination() = (%q, %t), want (%q, %t)", dest, eligible, tc.wantDest, tc.wantEligible)
			}
		})
	}
}

func TestLockUnlock_RoundTripMemFS(t *testing.T) {
	fsys := newMemFS(t)
	plaintext := []byte("API_KEY=abc123\n")
	writeFile(t, fsys, "/file.txt", plaintext)

	tr := &Transitioner{FS: fsys, Key: mustKey(t, "secret"), Policy: DefaultPolicy()}

	out, err := tr.Lock("/file.txt")
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	if out.Action != ActionLocked || out.Destination != "/file.txt.locked" {
		t.Errorf("unexpected outcome: %+v", out)
	}
	if out.Stats.Locked != 1 || out.Stats.BytesRead != int64(len(plaintext)) {
		t.Errorf("unexpected stats: %+v", out.Stats)
	}
	if exists(fsys, "/file.txt") {
		t.Errorf("source still exists after lock")
	}

	locked := readFileT(t, fsys, "/file.txt.locked")
	if bytes.Contains(locked, []byte("abc123")) {
		t.Errorf("locked file contains plaintext")
	}
	if out.Stats.BytesWritten != int64(len(locked)) {
		t.Errorf("BytesWritten = %d, want %d", out.Stats.BytesWritten, len(locked))
	}

	out, err = tr.Unlock("/file.txt.locked")
	if err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
	if out.Action != ActionUnlocked || out.Stats.Unlocked != 1 {
		t.Errorf("unexpected outcome: %+v", out)
	}
	if exists(fsys, "/file.txt.locked") {
		t.Errorf("locked file still exists after unlock")
	}
	if got := readFileT(t, fsys, "/file.txt"); !bytes.Equal(got, plaintext) {
		t.Errorf("unlocked content = %q, want %q", got, plaintext)
	}
}

func TestLock_RepeatedLockingStacksSuffix(t *testing.T) {
	fsys, dir := newOSFS(t)
	path := join(dir, "file.txt")
	writeFile(t, fsys, path, []byte("layered"))

	first := &Transitioner{FS: fsys, Key: mustKey(t, "first"), Policy: DefaultPolicy()}
	second := &Transitioner{FS: fsys, Key: mustKey(t, "second"), Policy: DefaultPolicy()}

	if _, err := first.Lock(path); err != nil {
		t.Fatalf("first Lock failed: %v", err)
	}
	if _, err := second.Lock(path + ".locked"); err != nil {
		t.Fatalf("second Lock failed: %v", err)
	}
	if got := listDir(t, dir); len(got) != 1 || got[0] != "file.txt.locked.locked" {
		t.Fatalf("directory contents = %v, want [file.txt.locked.locked]", got)
	}

	if _, err := second.Unlock(path + ".locked.locked"); err != nil {
		t.Fatalf("outer Unlock failed: %v", err)
	}
	if got := listDir(t, dir); len(got) != 1 || got[0] != "file.txt.locked" {
		t.Fatalf("directory contents = %v, want [file.txt.locked]", got)
	}

	if _, err := first.Unlock(path + ".locked"); err != nil {
		t.Fatalf("inner Unlock failed: %v", err)
	}
	if got := readFileT(t, fsys, path); string(got) != "layered" {
		t.Errorf("content = %q, want %q", got, "layered")
	}
}

func TestLock_OverwriteGuard(t *testing.T) {
	t.Run("refuses existing destination", func(t *testing.T) {
		fsys, dir := newOSFS(t)
		src, dest := join(dir, "a.txt"), join(dir, "a.txt.locked")
		writeFile(t, fsys, src, []byte("source"))
		writeFile(t, fsys, dest, []byte("already here"))

		tr := &Transitioner{FS: fsys, Key: mustKey(t, "secret"), Policy: DefaultPolicy()}
		_, err := tr.Lock(src)
		if !errors.Is(err, kerrors.ErrPathExists) {
			t.Fatalf("expected ErrPathExists, got %v", err)
		}
		var fe *kerrors.FileError
		if !errors.As(err, &fe) || fe.Path != dest {
			t.Errorf("expected a FileError for %q, got %v", dest, err)
		}

		if got := readFileT(t, fsys, src); string(got) != "source" {
			t.Errorf("source modified: %q", got)
		}
		if got := readFileT(t, fsys, dest); string(got) != "already here" {
			t.Errorf("destination modified: %q", got)
		}
	})

	t.Run("overwrite replaces destination", func(t *testing.T) {
		fsys, dir := newOSFS(t)
		src, dest := join(dir, "a.txt"), join(dir, "a.txt.locked")
		writeFile(t, fsys, src, []byte("source"))
		writeFile(t, fsys, dest, []byte("already here"))

		policy := DefaultPolicy()
		policy.Overwrite = true
		tr := &Transitioner{FS: fsys, Key: mustKey(t, "secret"), Policy: policy}

		if _, err := tr.Lock(src); err != nil {
			t.Fatalf("Lock failed: %v", err)
		}
		if exists(fsys, src) {
			t.Errorf("source still exists")
		}
		if got := readFileT(t, fsys, dest); string(got) == "already here" {
			t.Errorf("destination was not replaced")
		}

		if _, err := tr.Unlock(dest); err != nil {
			t.Fatalf("Unlock failed: %v", err)
		}
		if got := readFileT(t, fsys, src); string(got) != "source" {
			t.Errorf("content = %q, want %q", got, "source")
		}
	})
}

func TestUnlock_SkipsIneligible(t *testing.T) {
	fsys := newMemFS(t)
	writeFile(t, fsys, "/notes.txt", []byte("plain"))

	tr := &Transitioner{FS: fsys, Key: mustKey(t, "secret"), Policy: DefaultPolicy()}
	out, err := tr.Unlock("/notes.txt")
	if err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
	if out.Action != ActionSkipped || out.Stats.Skipped != 1 {
		t.Errorf("unexpected outcome: %+v", out)
	}
	if got := readFileT(t, fsys, "/notes.txt"); string(got) != "plain" {
		t.Errorf("skipped file modified: %q", got)
	}
}

func TestInPlace_DoesNotDeleteFile(t *testing.T) {
	fsys, dir := newOSFS(t)
	path := join(dir, "file.txt")
	writeFile(t, fsys, path, []byte("in place content"))

	tr := &Transitioner{FS: fsys, Key: mustKey(t, "secret"), Policy: DefaultPolicy().InPlace()}

	out, err := tr.Lock(path)
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	if out.Destination != path {
		t.Errorf("destination = %q, want %q", out.Destination, path)
	}
	if !exists(fsys, path) {
		t.Fatalf("file was deleted after in-place lock")
	}
	if got := readFileT(t, fsys, path); string(got) == "in place content" {
		t.Fatalf("file was not encrypted")
	}

	out, err = tr.Unlock(path)
	if err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
	if out.Action != ActionUnlocked {
		t.Errorf("action = %v, want unlocked", out.Action)
	}
	if got := readFileT(t, fsys, path); string(got) != "in place content" {
		t.Errorf("content = %q, want %q", got, "in place content")
	}
	if got := listDir(t, dir); len(got) != 1 {
		t.Errorf("unexpected leftovers: %v", got)
	}
}

func TestInPlace_WithoutOverwriteRefuses(t *testing.T) {
	fsys, dir := newOSFS(t)
	path := join(dir, "file.txt")
	writeFile(t, fsys, path, []byte("content"))

	tr := &Transitioner{FS: fsys, Key: mustKey(t, "secret"), Policy: Policy{Suffix: ""}}
	if _, err := tr.Lock(path); !errors.Is(err, kerrors.ErrPathExists) {
		t.Fatalf("expected ErrPathExists, got %v", err)
	}
	if got := readFileT(t, fsys, path); string(got) != "content" {
		t.Errorf("file modified: %q", got)
	}
}

func TestTransition_WriteFailureKeepsSource(t *testing.T) {
	testCases := []struct {
		name string
		set  func(*faultyFS)
	}{
		{"write fails midway", func(f *faultyFS) { f.failWrite = true }},
		{"sync fails", func(f *faultyFS) { f.failSync = true }},
		{"rename fails", func(f *faultyFS) { f.failRename = true }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			base, dir := newOSFS(t)
			fsys := &faultyFS{FileSystem: base}
			tc.set(fsys)

			path := join(dir, "file.txt")
			writeFile(t, base, path, []byte("precious data"))

			tr := &Transitioner{FS: fsys, Key: mustKey(t, "secret"), Policy: DefaultPolicy()}
			out, err := tr.Lock(path)
			if !errors.Is(err, kerrors.ErrWrite) {
				t.Fatalf("expected ErrWrite, got %v", err)
			}
			if out.Stats.Locked != 0 {
				t.Errorf("failed lock was counted: %+v", out.Stats)
			}

			if got := readFileT(t, base, path); string(got) != "precious data" {
				t.Errorf("source modified: %q", got)
			}
			if got := listDir(t, dir); len(got) != 1 || got[0] != "file.txt" {
				t.Errorf("directory contents = %v, want only file.txt", got)
			}
		})
	}
}

func TestTransition_InPlaceWriteFailureKeepsFile(t *testing.T) {
	base, dir := newOSFS(t)
	fsys := &faultyFS{FileSystem: base, failWrite: true}
	path := join(dir, "file.txt")
	writeFile(t, base, path, []byte("precious data"))

	tr := &Transitioner{FS: fsys, Key: mustKey(t, "secret"), Policy: DefaultPolicy().InPlace()}
	if _, err := tr.Lock(path); !errors.Is(err, kerrors.ErrWrite) {
		t.Fatalf("expected ErrWrite, got %v", err)
	}
	if got := readFileT(t, base, path); string(got) != "precious data" {
		t.Errorf("file modified: %q", got)
	}
}

func TestTransition_RemoveFailureReported(t *testing.T) {
	base, dir := newOSFS(t)
	fsys := &faultyFS{FileSystem: base, failRemove: true}
	path := join(dir, "file.txt")
	writeFile(t, base, path, []byte("data"))

	tr := &Transitioner{FS: fsys, Key: mustKey(t, "secret"), Policy: DefaultPolicy()}
	_, err := tr.Lock(path)
	if !errors.Is(err, kerrors.ErrRemove) {
		t.Fatalf("expected ErrRemove, got %v", err)
	}
	if !exists(base, path) || !exists(base, path+".locked") {
		t.Errorf("expected both source and destination to exist")
	}
}

func TestUnlock_WrongPasswordKeepsLockedFile(t *testing.T) {
	fsys, dir := newOSFS(t)
	path := join(dir, "file.txt")
	writeFile(t, fsys, path, []byte("top secret"))

	right := &Transitioner{FS: fsys, Key: mustKey(t, "right"), Policy: DefaultPolicy()}
	if _, err := right.Lock(path); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	locked := readFileT(t, fsys, path+".locked")

	wrong := &Transitioner{FS: fsys, Key: mustKey(t, "wrong"), Policy: DefaultPolicy()}
	_, err := wrong.Unlock(path + ".locked")
	if err == nil {
		t.Skip("wrong key produced valid padding by chance")
	}
	if !errors.Is(err, kerrors.ErrDecryption) {
		t.Fatalf("expected ErrDecryption, got %v", err)
	}

	if exists(fsys, path) {
		t.Errorf("destination was created despite decryption failure")
	}
	if got := readFileT(t, fsys, path+".locked"); !bytes.Equal(got, locked) {
		t.Errorf("locked file modified")
	}
}

func TestUnlock_CorruptedBlob(t *testing.T) {
	fsys := newMemFS(t)
	writeFile(t, fsys, "/file.txt.locked", []byte("not a blob at all"))

	tr := &Transitioner{FS: fsys, Key: mustKey(t, "secret"), Policy: DefaultPolicy()}
	_, err := tr.Unlock("/file.txt.locked")
	if !errors.Is(err, kerrors.ErrDecryption) {
		t.Fatalf("expected ErrDecryption, got %v", err)
	}
	if exists(fsys, "/file.txt") {
		t.Errorf("destination created for corrupted blob")
	}
}

func TestLock_MissingSource(t *testing.T) {
	fsys := newMemFS(t)
	tr := &Transitioner{FS: fsys, Key: mustKey(t, "secret"), Policy: DefaultPolicy()}

	_, err := tr.Lock("/missing.txt")
	if !errors.Is(err, kerrors.ErrRead) {
		t.Fatalf("expected ErrRead, got %v", err)
	}
	if exists(fsys, "/missing.txt.locked") {
		t.Errorf("destination created for missing source")
	}
}

func TestLock_EmptyFile(t *testing.T) {
	fsys, dir := newOSFS(t)
	path := join(dir, "empty")
	writeFile(t, fsys, path, nil)

	tr := &Transitioner{FS: fsys, Key: mustKey(t, "secret"), Policy: DefaultPolicy()}
	if _, err := tr.Lock(path); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	if _, err := tr.Unlock(path + ".locked"); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
	if got := readFileT(t, fsys, path); len(got) != 0 {
		t.Errorf("content = %q, want empty", got)
	}
}

func TestDryRun_TouchesNothing(t *testing.T) {
	fsys, dir := newOSFS(t)
	path := join(dir, "file.txt")
	writeFile(t, fsys, path, []byte("content"))

	policy := DefaultPolicy()
	policy.DryRun = true
	tr := &Transitioner{FS: fsys, Key: mustKey(t, "secret"), Policy: policy}

	out, err := tr.Lock(path)
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	if out.Action != ActionPlanned || out.Destination != path+".locked" {
		t.Errorf("unexpected outcome: %+v", out)
	}
	if got := listDir(t, dir); len(got) != 1 || got[0] != "file.txt" {
		t.Errorf("dry run changed the directory: %v", got)
	}
}

func TestApply_CountsFiles(t *testing.T) {
	fsys := newMemFS(t)
	writeFile(t, fsys, "/a.txt", []byte("a"))

	tr := &Transitioner{FS: fsys, Key: mustKey(t, "secret"), Policy: DefaultPolicy()}

	out, err := tr.Apply(ModeLock, "/a.txt")
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if out.Stats.Files != 1 || out.Stats.Locked != 1 {
		t.Errorf("unexpected stats: %+v", out.Stats)
	}

	out, err = tr.Apply(ModeUnlock, "/b.txt")
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if out.Stats.Files != 1 || out.Stats.Skipped != 1 {
		t.Errorf("unexpected stats: %+v", out.Stats)
	}

	if _, err := tr.Apply(Mode(9), "/a.txt.locked"); err == nil || !strings.Contains(err.Error(), "unknown mode") {
		t.Errorf("expected unknown mode error, got %v", err)
	}
}

func TestLock_DestinationStatFailure(t *testing.T) {
	base, dir := newOSFS(t)
	src := join(dir, "a.txt")
	writeFile(t, base, src, []byte("alpha"))

	fsys := &faultyFS{FileSystem: base, failStat: src + ".locked"}
	tr := &Transitioner{FS: fsys, Key: mustKey(t, "secret"), Policy: DefaultPolicy()}

	_, err := tr.Lock(src)
	if !errors.Is(err, kerrors.ErrRead) || !errors.Is(err, errInjected) {
		t.Fatalf("expected ErrRead wrapping the stat failure, got %v", err)
	}
	if !bytes.Equal(readFileT(t, base, src), []byte("alpha")) {
		t.Errorf("source was modified")
	}
	if exists(base, src+".locked") {
		t.Errorf("destination was written after a failed existence check")
	}
}
