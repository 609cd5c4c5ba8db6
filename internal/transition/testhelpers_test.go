package transition

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/lockfiles/internal/codec"
	"github.com/PolarWolf314/lockfiles/internal/utils"
	"github.com/absfs/absfs"
	"github.com/absfs/memfs"
)

var errInjected = errors.New("injected failure")

func newMemFS(t *testing.T) absfs.FileSystem {
	t.Helper()
	fsys, err := memfs.NewFS()
	if err != nil {
		t.Fatalf("failed to create memfs: %v", err)
	}
	return fsys
}

// newOSFS returns the real filesystem and a fresh directory to work in.
func newOSFS(t *testing.T) (absfs.FileSystem, string) {
	t.Helper()
	return utils.NewOSFileSystem(), t.TempDir()
}

func mustKey(t *testing.T, password string) codec.Key {
	t.Helper()
	key, err := codec.DeriveKey(codec.SchemeDigest, []byte(password))
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	return key
}

func writeFile(t *testing.T, fsys absfs.FileSystem, path string, data []byte) {
	t.Helper()
	f, err := fsys.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	if _, err := f.Write(data); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close %s: %v", path, err)
	}
}

func readFileT(t *testing.T, fsys absfs.FileSystem, path string) []byte {
	t.Helper()
	f, err := fsys.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return data
}

func exists(fsys absfs.FileSystem, path string) bool {
	_, err := fsys.Stat(path)
	return err == nil
}

// listDir returns the names in dir on the real filesystem.
func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir %s: %v", dir, err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func join(dir, name string) string {
	return filepath.Join(dir, name)
}

// faultyFS wraps a filesystem and fails selected operations.
type faultyFS struct {
	absfs.FileSystem

	failWrite  bool
	failSync   bool
	failRename bool
	failRemove bool

	// failStat makes Stat of this path fail with something other than
	// not-exist.
	failStat string
}

func (f *faultyFS) Stat(name string) (os.FileInfo, error) {
	if name == f.failStat {
		return nil, errInjected
	}
	return f.FileSystem.Stat(name)
}

func (f *faultyFS) OpenFile(name string, flag int, perm os.FileMode) (absfs.File, error) {
	file, err := f.FileSystem.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: file, fs: f}, nil
}

func (f *faultyFS) Rename(oldpath, newpath string) error {
	if f.failRename {
		return errInjected
	}
	return f.FileSystem.Rename(oldpath, newpath)
}

func (f *faultyFS) Remove(name string) error {
	if f.failRemove {
		return errInjected
	}
	return f.FileSystem.Remove(name)
}

type faultyFile struct {
	absfs.File
	fs *faultyFS
}

// Write stores half of the data before failing, like a full disk would.
func (f *faultyFile) Write(p []byte) (int, error) {
	if f.fs.failWrite {
		n, _ := f.File.Write(p[:len(p)/2])
		return n, errInjected
	}
	return f.File.Write(p)
}

func (f *faultyFile) Sync() error {
	if f.fs.failSync {
		return errInjected
	}
	return f.File.Sync()
}
