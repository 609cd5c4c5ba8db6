package transition

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/absfs/absfs"
	"github.com/google/uuid"
)

// readFile reads the whole of path.
func readFile(fsys absfs.FileSystem, path string) ([]byte, os.FileMode, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return nil, 0, err
	}
	if info.IsDir() {
		return nil, 0, fmt.Errorf("%s is a directory", path)
	}
	if !info.Mode().IsRegular() {
		return nil, 0, fmt.Errorf("%s is not a regular file", path)
	}

	f, err := fsys.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, 0, err
	}

	perm := info.Mode().Perm()
	if perm == 0 {
		perm = 0600
	}
	return data, perm, nil
}

// tempName returns a hidden sibling of dest so that an interrupted run never
// leaves a half-written file under a visible name.
func tempName(dest string) string {
	dir, base := filepath.Split(dest)
	return filepath.Join(dir, "."+base+"."+uuid.New().String()+".tmp")
}

// writeFileAtomic writes data to a temporary sibling, syncs it and renames it
// over dest. On failure the temporary file is removed and dest is untouched.
func writeFileAtomic(fsys absfs.FileSystem, dest string, data []byte, perm os.FileMode) error {
	tmp := tempName(dest)

	f, err := fsys.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if err := writeAndClose(f, data); err != nil {
		_ = fsys.Remove(tmp)
		return err
	}

	if err := fsys.Rename(tmp, dest); err != nil {
		_ = fsys.Remove(tmp)
		return err
	}

	return nil
}

func writeAndClose(f absfs.File, data []byte) error {
	n, err := f.Write(data)
	if err == nil && n < len(data) {
		err = io.ErrShortWrite
	}
	if err != nil {
		f.Close()
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
