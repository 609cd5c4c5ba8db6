package utils

import (
	"io/fs"
	"os"
	"time"

	"github.com/absfs/absfs"
)

// OSFileSystem is an absfs.FileSystem backed directly by the os package.
// Paths are native paths, used as given.
type OSFileSystem struct{}

var _ absfs.FileSystem = OSFileSystem{}

// NewOSFileSystem returns the filesystem used outside of tests.
func NewOSFileSystem() absfs.FileSystem {
	return OSFileSystem{}
}

func (OSFileSystem) OpenFile(name string, flag int, perm os.FileMode) (absfs.File, error) {
	return os.OpenFile(name, flag, perm)
}

func (OSFileSystem) Open(name string) (absfs.File, error) {
	return os.Open(name)
}

func (OSFileSystem) Create(name string) (absfs.File, error) {
	return os.Create(name)
}

func (OSFileSystem) Mkdir(name string, perm os.FileMode) error {
	return os.Mkdir(name, perm)
}

func (OSFileSystem) MkdirAll(name string, perm os.FileMode) error {
	return os.MkdirAll(name, perm)
}

func (OSFileSystem) Remove(name string) error {
	return os.Remove(name)
}

func (OSFileSystem) RemoveAll(name string) error {
	return os.RemoveAll(name)
}

func (OSFileSystem) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

func (OSFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (OSFileSystem) Chmod(name string, mode os.FileMode) error {
	return os.Chmod(name, mode)
}

func (OSFileSystem) Chtimes(name string, atime, mtime time.Time) error {
	return os.Chtimes(name, atime, mtime)
}

func (OSFileSystem) Chown(name string, uid, gid int) error {
	return os.Chown(name, uid, gid)
}

func (OSFileSystem) Truncate(name string, size int64) error {
	return os.Truncate(name, size)
}

func (OSFileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

func (OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (OSFileSystem) Sub(dir string) (fs.FS, error) {
	return os.DirFS(dir), nil
}

func (OSFileSystem) Separator() uint8 {
	return os.PathSeparator
}

func (OSFileSystem) ListSeparator() uint8 {
	return os.PathListSeparator
}

func (OSFileSystem) Chdir(dir string) error {
	return os.Chdir(dir)
}

func (OSFileSystem) Getwd() (string, error) {
	return os.Getwd()
}

func (OSFileSystem) TempDir() string {
	return os.TempDir()
}
