package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	kerrors "github.com/PolarWolf314/lockfiles/internal/errors"
	"github.com/absfs/absfs"
	"github.com/bmatcuk/doublestar/v4"
)

var errNotRegular = errors.New("not a regular file")

// Entry is one file to transition. Err is set when an argument could not be
// expanded; Path then holds the argument itself.
type Entry struct {
	Path string
	Err  error
}

// Result is the expansion of a list of arguments.
type Result struct {
	Entries []Entry

	// Dirs counts the directory arguments, including directories matched by
	// a glob.
	Dirs int
}

// Enumerator turns command line arguments into an ordered list of files.
type Enumerator struct {
	FS      absfs.FileSystem
	Recurse bool

	// Exclude lists files that are never returned, such as the audit log of
	// the run doing the expansion.
	Exclude []string
}

// Expand resolves args in order. Files are taken as given, directories are
// listed (recursively when Recurse is set) and glob patterns are matched
// with doublestar. Paths are never deduplicated: a file named twice is
// processed twice, like the arguments say.
func (e *Enumerator) Expand(args []string) (Result, error) {
	if len(args) == 0 {
		return Result{}, kerrors.ErrNoFilesGiven
	}

	var res Result
	for _, arg := range args {
		e.expandArg(arg, &res)
	}
	return res, nil
}

func (e *Enumerator) expandArg(arg string, res *Result) {
	info, err := e.FS.Stat(arg)
	if err == nil {
		e.expandPath(arg, info, res)
		return
	}

	if isGlob(arg) {
		matches, gerr := e.glob(arg)
		if gerr != nil {
			res.Entries = append(res.Entries, Entry{Path: arg, Err: gerr})
			return
		}
		if len(matches) > 0 {
			for _, m := range matches {
				mi, err := e.FS.Stat(m)
				if err != nil || !(mi.IsDir() || mi.Mode().IsRegular()) {
					continue
				}
				e.expandPath(m, mi, res)
			}
			return
		}
	}

	if errors.Is(err, os.ErrNotExist) || isGlob(arg) {
		res.Entries = append(res.Entries, Entry{Path: arg, Err: kerrors.NewFileError("stat", arg, kerrors.ErrFileNotFound, nil)})
		return
	}
	res.Entries = append(res.Entries, Entry{Path: arg, Err: kerrors.NewFileError("stat", arg, kerrors.ErrRead, err)})
}

func (e *Enumerator) expandPath(path string, info os.FileInfo, res *Result) {
	if !info.IsDir() {
		switch {
		case e.excluded(path):
		case !info.Mode().IsRegular():
			res.Entries = append(res.Entries, Entry{Path: path, Err: kerrors.NewFileError("stat", path, kerrors.ErrRead, errNotRegular)})
		default:
			res.Entries = append(res.Entries, Entry{Path: path})
		}
		return
	}

	res.Dirs++
	if err := e.walk(path, res); err != nil {
		res.Entries = append(res.Entries, Entry{Path: path, Err: kerrors.NewFileError("list", path, kerrors.ErrRead, err)})
	}
}

// walk emits the regular files of dir, then descends into its
// subdirectories when recursing. Hidden names are skipped at every level.
func (e *Enumerator) walk(dir string, res *Result) error {
	infos, err := e.readDir(dir)
	if err != nil {
		return err
	}

	var subdirs []string
	for _, fi := range infos {
		name := fi.Name()
		if isHidden(name) {
			continue
		}
		path := filepath.Join(dir, name)
		switch {
		case fi.IsDir():
			subdirs = append(subdirs, path)
		case fi.Mode().IsRegular() && !e.excluded(path):
			res.Entries = append(res.Entries, Entry{Path: path})
		}
	}

	if !e.Recurse {
		return nil
	}

	for _, sub := range subdirs {
		if err := e.walk(sub, res); err != nil {
			res.Entries = append(res.Entries, Entry{Path: sub, Err: kerrors.NewFileError("list", sub, kerrors.ErrRead, err)})
		}
	}
	return nil
}

// readDir returns the entries of dir sorted case-insensitively.
func (e *Enumerator) readDir(dir string) ([]os.FileInfo, error) {
	f, err := e.FS.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	infos, err := f.Readdir(-1)
	if err != nil {
		return nil, err
	}

	sort.Slice(infos, func(i, j int) bool {
		return lessFold(infos[i].Name(), infos[j].Name())
	})
	return infos, nil
}

// glob matches pattern with doublestar, rooted at the pattern's static
// prefix so that only the directories the pattern can reach are listed.
// Hidden entries are only matched when the pattern names them, and a "**"
// pattern only matches files since every directory below it would match as
// well.
func (e *Enumerator) glob(pattern string) ([]string, error) {
	slashed := filepath.ToSlash(pattern)
	if !doublestar.ValidatePattern(slashed) {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	for strings.HasPrefix(slashed, "./") {
		slashed = slashed[2:]
	}
	base, rel := doublestar.SplitPattern(slashed)
	root := filepath.FromSlash(base)
	if _, err := e.FS.Stat(root); err != nil {
		return nil, nil
	}

	var opts []doublestar.GlobOption
	if strings.Contains(rel, "**") {
		opts = append(opts, doublestar.WithFilesOnly())
	}
	gfs := globFS{e: e, root: root, withHidden: strings.Contains("/"+rel, "/.")}

	found, err := doublestar.Glob(gfs, rel, opts...)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}

	matches := make([]string, 0, len(found))
	for _, m := range found {
		matches = append(matches, filepath.Join(root, filepath.FromSlash(m)))
	}
	sort.Slice(matches, func(i, j int) bool {
		return lessFold(matches[i], matches[j])
	})
	return matches, nil
}

// globFS presents the tree below root as an fs.FS. Listings come from the
// enumerator's filesystem and leave out hidden names unless withHidden.
type globFS struct {
	e          *Enumerator
	root       string
	withHidden bool
}

func (g globFS) path(op, name string) (string, error) {
	if !fs.ValidPath(name) {
		return "", &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}
	return filepath.Join(g.root, filepath.FromSlash(name)), nil
}

func (g globFS) Open(name string) (fs.File, error) {
	p, err := g.path("open", name)
	if err != nil {
		return nil, err
	}
	f, err := g.e.FS.Open(p)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (g globFS) Stat(name string) (fs.FileInfo, error) {
	p, err := g.path("stat", name)
	if err != nil {
		return nil, err
	}
	return g.e.FS.Stat(p)
}

func (g globFS) ReadDir(name string) ([]fs.DirEntry, error) {
	p, err := g.path("readdir", name)
	if err != nil {
		return nil, err
	}
	infos, err := g.e.readDir(p)
	if err != nil {
		return nil, err
	}

	entries := make([]fs.DirEntry, 0, len(infos))
	for _, fi := range infos {
		if isHidden(fi.Name()) && !g.withHidden {
			continue
		}
		entries = append(entries, fs.FileInfoToDirEntry(fi))
	}
	return entries, nil
}

// excluded reports whether path names one of e.Exclude.
func (e *Enumerator) excluded(path string) bool {
	if len(e.Exclude) == 0 {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, x := range e.Exclude {
		if xa, err := filepath.Abs(x); err == nil && xa == abs {
			return true
		}
	}
	return false
}

func isGlob(arg string) bool {
	return strings.ContainsAny(arg, "*?[{")
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// lessFold orders case-insensitively, falling back to byte order so that
// the result does not depend on the order the filesystem returned.
func lessFold(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}
