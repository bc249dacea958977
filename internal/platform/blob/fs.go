package blob

import (
	"context"
	stderrs "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	perr "brreg/internal/platform/errors"
)

// FS stores keys as files below a root directory
// Writes go to a temp file in the target directory and are renamed into place
type FS struct {
	root string
}

// NewFilesystem returns a store rooted at root; the directory is created on first Put
func NewFilesystem(root string) (*FS, error) {
	if strings.TrimSpace(root) == "" {
		return nil, perr.Configf("fs blob root required")
	}
	return &FS{root: filepath.Clean(root)}, nil
}

// Driver implements Store
func (s *FS) Driver() Driver { return DriverFilesystem }

// Location implements Store
func (s *FS) Location() string { return s.root }

func (s *FS) pathFor(key string) (string, error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(k)), nil
}

// Get implements Store
func (s *FS) Get(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if stderrs.Is(err, fs.ErrNotExist) {
		return nil, perr.NotFoundf("%s not found", p)
	}
	if err != nil {
		return nil, perr.IOf(err, "open %s", p)
	}
	return f, nil
}

// Put implements Store
func (s *FS) Put(_ context.Context, key string, r io.Reader) error {
	p, err := s.pathFor(key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return perr.IOf(err, "mkdir %s", dir)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return perr.IOf(err, "create temp in %s", dir)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return perr.IOf(err, "write %s", p)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return perr.IOf(err, "sync %s", p)
	}
	if err := tmp.Close(); err != nil {
		return perr.IOf(err, "close %s", p)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return perr.IOf(err, "chmod %s", p)
	}
	// atomically move into place
	if err := os.Rename(tmp.Name(), p); err != nil {
		return perr.IOf(err, "rename into %s", p)
	}
	return nil
}

// Exists implements Store
func (s *FS) Exists(_ context.Context, key string) (bool, error) {
	p, err := s.pathFor(key)
	if err != nil {
		return false, err
	}
	st, err := os.Stat(p)
	if stderrs.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, perr.IOf(err, "stat %s", p)
	}
	return st.Mode().IsRegular(), nil
}

// List implements Store; a missing root lists nothing
func (s *FS) List(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == s.root && stderrs.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if hidden(key) {
			return nil
		}
		if prefix == "" || strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, perr.IOf(err, "list %s", s.root)
	}
	sort.Strings(keys)
	return keys, nil
}

// Lock implements Store with an exclusively created lock file
func (s *FS) Lock(_ context.Context, owner string) (Release, error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return nil, perr.IOf(err, "mkdir %s", s.root)
	}
	p := filepath.Join(s.root, LockKey)
	f, err := os.OpenFile(p, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if stderrs.Is(err, fs.ErrExist) {
		holder, _ := os.ReadFile(p)
		return nil, lockConflict(s.root, string(holder))
	}
	if err != nil {
		return nil, perr.IOf(err, "create %s", p)
	}
	_, werr := f.WriteString(owner)
	cerr := f.Close()
	if err := stderrs.Join(werr, cerr); err != nil {
		_ = os.Remove(p)
		return nil, perr.IOf(err, "write %s", p)
	}
	return func() error {
		if err := os.Remove(p); err != nil && !stderrs.Is(err, fs.ErrNotExist) {
			return perr.IOf(err, "remove %s", p)
		}
		return nil
	}, nil
}
