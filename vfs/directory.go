package vfs

import (
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// DirectoryDriver exposes an OS directory. Elements are resolved relative
// to it and can never point outside of it.
type DirectoryDriver struct {
	root string
}

func NewDirectoryDriver(root string) *DirectoryDriver {
	return &DirectoryDriver{root: root}
}

func (dd *DirectoryDriver) Name() string      { return filepath.Base(dd.root) }
func (dd *DirectoryDriver) IsDirectory() bool { return true }
func (dd *DirectoryDriver) Path() string      { return dd.root }

func (dd *DirectoryDriver) List() ([]string, error) {
	entries, err := os.ReadDir(dd.root)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot list directory '%s'", dd.root)
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	sort.Strings(names)
	return names, nil
}

func (dd *DirectoryDriver) resolve(name string) (string, error) {
	if strings.Contains(name, "\\") {
		return "", errors.Errorf("Invalid element name %q", name)
	}
	// rooting before Clean drops every leading ".."
	rel := strings.TrimPrefix(path.Clean("/"+name), "/")
	if rel == "" {
		return "", errors.Errorf("Invalid element name %q", name)
	}
	return filepath.Join(dd.root, filepath.FromSlash(rel)), nil
}

func (dd *DirectoryDriver) GetElement(name string) (Element, error) {
	p, err := dd.resolve(name)
	if err != nil {
		return nil, err
	}
	stat, err := os.Stat(p)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot find '%s'", name)
	}
	if stat.IsDir() {
		return NewDirectoryDriver(p), nil
	}
	return &directoryFile{path: p, size: stat.Size()}, nil
}

type directoryFile struct {
	path string
	size int64
}

func (f *directoryFile) Name() string      { return filepath.Base(f.path) }
func (f *directoryFile) IsDirectory() bool { return false }
func (f *directoryFile) Size() int64       { return f.size }

func (f *directoryFile) Open() (io.ReadCloser, error) {
	r, err := os.Open(f.path)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot open '%s'", f.path)
	}
	return r, nil
}
