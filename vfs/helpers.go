package vfs

import (
	"io/ioutil"

	"github.com/pkg/errors"
)

func DirectoryGetFile(d Directory, name string) (File, error) {
	e, err := d.GetElement(name)
	if err != nil {
		return nil, err
	}
	f, ok := e.(File)
	if !ok || e.IsDirectory() {
		return nil, errors.Errorf("'%s' is a directory, not a file", name)
	}
	return f, nil
}

// ReadFile returns the whole content of name inside d.
func ReadFile(d Directory, name string) ([]byte, error) {
	f, err := DirectoryGetFile(d, name)
	if err != nil {
		return nil, err
	}
	r, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read '%s'", name)
	}
	return data, nil
}
