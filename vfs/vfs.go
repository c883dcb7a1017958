// Package vfs gives read-only access to local mesh sources by slash
// separated relative paths.
package vfs

import (
	"io"
)

type Element interface {
	Name() string
	IsDirectory() bool
}

type File interface {
	Element
	Size() int64
	Open() (io.ReadCloser, error)
}

type Directory interface {
	Element
	List() ([]string, error)
	GetElement(name string) (Element, error)
}
