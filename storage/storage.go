/*
Package storage provides the block-oriented file sources bitmaps are drawn
from.

Paths are always slash separated and rooted, "/signs/stop.bmp" for example,
regardless of the backing store. Two stores are provided: Dir, which maps
paths onto a directory of the host filesystem like an SD card mounted at
its root, and DB, which keeps files as BLOBs in an sqlite database.
*/
package storage

import (
	"errors"
	"io"
	"path"
	"sort"
	"strings"
)

var (
	// ErrBadPath is returned for paths that are not rooted or that try to
	// escape the root.
	ErrBadPath = errors.New("storage: invalid path")
	// ErrNotExist is returned when a file or directory is absent.
	ErrNotExist = errors.New("storage: file does not exist")
)

// File is an open, seekable file of known size.
type File interface {
	io.Reader
	io.Seeker
	io.Closer

	Size() int64
}

// Storage opens files by path.
type Storage interface {
	Open(name string) (File, error)
}

// Entry describes one member of a directory listing.
type Entry struct {
	Name string `json:"name"`
	Dir  bool   `json:"dir"`
	Size int64  `json:"size"`
}

// Lister lists the immediate members of a directory.
type Lister interface {
	List(dir string) ([]Entry, error)
}

// ValidPath reports whether p is rooted and free of parent references.
func ValidPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.Contains(p, "..")
}

func clean(p string) (string, error) {
	if !ValidPath(p) {
		return "", ErrBadPath
	}
	return path.Clean(p), nil
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
}
