package storage

import (
	"os"
	"path"
	"path/filepath"
)

// Dir is a Storage rooted at a directory of the host filesystem.
type Dir string

type osFile struct {
	*os.File
	size int64
}

func (f *osFile) Size() int64 {
	return f.size
}

func (d Dir) join(name string) (string, error) {
	p, err := clean(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(string(d), filepath.FromSlash(p)), nil
}

// Open opens the named regular file for reading.
func (d Dir) Open(name string) (File, error) {
	p, err := d.join(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotExist
		}
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	if !info.Mode().IsRegular() {
		f.Close()
		return nil, ErrNotExist
	}

	return &osFile{f, info.Size()}, nil
}

// List returns the members of dir, skipping hidden files, sorted by name.
func (d Dir) List(dir string) ([]Entry, error) {
	p, err := d.join(dir)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotExist
		}
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, ErrNotExist
	}

	infos, err := f.Readdir(0)
	if err != nil {
		return nil, err
	}

	base := path.Clean(dir)
	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		// Ignore any hidden files or directories
		if info.Name()[0] == '.' {
			continue
		}
		e := Entry{
			Name: path.Join(base, info.Name()),
			Dir:  info.IsDir(),
		}
		if !e.Dir {
			e.Size = info.Size()
		}
		entries = append(entries, e)
	}
	sortEntries(entries)

	return entries, nil
}
