package storage

import (
	"bytes"
	"crypto/sha1"
	"database/sql"
	"fmt"
	"path"
	"strings"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

// DB is a Storage backed by an sqlite database, each file being stored as
// a BLOB keyed by its path.
type DB struct {
	db *sql.DB
}

type blobFile struct {
	*bytes.Reader
}

func (blobFile) Close() error {
	return nil
}

// NewDB opens or creates the database in file.
func NewDB(file string) (*DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS file (id INTEGER PRIMARY KEY NOT NULL, path TEXT NOT NULL UNIQUE, sha1 TEXT NOT NULL, data BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *DB) Close() error {
	return db.db.Close()
}

// Put stores b under name, replacing any existing file. It reports whether
// the stored contents changed.
func (db *DB) Put(name string, b []byte) (bool, error) {
	p, err := clean(name)
	if err != nil {
		return false, err
	}

	sha := fmt.Sprintf("%X", sha1.Sum(b))

	var existing string
	switch err := db.db.QueryRow("SELECT sha1 FROM file WHERE path = ?", p).Scan(&existing); err {
	case sql.ErrNoRows:
	case nil:
		if existing == sha {
			return false, nil
		}
	default:
		return false, err
	}

	if _, err := db.db.Exec("INSERT OR REPLACE INTO file (path, sha1, data) VALUES (?, ?, ?)", p, sha, b); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the named file.
func (db *DB) Delete(name string) error {
	p, err := clean(name)
	if err != nil {
		return err
	}

	result, err := db.db.Exec("DELETE FROM file WHERE path = ?", p)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotExist
	}
	return nil
}

// Open returns the named file. The contents are read into memory in one go.
func (db *DB) Open(name string) (File, error) {
	p, err := clean(name)
	if err != nil {
		return nil, err
	}

	var b []byte
	switch err := db.db.QueryRow("SELECT data FROM file WHERE path = ?", p).Scan(&b); err {
	case sql.ErrNoRows:
		return nil, ErrNotExist
	case nil:
		return blobFile{bytes.NewReader(b)}, nil
	default:
		return nil, err
	}
}

// List returns the members of dir sorted by name. Directories exist
// implicitly wherever a stored path has further components.
func (db *DB) List(dir string) ([]Entry, error) {
	p, err := clean(dir)
	if err != nil {
		return nil, err
	}

	prefix := p
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	rows, err := db.db.Query("SELECT path, length(data) FROM file WHERE substr(path, 1, length(?)) = ?", prefix, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	dirs := make(map[string]struct{})
	for rows.Next() {
		var name string
		var size int64
		if err := rows.Scan(&name, &size); err != nil {
			return nil, err
		}

		rest := strings.TrimPrefix(name, prefix)
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			sub := path.Join(prefix, rest[:i])
			if _, ok := dirs[sub]; !ok {
				dirs[sub] = struct{}{}
				entries = append(entries, Entry{Name: sub, Dir: true})
			}
			continue
		}
		entries = append(entries, Entry{Name: name, Size: size})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(entries) == 0 && p != "/" {
		return nil, ErrNotExist
	}
	sortEntries(entries)

	return entries, nil
}
