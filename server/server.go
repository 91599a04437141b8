/*
Package server exposes a display and its bitmap storage over HTTP.

	GET /api/list?dir=/signs           JSON directory listing
	GET /api/show?file=/a.bmp&full=1   draw a bitmap on the display
	GET /sd?path=/a.bmp                download a stored file
	GET /files                         minimal browser UI
	GET /screen.png                    snapshot of the display
	GET /clear                         clear the display to black
*/
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"io/ioutil"
	"log"
	"net/http"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bodgit/tftbmp"
	"github.com/bodgit/tftbmp/display"
	"github.com/bodgit/tftbmp/storage"
)

// Default anchor used by /api/show, which centres a 128 pixel square on a
// 160 pixel wide panel.
const (
	defaultX = 16
	defaultY = 0
)

// Store is a Storage that can also list its directories.
type Store interface {
	storage.Storage
	storage.Lister
}

// Server is an http.Handler. Draws are serialised so the display only ever
// has one write session open.
type Server struct {
	mu       sync.Mutex
	store    Store
	fb       *display.Framebuffer
	renderer *tftbmp.Renderer
	logger   *log.Logger
	mux      *http.ServeMux
}

// New returns a Server drawing files from store onto fb.
func New(store Store, fb *display.Framebuffer, maxWidth int, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}

	s := &Server{
		store:    store,
		fb:       fb,
		renderer: tftbmp.New(store, fb, maxWidth, logger),
		logger:   logger,
		mux:      http.NewServeMux(),
	}

	s.mux.HandleFunc("/api/list", get(s.handleList))
	s.mux.HandleFunc("/api/show", get(s.handleShow))
	s.mux.HandleFunc("/sd", get(s.handleFile))
	s.mux.HandleFunc("/files", get(s.handleFilesPage))
	s.mux.HandleFunc("/screen.png", get(s.handleScreen))
	s.mux.HandleFunc("/clear", get(s.handleClear))

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func get(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Only GET method is supported", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

var mimeTypes = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".bmp":  "image/bmp",
	".gif":  "image/gif",
	".json": "application/json",
	".txt":  "text/plain",
}

func guessMime(p string) string {
	if t, ok := mimeTypes[strings.ToLower(path.Ext(p))]; ok {
		return t
	}
	return "application/octet-stream"
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	dir := r.URL.Query().Get("dir")
	if dir == "" {
		dir = "/"
	}
	if !storage.ValidPath(dir) {
		http.Error(w, "Bad dir", http.StatusBadRequest)
		return
	}

	entries, err := s.store.List(dir)
	switch {
	case errors.Is(err, storage.ErrNotExist):
		http.Error(w, "No dir", http.StatusNotFound)
		return
	case err != nil:
		s.logger.Printf("Listing \"%s\" failed: %s\n", dir, err)
		http.Error(w, "List error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		s.logger.Printf("Writing listing failed: %s\n", err)
	}
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func (s *Server) handleShow(w http.ResponseWriter, r *http.Request) {
	file := r.URL.Query().Get("file")
	if !storage.ValidPath(file) {
		http.Error(w, "Bad file", http.StatusBadRequest)
		return
	}

	x, y := defaultX, defaultY
	if r.URL.Query().Get("full") == "1" {
		x, y = 0, 0
	}

	var err error
	if x, err = intParam(r, "x", x); err != nil {
		http.Error(w, "Bad x", http.StatusBadRequest)
		return
	}
	if y, err = intParam(r, "y", y); err != nil {
		http.Error(w, "Bad y", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	err = s.renderer.Draw(file, x, y)
	s.mu.Unlock()

	switch {
	case errors.Is(err, storage.ErrNotExist):
		http.Error(w, "Not found", http.StatusNotFound)
	case err != nil:
		s.logger.Printf("Drawing \"%s\" failed: %s\n", file, err)
		http.Error(w, "DRAW_ERR", http.StatusInternalServerError)
	default:
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("OK"))
	}
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Query().Get("path")
	if p == "" {
		http.Error(w, "Missing path", http.StatusBadRequest)
		return
	}
	if !storage.ValidPath(p) {
		http.Error(w, "Bad path", http.StatusBadRequest)
		return
	}

	f, err := s.store.Open(p)
	switch {
	case errors.Is(err, storage.ErrNotExist):
		http.Error(w, "Not found", http.StatusNotFound)
		return
	case err != nil:
		s.logger.Printf("Opening \"%s\" failed: %s\n", p, err)
		http.Error(w, "Open error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", guessMime(p))
	http.ServeContent(w, r, path.Base(p), time.Time{}, f)
}

func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	b := new(bytes.Buffer)

	s.mu.Lock()
	err := png.Encode(b, s.fb)
	s.mu.Unlock()

	if err != nil {
		s.logger.Printf("Encoding screen failed: %s\n", err)
		http.Error(w, "Encode error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(b.Bytes())
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.fb.Fill(display.Black)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("CLEARED"))
}
