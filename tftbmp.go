/*
Package tftbmp draws uncompressed BMP files from block storage onto small
pixel-addressable displays.

A file is streamed one scanline at a time, so memory use is bounded by the
configured maximum width rather than by the image size. Images are placed
at an anchor point and clipped to the display; anything that falls outside
it is never written.
*/
package tftbmp

import (
	"io/ioutil"
	"log"

	"github.com/bodgit/tftbmp/bmp"
	"github.com/bodgit/tftbmp/display"
	"github.com/bodgit/tftbmp/storage"
)

// DefaultMaxWidth is the scanline buffer capacity used for a 160 pixel
// wide panel.
const DefaultMaxWidth = 160

// IOError records a storage failure and the operation that caused it. When
// returned mid-draw the display may already show part of the image.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string { return "tftbmp: " + e.Op + " " + e.Path + ": " + e.Err.Error() }

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error { return e.Err }

// Renderer draws bitmaps from a Storage onto a Display. It must not be
// used from more than one goroutine at a time.
type Renderer struct {
	storage  storage.Storage
	display  display.Display
	maxWidth int
	logger   *log.Logger
}

// New returns a Renderer. Images wider than maxWidth are truncated to
// their leftmost maxWidth columns. A nil logger discards all output.
func New(s storage.Storage, d display.Display, maxWidth int, logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}
	return &Renderer{
		storage:  s,
		display:  d,
		maxWidth: maxWidth,
		logger:   logger,
	}
}

// Draw renders the named bitmap with its top-left corner at (x, y). An
// image that misses the display entirely is not an error. Structural
// problems are reported as bmp.FormatError before anything is drawn;
// storage problems are reported as *IOError.
func (r *Renderer) Draw(name string, x, y int) error {
	f, err := r.storage.Open(name)
	if err != nil {
		return &IOError{"open", name, err}
	}
	defer f.Close()

	h, err := bmp.ReadHeader(f)
	if err != nil {
		if _, ok := err.(bmp.FormatError); ok {
			r.logger.Printf("Rejected \"%s\": %s\n", name, err)
			return err
		}
		return &IOError{"read", name, err}
	}

	vp := Viewport{r.display.Width(), r.display.Height()}
	if !vp.Overlaps(x, y, int(h.Width), h.Rows()) {
		r.logger.Printf("Skipped \"%s\", %dx%d at (%d, %d) is off screen\n", name, h.Width, h.Rows(), x, y)
		return nil
	}

	var palette bmp.Palette
	if h.Encoding == bmp.Indexed1 {
		var ok bool
		if palette, ok = bmp.ReadPalette(f, h, r.display); !ok {
			r.logger.Printf("No palette in \"%s\", using default\n", name)
		}
	}

	d := bmp.NewRowDecoder(f, h, palette, r.display, r.maxWidth)

	r.display.StartWrite()
	defer r.display.EndWrite()

	for row := 0; row < h.Rows(); row++ {
		if err := d.Seek(row); err != nil {
			r.logger.Printf("Aborted \"%s\" at row %d: %s\n", name, row, err)
			return &IOError{"seek", name, err}
		}

		dy := y + row
		if !vp.Row(dy) {
			continue
		}

		line, err := d.Decode()
		if err != nil {
			r.logger.Printf("Aborted \"%s\" at row %d: %s\n", name, row, err)
			return &IOError{"read", name, err}
		}

		dx, start, n := vp.Span(x, len(line))
		if n <= 0 {
			continue
		}
		blit(r.display, dx, dy, line[start:start+n])
	}

	return nil
}
