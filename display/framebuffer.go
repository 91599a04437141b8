package display

import (
	"errors"
	"image"
	"image/color"
	"sync"
)

var (
	errSession    = errors.New("display: write session already open")
	errNoSession  = errors.New("display: no write session open")
	errOutOfRange = errors.New("display: write outside address window")
)

// Framebuffer is an in-memory RGB565 display. It implements both Display
// and image.Image so the screen contents can be encoded with any of the
// standard image encoders.
type Framebuffer struct {
	mu sync.Mutex

	w, h int
	pix  []uint16

	session bool
	window  image.Rectangle
	cursor  image.Point

	pixels   int
	sessions int
	err      error
}

// NewFramebuffer returns a w by h framebuffer cleared to black.
func NewFramebuffer(w, h int) *Framebuffer {
	return &Framebuffer{
		w:   w,
		h:   h,
		pix: make([]uint16, w*h),
	}
}

// Width returns the width of the framebuffer in pixels.
func (f *Framebuffer) Width() int { return f.w }

// Height returns the height of the framebuffer in pixels.
func (f *Framebuffer) Height() int { return f.h }

// Pack implements Display using RGB565.
func (f *Framebuffer) Pack(r, g, b uint8) uint16 { return RGB565(r, g, b) }

// StartWrite opens a write session.
func (f *Framebuffer) StartWrite() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session {
		f.setErr(errSession)
		return
	}
	f.session = true
	f.sessions++
}

// EndWrite closes the current write session.
func (f *Framebuffer) EndWrite() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.session {
		f.setErr(errNoSession)
		return
	}
	f.session = false
	f.window = image.Rectangle{}
}

// SetAddrWindow selects the rectangle filled by subsequent writes. The
// rectangle is clipped to the framebuffer.
func (f *Framebuffer) SetAddrWindow(x, y, w, h int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.session {
		f.setErr(errNoSession)
		return
	}
	f.window = image.Rect(x, y, x+w, y+h).Intersect(image.Rect(0, 0, f.w, f.h))
	f.cursor = f.window.Min
}

// WritePixels streams p into the current address window. Pixels that do
// not fit in the window are dropped and recorded as an error.
func (f *Framebuffer) WritePixels(p []uint16) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.session {
		f.setErr(errNoSession)
		return
	}
	for _, c := range p {
		if !f.cursor.In(f.window) {
			f.setErr(errOutOfRange)
			return
		}
		f.pix[f.cursor.Y*f.w+f.cursor.X] = c
		f.pixels++
		f.cursor.X++
		if f.cursor.X >= f.window.Max.X {
			f.cursor.X = f.window.Min.X
			f.cursor.Y++
		}
	}
}

func (f *Framebuffer) setErr(err error) {
	if f.err == nil {
		f.err = err
	}
}

// Err returns the first protocol violation seen, such as a write outside
// a session or beyond the address window.
func (f *Framebuffer) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Pixel returns the packed value at (x, y).
func (f *Framebuffer) Pixel(x, y int) uint16 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pix[y*f.w+x]
}

// Fill sets every pixel to c without going through a write session.
func (f *Framebuffer) Fill(c uint16) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.pix {
		f.pix[i] = c
	}
}

// Written returns the number of pixels written since the last Reset.
func (f *Framebuffer) Written() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pixels
}

// Sessions returns the number of write sessions opened since the last
// Reset.
func (f *Framebuffer) Sessions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions
}

// Reset clears the counters and any recorded error but leaves the pixels
// alone.
func (f *Framebuffer) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pixels, f.sessions, f.err = 0, 0, nil
}

// ColorModel implements image.Image.
func (f *Framebuffer) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (f *Framebuffer) Bounds() image.Rectangle { return image.Rect(0, 0, f.w, f.h) }

// At implements image.Image, expanding RGB565 back to 8 bits per channel.
func (f *Framebuffer) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(f.Bounds())) {
		return color.RGBA{}
	}
	return Expand(f.Pixel(x, y))
}

// Expand converts an RGB565 value to an opaque color.RGBA, replicating the
// high bits into the low bits of each channel.
func Expand(c uint16) color.RGBA {
	r := uint8(c>>11) & 0x1f
	g := uint8(c>>5) & 0x3f
	b := uint8(c) & 0x1f
	return color.RGBA{r<<3 | r>>2, g<<2 | g>>4, b<<3 | b>>2, 0xff}
}
