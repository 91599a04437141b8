/*
Package display describes the pixel-addressable screen a bitmap is drawn onto
and provides an in-memory 16-bit implementation of it.

Pixels are handed to a Display in its native packed form. Writes happen
inside a bracketed session; within a session the caller sets a rectangular
address window and then streams pixels into it left to right, top to bottom,
the same way an ST7735-class TFT controller is driven over SPI.
*/
package display

// Display is the consumer-facing surface of a screen.
type Display interface {
	Width() int
	Height() int

	// Pack maps 8-bit red, green and blue channels onto the display's
	// native packed representation.
	Pack(r, g, b uint8) uint16

	// StartWrite and EndWrite bracket a write session. Sessions are not
	// reentrant.
	StartWrite()
	EndWrite()

	// SetAddrWindow selects the rectangle subsequent WritePixels calls
	// fill.
	SetAddrWindow(x, y, w, h int)
	WritePixels(p []uint16)
}

// PackerFunc adapts an ordinary function to the Pack method of a Display.
type PackerFunc func(r, g, b uint8) uint16

// Pack returns f(r, g, b).
func (f PackerFunc) Pack(r, g, b uint8) uint16 { return f(r, g, b) }

// RGB565 packs r, g, b into a 16-bit 5-6-5 value.
func RGB565(r, g, b uint8) uint16 {
	return uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
}

// Common colors in RGB565.
const (
	Black uint16 = 0x0000
	White uint16 = 0xffff
	Red   uint16 = 0xf800
	Green uint16 = 0x07e0
	Blue  uint16 = 0x001f
)
