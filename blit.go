package tftbmp

import "github.com/bodgit/tftbmp/display"

// blit writes a single row of packed pixels at (x, y). It must be called
// inside a write session.
func blit(d display.Display, x, y int, p []uint16) {
	d.SetAddrWindow(x, y, len(p), 1)
	d.WritePixels(p)
}
