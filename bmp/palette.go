package bmp

import "io"

// Palette holds the two packed colors of a 1-bit image. Index 0 is used for
// clear bits and index 1 for set bits.
type Palette [2]uint16

// DefaultPalette returns the palette used when a 1-bit file carries no
// usable color table: white for 0 and black for 1.
func DefaultPalette(p Packer) Palette {
	return Palette{
		p.Pack(0xff, 0xff, 0xff),
		p.Pack(0x00, 0x00, 0x00),
	}
}

// ReadPalette returns the color table of a 1-bit image. The table is read
// from just after the geometry sub-header, but only if both entries fit
// before the pixel data; otherwise, or if reading fails, the default palette
// is returned. The boolean result reports whether the table came from r.
func ReadPalette(r io.ReadSeeker, h *Header, p Packer) (Palette, bool) {
	offset := int64(fileHeaderLen) + int64(h.HeaderSize)
	if offset+paletteLen > int64(h.DataOffset) {
		return DefaultPalette(p), false
	}

	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return DefaultPalette(p), false
	}

	var b [paletteLen]byte
	if err := readFull(r, b[:]); err != nil {
		return DefaultPalette(p), false
	}

	// Entries are stored as B, G, R followed by a padding byte
	return Palette{
		p.Pack(b[2], b[1], b[0]),
		p.Pack(b[6], b[5], b[4]),
	}, true
}
