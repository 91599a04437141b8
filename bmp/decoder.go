package bmp

import (
	"errors"
	"io"
)

var errSeekPastEnd = errors.New("bmp: scanline beyond end of file")

// Source is a seekable byte stream of known length, such as an open file.
type Source interface {
	io.ReadSeeker
	Size() int64
}

// RowDecoder decodes one scanline at a time into a reusable buffer of
// packed colors. Rows are addressed in display order, row 0 being the top
// of the image regardless of how the file stores them.
type RowDecoder struct {
	r       Source
	h       *Header
	pack    Packer
	palette Palette

	stride int64
	cols   int

	line []uint16
	tmp  []byte
}

// NewRowDecoder returns a decoder for the pixel data described by h. At
// most maxWidth columns of each row are decoded; anything to the right of
// that is never read. The palette is only consulted for 1-bit images.
func NewRowDecoder(r Source, h *Header, palette Palette, pack Packer, maxWidth int) *RowDecoder {
	if maxWidth < 0 {
		maxWidth = 0
	}
	cols := int(h.Width)
	if cols > maxWidth {
		cols = maxWidth
	}
	if cols < 0 {
		cols = 0
	}

	var n int
	switch h.Encoding {
	case Truecolor24:
		n = cols * 3
	case Packed16:
		n = cols * 2
	case Indexed1:
		n = (cols + 7) >> 3
	}

	return &RowDecoder{
		r:       r,
		h:       h,
		pack:    pack,
		palette: palette,
		stride:  int64(h.Stride()),
		cols:    cols,
		line:    make([]uint16, maxWidth),
		tmp:     make([]byte, n),
	}
}

// Columns returns the number of pixels Decode produces per row.
func (d *RowDecoder) Columns() int {
	return d.cols
}

// Seek positions the source at the start of display row row.
func (d *RowDecoder) Seek(row int) error {
	src := row
	if !d.h.TopDown() {
		src = d.h.Rows() - 1 - row
	}

	offset := int64(d.h.DataOffset) + int64(src)*d.stride
	if offset > d.r.Size() {
		return errSeekPastEnd
	}
	_, err := d.r.Seek(offset, io.SeekStart)
	return err
}

// Decode reads the scanline at the current position. The returned slice is
// only valid until the next call.
func (d *RowDecoder) Decode() ([]uint16, error) {
	if err := readFull(d.r, d.tmp); err != nil {
		return nil, err
	}

	line := d.line[:d.cols]

	switch d.h.Encoding {
	case Truecolor24:
		for i := range line {
			b := d.tmp[i*3 : i*3+3]
			line[i] = d.pack.Pack(b[2], b[1], b[0])
		}
	case Packed16:
		// Taken as-is; any bit-field masks in the header are ignored
		for i := range line {
			line[i] = uint16(d.tmp[i*2]) | uint16(d.tmp[i*2+1])<<8
		}
	case Indexed1:
		for i := range line {
			line[i] = d.palette[d.tmp[i>>3]>>(7-uint(i&7))&1]
		}
	}

	return line, nil
}

// DecodeRow seeks to display row row and decodes it.
func (d *RowDecoder) DecodeRow(row int) ([]uint16, error) {
	if err := d.Seek(row); err != nil {
		return nil, err
	}
	return d.Decode()
}
