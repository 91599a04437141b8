package bmp

import (
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/bodgit/tftbmp/display"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/makeworld-the-better-one/dither/v2"
)

var errBadDepth = errors.New("bmp: unsupported bit depth")

// Options are the encoding parameters.
type Options struct {
	// Depth is one of 1, 16 or 24. Zero means 24.
	Depth int
	// TopDown stores rows top to bottom with a negative height.
	TopDown bool
	// Dither selects Floyd-Steinberg error diffusion rather than
	// nearest-color mapping when reducing an image to two colors.
	Dither bool
}

type fileHeader struct {
	Magic           [2]byte
	FileSize        uint32
	Reserved        uint32
	DataOffset      uint32
	HeaderSize      uint32
	Width           int32
	Height          int32
	Planes          uint16
	BitDepth        uint16
	Compression     uint32
	ImageSize       uint32
	XPelsPerMeter   int32
	YPelsPerMeter   int32
	ColorsUsed      uint32
	ColorsImportant uint32
}

type encoder struct {
	w     io.Writer
	m     image.Image
	pm    *image.Paletted
	depth int
	o     Options
}

// twoColor reduces m to a paletted image with exactly two colors.
func twoColor(m image.Image, useDither bool) *image.Paletted {
	b := m.Bounds()

	if pm, ok := m.(*image.Paletted); ok && len(pm.Palette) == 2 {
		return pm
	}

	if useDither {
		d := dither.NewDitherer([]color.Color{color.White, color.Black})
		d.Matrix = dither.FloydSteinberg
		d.Serpentine = true
		return d.DitherPaletted(m)
	}

	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, 2), m)
	for len(p) < 2 {
		p = append(p, color.Black)
	}
	pm := image.NewPaletted(b, p[:2])
	draw.Draw(pm, b, m, b.Min, draw.Src)
	return pm
}

func (e *encoder) writeHeader(width, height int) error {
	h := fileHeader{
		Magic:      [2]byte{magic[0], magic[1]},
		HeaderSize: infoHeaderLen,
		Width:      int32(width),
		Height:     int32(height),
		Planes:     1,
		BitDepth:   uint16(e.depth),
	}
	offset := fileHeaderLen + infoHeaderLen
	switch e.depth {
	case 16:
		h.Compression = biBitFields
		offset += maskLen
	case 1:
		h.ColorsUsed = 2
		offset += paletteLen
	}
	if e.o.TopDown {
		h.Height = -h.Height
	}
	h.DataOffset = uint32(offset)
	h.ImageSize = uint32(RowStride(width, e.depth) * height)
	h.FileSize = h.DataOffset + h.ImageSize

	if err := binary.Write(e.w, binary.LittleEndian, &h); err != nil {
		return err
	}

	switch e.depth {
	case 16:
		masks := [3]uint32{0xf800, 0x07e0, 0x001f}
		return binary.Write(e.w, binary.LittleEndian, &masks)
	case 1:
		var tmp [paletteLen]byte
		for i, c := range e.pm.Palette {
			r, g, b, _ := c.RGBA()
			tmp[i*4+0] = byte(b >> 8)
			tmp[i*4+1] = byte(g >> 8)
			tmp[i*4+2] = byte(r >> 8)
		}
		_, err := e.w.Write(tmp[:])
		return err
	}
	return nil
}

func (e *encoder) writeRow(row []byte, y int) {
	b := e.m.Bounds()
	for i := range row {
		row[i] = 0
	}
	for x := b.Min.X; x < b.Max.X; x++ {
		i := x - b.Min.X
		switch e.depth {
		case 24:
			r, g, bl, _ := e.m.At(x, y).RGBA()
			row[i*3+0] = byte(bl >> 8)
			row[i*3+1] = byte(g >> 8)
			row[i*3+2] = byte(r >> 8)
		case 16:
			r, g, bl, _ := e.m.At(x, y).RGBA()
			c := display.RGB565(uint8(r>>8), uint8(g>>8), uint8(bl>>8))
			row[i*2+0] = byte(c)
			row[i*2+1] = byte(c >> 8)
		case 1:
			if e.pm.ColorIndexAt(x, y)&1 != 0 {
				row[i>>3] |= 0x80 >> uint(i&7)
			}
		}
	}
}

func (e *encoder) encode() error {
	b := e.m.Bounds()
	width, height := b.Dx(), b.Dy()

	if err := e.writeHeader(width, height); err != nil {
		return err
	}

	row := make([]byte, RowStride(width, e.depth))
	y0, y1, yDelta := b.Max.Y-1, b.Min.Y-1, -1
	if e.o.TopDown {
		y0, y1, yDelta = b.Min.Y, b.Max.Y, +1
	}
	for y := y0; y != y1; y += yDelta {
		e.writeRow(row, y)
		if _, err := e.w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

// Encode writes the Image m to w in one of the BMP variants the decoder
// accepts. A nil o is equivalent to 24-bit bottom-up output.
func Encode(w io.Writer, m image.Image, o *Options) error {
	e := encoder{w: w, m: m}
	if o != nil {
		e.o = *o
	}

	switch e.o.Depth {
	case 0, 24:
		e.depth = 24
	case 16:
		e.depth = 16
	case 1:
		e.depth = 1
		e.pm = twoColor(m, e.o.Dither)
		e.m = e.pm
	default:
		return errBadDepth
	}

	b := e.m.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return errors.New("bmp: image is empty")
	}

	return e.encode()
}
