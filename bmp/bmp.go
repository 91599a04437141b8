/*
Package bmp implements a streaming decoder and an encoder for the subset of
uncompressed BMP files that small TFT panels are fed with.

Three pixel encodings are accepted: 24-bit truecolor, 16-bit packed color and
1-bit indexed color with a two entry palette. Files are never loaded whole;
instead the header is parsed once and every scanline is located with an
absolute seek of

	dataOffset + row * ((bitDepth*width + 31) / 32 * 4)

so only one row of pixels is ever held in memory. Images wider than the
decode buffer are truncated rather than scaled.
*/
package bmp

const (
	fileHeaderLen = 14
	infoHeaderLen = 40
	maskLen       = 3 * 4
	paletteLen    = 2 * 4

	magic = "BM"
)

const (
	biRGB       = 0
	biBitFields = 3
)

// FormatError reports that the input is not a BMP this package can decode.
type FormatError string

func (e FormatError) Error() string { return "bmp: invalid format: " + string(e) }

// Encoding identifies how a scanline stores its pixels.
type Encoding int

// The supported pixel encodings.
const (
	Truecolor24 Encoding = iota + 1 // B, G, R bytes
	Packed16                        // little-endian 16-bit native color
	Indexed1                        // one bit per pixel, MSB first
)

func (e Encoding) String() string {
	switch e {
	case Truecolor24:
		return "truecolor24"
	case Packed16:
		return "packed16"
	case Indexed1:
		return "indexed1"
	}
	return "unknown"
}

// Packer maps 8-bit channels onto a display's native packed color.
type Packer interface {
	Pack(r, g, b uint8) uint16
}

// RowStride returns the number of bytes used to store one scanline of width
// pixels at the given bit depth, including the padding that aligns every
// row to a 4 byte boundary.
func RowStride(width, bitDepth int) int {
	return (bitDepth*width + 31) / 32 * 4
}

// encoding returns the Encoding for an accepted (bitDepth, compression)
// pair.
func encoding(bitDepth uint16, compression uint32) (Encoding, bool) {
	switch {
	case bitDepth == 24 && compression == biRGB:
		return Truecolor24, true
	case bitDepth == 16 && (compression == biRGB || compression == biBitFields):
		return Packed16, true
	case bitDepth == 1 && compression == biRGB:
		return Indexed1, true
	}
	return 0, false
}
