package bmp

import (
	"encoding/binary"
	"io"
	"strconv"
)

// Header holds the fields of the file header and the geometry sub-header
// that the decoder relies on.
type Header struct {
	FileSize    uint32
	Reserved    uint32
	DataOffset  uint32
	HeaderSize  uint32
	Width       int32
	Height      int32 // negative for top-down scan order
	Planes      uint16
	BitDepth    uint16
	Compression uint32

	Encoding Encoding
}

// TopDown reports whether the first stored row is the top of the image.
func (h *Header) TopDown() bool {
	return h.Height < 0
}

// Rows returns the number of scanlines in the image.
func (h *Header) Rows() int {
	if h.Height < 0 {
		return -int(h.Height)
	}
	return int(h.Height)
}

// Stride returns the padded byte length of one scanline.
func (h *Header) Stride() int {
	return RowStride(int(h.Width), int(h.BitDepth))
}

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

// rawHeader mirrors the on-disk layout of the fields following the magic.
type rawHeader struct {
	FileSize    uint32
	Reserved    uint32
	DataOffset  uint32
	HeaderSize  uint32
	Width       int32
	Height      int32
	Planes      uint16
	BitDepth    uint16
	Compression uint32
}

// ReadHeader reads and validates the fixed header fields from r, which must
// be positioned at the start of the file. On return r is positioned just
// past the compression field; the palette and pixel data are located later
// with absolute seeks. The data offset is not range checked here.
func ReadHeader(r io.Reader) (*Header, error) {
	var sig [len(magic)]byte
	if err := readFull(r, sig[:]); err != nil {
		return nil, err
	}
	if string(sig[:]) != magic {
		return nil, FormatError("not a BMP file")
	}

	var raw rawHeader
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}

	if raw.Planes != 1 {
		return nil, FormatError("planes " + strconv.FormatUint(uint64(raw.Planes), 10))
	}
	if raw.Width <= 0 {
		return nil, FormatError("non-positive width")
	}
	enc, ok := encoding(raw.BitDepth, raw.Compression)
	if !ok {
		return nil, FormatError("bit depth " + strconv.FormatUint(uint64(raw.BitDepth), 10) +
			" with compression " + strconv.FormatUint(uint64(raw.Compression), 10))
	}

	return &Header{
		FileSize:    raw.FileSize,
		Reserved:    raw.Reserved,
		DataOffset:  raw.DataOffset,
		HeaderSize:  raw.HeaderSize,
		Width:       raw.Width,
		Height:      raw.Height,
		Planes:      raw.Planes,
		BitDepth:    raw.BitDepth,
		Compression: raw.Compression,
		Encoding:    enc,
	}, nil
}
