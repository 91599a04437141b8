package bmp

import (
	"bytes"
	"io"
	"testing"

	"github.com/bodgit/tftbmp/display"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeAll(t *testing.T, b []byte, maxWidth int) [][]uint16 {
	r := bytes.NewReader(b)

	h, err := ReadHeader(r)
	require.NoError(t, err)

	var p Palette
	if h.Encoding == Indexed1 {
		p, _ = ReadPalette(r, h, rgb565)
	}

	d := NewRowDecoder(r, h, p, rgb565, maxWidth)

	var rows [][]uint16
	for y := 0; y < h.Rows(); y++ {
		line, err := d.DecodeRow(y)
		require.NoError(t, err)
		rows = append(rows, append([]uint16(nil), line...))
	}
	return rows
}

func TestDecodeTruecolor(t *testing.T) {
	// Bottom-up, so the first stored row is the bottom of the image
	pix := []byte{
		0x00, 0x00, 0xff, 0x00, 0xff, 0x00, 0, 0, // red, green
		0xff, 0x00, 0x00, 0xff, 0xff, 0xff, 0, 0, // blue, white
	}

	rows := decodeAll(t, build(2, 2, 24, 0, nil, pix), 160)
	assert.Equal(t, [][]uint16{
		{display.Blue, display.White},
		{display.Red, display.Green},
	}, rows)
}

func TestDecodePacked(t *testing.T) {
	pix := []byte{
		0x34, 0x12, 0x00, 0xf8, 0x1f, 0x00, 0, 0,
	}

	for _, compression := range []uint32{0, 3} {
		rows := decodeAll(t, build(3, -1, 16, compression, nil, pix), 160)
		assert.Equal(t, [][]uint16{{0x1234, display.Red, display.Blue}}, rows)
	}
}

func TestDecodeIndexed(t *testing.T) {
	pal := []byte{0x00, 0xff, 0x00, 0x00, 0x00, 0x00, 0xff, 0x00} // green, red

	// Top row 1,0 and bottom row 0,1 stored bottom-up
	pix := []byte{
		0x40, 0, 0, 0,
		0x80, 0, 0, 0,
	}

	rows := decodeAll(t, build(2, 2, 1, 0, pal, pix), 160)
	assert.Equal(t, [][]uint16{
		{display.Red, display.Green},
		{display.Green, display.Red},
	}, rows)
}

func TestDecodeIndexedWide(t *testing.T) {
	pix := []byte{0xa5, 0xc0, 0, 0}

	rows := decodeAll(t, build(10, 1, 1, 0, nil, pix), 160)

	w, k := display.White, display.Black
	assert.Equal(t, [][]uint16{{k, w, k, w, w, k, w, k, k, k}}, rows)
}

func TestDecodeTopDownMatchesBottomUp(t *testing.T) {
	top := []byte{0x00, 0x00, 0xff, 0x00, 0xff, 0x00, 0, 0}
	bottom := []byte{0xff, 0x00, 0x00, 0x10, 0x20, 0x30, 0, 0}

	bottomUp := decodeAll(t, build(2, 2, 24, 0, nil, append(append([]byte{}, bottom...), top...)), 160)
	topDown := decodeAll(t, build(2, -2, 24, 0, nil, append(append([]byte{}, top...), bottom...)), 160)

	assert.Equal(t, bottomUp, topDown)
}

func TestDecodeTruncates(t *testing.T) {
	pix := []byte{
		0x00, 0xf8, 0x00, 0xf8, 0x00, 0xf8, 0x1f, 0x00, 0x1f, 0x00, 0, 0,
	}

	r := bytes.NewReader(build(5, 1, 16, 0, nil, pix))
	h, err := ReadHeader(r)
	require.NoError(t, err)

	d := NewRowDecoder(r, h, Palette{}, rgb565, 3)
	assert.Equal(t, 3, d.Columns())

	line, err := d.DecodeRow(0)
	require.NoError(t, err)
	assert.Equal(t, []uint16{display.Red, display.Red, display.Red}, line)
}

func TestDecodeSeekPastEnd(t *testing.T) {
	b := build(2, 4, 24, 0, nil, make([]byte, 8))
	r := bytes.NewReader(b)

	h, err := ReadHeader(r)
	require.NoError(t, err)

	d := NewRowDecoder(r, h, Palette{}, rgb565, 160)

	// Bottom-up, so row 0 lives at the end of the missing data
	assert.Equal(t, errSeekPastEnd, d.Seek(0))

	// Row 3 is stored first and is present
	_, err = d.DecodeRow(3)
	assert.NoError(t, err)

	// Row 2 starts exactly at the end of the file
	_, err = d.DecodeRow(2)
	assert.Equal(t, io.ErrUnexpectedEOF, err)
}

func TestDecodeReusesBuffer(t *testing.T) {
	pix := []byte{
		0x00, 0x00, 0xff, 0,
		0xff, 0x00, 0x00, 0,
	}

	r := bytes.NewReader(build(1, -2, 24, 0, nil, pix))
	h, err := ReadHeader(r)
	require.NoError(t, err)

	d := NewRowDecoder(r, h, Palette{}, rgb565, 8)

	first, err := d.DecodeRow(0)
	require.NoError(t, err)
	assert.Equal(t, display.Red, first[0])

	second, err := d.DecodeRow(1)
	require.NoError(t, err)
	assert.Equal(t, display.Blue, second[0])
	assert.Equal(t, display.Blue, first[0])
}
