package bmp

import (
	"bytes"
	"testing"

	"github.com/bodgit/tftbmp/display"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPalette(t *testing.T) {
	// Entry 0 is blue, entry 1 is red, both stored as B, G, R, 0
	pal := []byte{0xff, 0x00, 0x00, 0x00, 0x00, 0x00, 0xff, 0x00}
	r := bytes.NewReader(build(8, 1, 1, 0, pal, make([]byte, 4)))

	h, err := ReadHeader(r)
	require.NoError(t, err)

	p, ok := ReadPalette(r, h, rgb565)
	assert.True(t, ok)
	assert.Equal(t, Palette{display.Blue, display.Red}, p)
}

func TestReadPaletteMissing(t *testing.T) {
	r := bytes.NewReader(build(8, 1, 1, 0, nil, make([]byte, 4)))

	h, err := ReadHeader(r)
	require.NoError(t, err)

	p, ok := ReadPalette(r, h, rgb565)
	assert.False(t, ok)
	assert.Equal(t, Palette{display.White, display.Black}, p)
	assert.Equal(t, DefaultPalette(rgb565), p)
}

func TestReadPaletteOverlapsData(t *testing.T) {
	// Only four bytes between the header and the pixel data
	r := bytes.NewReader(build(8, 1, 1, 0, []byte{0xff, 0x00, 0x00, 0x00}, make([]byte, 4)))

	h, err := ReadHeader(r)
	require.NoError(t, err)

	p, ok := ReadPalette(r, h, rgb565)
	assert.False(t, ok)
	assert.Equal(t, Palette{display.White, display.Black}, p)
}

func TestReadPaletteTruncated(t *testing.T) {
	b := build(8, 1, 1, 0, make([]byte, 8), make([]byte, 4))
	r := bytes.NewReader(b[:58])

	h, err := ReadHeader(r)
	require.NoError(t, err)

	p, ok := ReadPalette(r, h, rgb565)
	assert.False(t, ok)
	assert.Equal(t, Palette{display.White, display.Black}, p)
}
