package display

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRGB565(t *testing.T) {
	tables := []struct {
		r, g, b uint8
		want    uint16
	}{
		{0xff, 0x00, 0x00, Red},
		{0x00, 0xff, 0x00, Green},
		{0x00, 0x00, 0xff, Blue},
		{0xff, 0xff, 0xff, White},
		{0x00, 0x00, 0x00, Black},
		{0x08, 0x04, 0x08, 0x0821},
	}

	for _, table := range tables {
		assert.Equal(t, table.want, RGB565(table.r, table.g, table.b))
	}
}

func TestExpand(t *testing.T) {
	assert.Equal(t, color.RGBA{0xff, 0x00, 0x00, 0xff}, Expand(Red))
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, Expand(White))
	assert.Equal(t, color.RGBA{0x00, 0x00, 0x00, 0xff}, Expand(Black))
}

func TestFramebufferWindow(t *testing.T) {
	f := NewFramebuffer(4, 3)

	f.StartWrite()
	f.SetAddrWindow(1, 1, 2, 2)
	f.WritePixels([]uint16{1, 2, 3, 4})
	f.EndWrite()

	require.NoError(t, f.Err())
	assert.Equal(t, 4, f.Written())
	assert.Equal(t, 1, f.Sessions())

	assert.Equal(t, uint16(1), f.Pixel(1, 1))
	assert.Equal(t, uint16(2), f.Pixel(2, 1))
	assert.Equal(t, uint16(3), f.Pixel(1, 2))
	assert.Equal(t, uint16(4), f.Pixel(2, 2))
	assert.Equal(t, Black, f.Pixel(0, 0))
	assert.Equal(t, Black, f.Pixel(3, 2))
}

func TestFramebufferOverflow(t *testing.T) {
	f := NewFramebuffer(2, 2)

	f.StartWrite()
	f.SetAddrWindow(1, 0, 1, 1)
	f.WritePixels([]uint16{Red, Red})
	f.EndWrite()

	assert.Error(t, f.Err())
	assert.Equal(t, 1, f.Written())
	assert.Equal(t, Black, f.Pixel(0, 0))
}

func TestFramebufferSessions(t *testing.T) {
	f := NewFramebuffer(2, 2)

	f.WritePixels([]uint16{Red})
	assert.Error(t, f.Err())
	assert.Equal(t, 0, f.Written())

	f.Reset()
	f.StartWrite()
	f.StartWrite()
	assert.Error(t, f.Err())
}

func TestFramebufferPNG(t *testing.T) {
	f := NewFramebuffer(2, 1)
	f.Fill(Red)

	b := new(bytes.Buffer)
	require.NoError(t, png.Encode(b, f))

	m, err := png.Decode(b)
	require.NoError(t, err)

	r, g, bl, _ := m.At(1, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0), g)
	assert.Equal(t, uint32(0), bl)
}
