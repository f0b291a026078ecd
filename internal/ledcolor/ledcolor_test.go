package ledcolor_test

import (
	"image/color"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/coreman2200/funtimes-retroclock/internal/ledcolor"
)

var TestScaleIsExpectedColor = []struct {
	Start  uint32
	V      uint8
	Expect uint32
}{
	{0xFF0000, 255, 0xFF0000},
	{0xFF0000, 0, 0x000000},
	{0xFF8040, 128, 0x804020},
	{0x112233, 127, 0x081019},
	{0xFFFFFFFF, 255, 0xFFFFFF},
}

var TestRGBIsExpected565 = []struct {
	R, G, B uint8
	Expect  uint16
}{
	{0xFF, 0x00, 0x00, 0xF800},
	{0x00, 0xFF, 0x00, 0x07E0},
	{0x00, 0x00, 0xFF, 0x001F},
	{0xFF, 0xFF, 0xFF, 0xFFFF},
	{0x08, 0x04, 0x08, 0x0821},
	{0x07, 0x03, 0x07, 0x0000},
}

func TestColorsRGB(t *testing.T) {
	c := RGB(0x11, 0x22, 0x33)
	assert.Equal(t, uint32(0x112233), c.Color())
	c.SetG(0xAA)
	assert.Equal(t, uint32(0x11AA33), c.Color())
	assert.Equal(t, uint8(0x11), c.GetR())
	assert.Equal(t, uint8(0x33), c.GetB())
	assert.Equal(t, "#11aa33", c.Hex())
	assert.Equal(t, color.RGBA{0x11, 0xAA, 0x33, 0xFF}, c.ToRGBA())
}

func TestColorsScale(t *testing.T) {
	for k, v := range TestScaleIsExpectedColor {
		t.Run("Given "+strconv.Itoa(k), func(t *testing.T) {
			assert.Equal(t, v.Expect, NewColor(v.Start).Scale(v.V).Color())
		})
	}
}

func TestPack565(t *testing.T) {
	for _, v := range TestRGBIsExpected565 {
		assert.Equal(t, v.Expect, PackRGB565(v.R, v.G, v.B), "%02x%02x%02x", v.R, v.G, v.B)
		assert.Equal(t, v.Expect, RGB(v.R, v.G, v.B).RGB565())
	}
}

func TestRGB565Model(t *testing.T) {
	got := RGB565Model.Convert(color.RGBA{0xFF, 0, 0, 0xFF})
	require.IsType(t, RGB565(0), got)
	assert.Equal(t, RGB565(0xF800), got)

	r, g, b, a := RGB565(0xFFFF).RGBA()
	assert.Equal(t, []uint32{0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF}, []uint32{r, g, b, a})
	r, g, b, _ = RGB565(0).RGBA()
	assert.Equal(t, []uint32{0, 0, 0}, []uint32{r, g, b})
}

func TestParseHex(t *testing.T) {
	for _, s := range []string{"#ff8800", "ff8800", "0xFF8800", " #FF8800 "} {
		c, err := ParseHex(s)
		require.NoError(t, err, s)
		assert.Equal(t, uint32(0xFF8800), c.Color())
	}
	for _, s := range []string{"", "#fff", "zzzzzz", "#ff88001"} {
		_, err := ParseHex(s)
		assert.Error(t, err, s)
	}
}
