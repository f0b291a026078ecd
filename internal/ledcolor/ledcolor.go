// Package ledcolor holds the face's base color as a packed 0xRRGGBB value and
// its conversions to the display formats.
package ledcolor

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

const (
	RED_OFFSET   uint8 = 0x10
	GREEN_OFFSET uint8 = 0x08
	BLUE_OFFSET  uint8 = 0x0
)

const DFLT_COLOR uint32 = 0xFF0000

// ColorVal is a 24-bit RGB color. Bits above 0xFFFFFF are ignored.
type ColorVal struct {
	val uint32
}

func NewColor(c uint32) ColorVal {
	return ColorVal{val: c & 0xFFFFFF}
}

func RGB(r, g, b uint8) ColorVal {
	var c ColorVal
	c.SetR(r)
	c.SetG(g)
	c.SetB(b)
	return c
}

func (c ColorVal) Color() uint32 { return c.val }

func setcolor(c uint32, n uint8, off uint8) uint32 {
	var val uint32 = uint32(n) << off
	var mask uint32 = 0xFF << off
	return (c & (^mask)) | val
}

func getcolor(c uint32, off uint8) uint8 {
	var mask uint32 = 0xFF << off
	return uint8((c & (mask)) >> off)
}

func (c *ColorVal) SetR(r uint8) { c.val = setcolor(c.val, r, RED_OFFSET) }
func (c *ColorVal) SetG(g uint8) { c.val = setcolor(c.val, g, GREEN_OFFSET) }
func (c *ColorVal) SetB(b uint8) { c.val = setcolor(c.val, b, BLUE_OFFSET) }

func (c ColorVal) GetR() uint8 { return getcolor(c.val, RED_OFFSET) }
func (c ColorVal) GetG() uint8 { return getcolor(c.val, GREEN_OFFSET) }
func (c ColorVal) GetB() uint8 { return getcolor(c.val, BLUE_OFFSET) }

// Scale multiplies every channel by v/255 with integer math.
func (c ColorVal) Scale(v uint8) ColorVal {
	s := func(ch uint8) uint8 { return uint8(uint32(ch) * uint32(v) / 255) }
	return RGB(s(c.GetR()), s(c.GetG()), s(c.GetB()))
}

// ToRGBA returns the opaque color.
func (c ColorVal) ToRGBA() color.RGBA {
	return color.RGBA{R: c.GetR(), G: c.GetG(), B: c.GetB(), A: 255}
}

// RGB565 packs the color into the 16-bit panel format.
func (c ColorVal) RGB565() uint16 {
	return PackRGB565(c.GetR(), c.GetG(), c.GetB())
}

// Hex formats the color as #rrggbb.
func (c ColorVal) Hex() string { return fmt.Sprintf("#%06x", c.val) }

// ParseHex accepts #rrggbb, rrggbb or 0xrrggbb.
func ParseHex(s string) (ColorVal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != 6 {
		return ColorVal{}, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return ColorVal{}, fmt.Errorf("color %q: %w", s, err)
	}
	return NewColor(uint32(v)), nil
}
