// Package surface holds the physical outputs the compositor draws into: an
// in-memory image for simulation, a terminal preview, an SPI/I2C OLED panel
// and a WS2812 matrix strip.
package surface

import (
	"image"
	"image/color"
	"image/draw"
)

// Surface is a drawable display. Drawing lands in a back buffer; Flush
// pushes it to the device.
type Surface interface {
	draw.Image
	Name() string
	Flush() error
	Close() error
}

// Backlight is the one-way brightness sink.
type Backlight interface {
	SetBrightness(v uint8) error
}

// Driver names accepted by config.
const (
	DriverSim   = "sim"
	DriverTerm  = "term"
	DriverOLED  = "oled"
	DriverStrip = "strip"
)

// Fill paints r with c.
func Fill(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// scaleRGBA dims c by v/255, used by surfaces without a hardware backlight.
func scaleRGBA(c color.RGBA, v uint8) color.RGBA {
	if v == 255 {
		return c
	}
	s := func(ch uint8) uint8 { return uint8(uint32(ch) * uint32(v) / 255) }
	return color.RGBA{R: s(c.R), G: s(c.G), B: s(c.B), A: c.A}
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}
