package morph

import (
	"image"

	"github.com/coreman2200/funtimes-retroclock/internal/glyph"
)

// Crossfade blends two glyphs cell by cell: shared bits stay lit, bits only in
// from fade out linearly and bits only in to fade in.
type Crossfade struct {
	Steps int
}

func NewCrossfade(n int) *Crossfade { return &Crossfade{Steps: normSteps(n)} }

func (c *Crossfade) Name() string { return NameCrossfade }

func (c *Crossfade) Apply(dst Canvas, from, to glyph.Bitmap, step int, origin image.Point, width int) {
	n := normSteps(c.Steps)
	step = clampStep(step, n)
	width = clampWidth(width, to)
	for y := 0; y < to.Height(); y++ {
		for x := 0; x < width; x++ {
			a, b := from.At(x, y), to.At(x, y)
			var v uint8
			switch {
			case a && b:
				v = 255
			case a:
				v = scale255(n-step, n)
			case b:
				v = scale255(step, n)
			}
			plot(dst, origin, x, y, v)
		}
	}
}
