package morph

import (
	"image"
	"math"

	"github.com/coreman2200/funtimes-retroclock/internal/glyph"
)

// Spawn assembles the target glyph out of a point at the cell's center. The
// positions ease out quadratically while brightness ramps linearly, so pixels
// light up before they reach their place.
type Spawn struct {
	Steps int

	to glyph.Particles
}

func NewSpawn(n int) *Spawn { return &Spawn{Steps: normSteps(n)} }

func (s *Spawn) Name() string { return NameSpawn }

// Apply ignores from.
func (s *Spawn) Apply(dst Canvas, _, to glyph.Bitmap, step int, origin image.Point, width int) {
	n := normSteps(s.Steps)
	width = clampWidth(width, to)

	t := float64(step) / float64(n)
	t = math.Max(0, math.Min(1, t))
	te := 1 - (1-t)*(1-t)
	alpha := uint8(255 * t)
	if alpha == 0 {
		return
	}

	sx := float64(width-1) * 0.5
	sy := float64(to.Height()-1) * 0.5

	s.to.Collect(to, width)
	for i := 0; i < s.to.Len(); i++ {
		p := s.to.At(i)
		x := int(math.Round(sx + (float64(p.X)-sx)*te))
		y := int(math.Round(sy + (float64(p.Y)-sy)*te))
		plot(dst, origin, x, y, alpha)
	}
}
