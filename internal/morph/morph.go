// Package morph animates one glyph cell from an old digit to a new one over a
// fixed number of steps. Each algorithm stamps intensities into a Canvas;
// the only state it keeps is its own scratch space.
package morph

import (
	"image"
	"math"
	"sort"

	"github.com/coreman2200/funtimes-retroclock/internal/glyph"
)

// DefaultSteps is the morph length in frames.
const DefaultSteps = 20

// Canvas is the write side of the logical framebuffer. Set must clip.
type Canvas interface {
	Set(x, y int, v uint8)
}

// Morpher draws step 0..N of a transition into dst. origin is the cell's
// top-left corner in framebuffer space and width the number of glyph columns
// to draw. Implementations keep scratch buffers between calls, so one
// Morpher (and its Registry) belongs to a single goroutine.
type Morpher interface {
	Name() string
	Apply(dst Canvas, from, to glyph.Bitmap, step int, origin image.Point, width int)
}

// Names of the built-in morphers.
const (
	NameCrossfade = "crossfade"
	NameSpawn     = "spawn"
	NameParticle  = "particle"
)

type Registry struct{ m map[string]Morpher }

func NewRegistry() *Registry { return &Registry{m: map[string]Morpher{}} }

// Builtin returns a registry holding the three stock morphers for n steps.
func Builtin(n int) *Registry {
	r := NewRegistry()
	r.Register(NewCrossfade(n))
	r.Register(NewSpawn(n))
	r.Register(NewParticleMatch(n))
	return r
}

func (r *Registry) Register(m Morpher) {
	if m == nil {
		return
	}
	r.m[m.Name()] = m
}

func (r *Registry) Get(name string) (Morpher, bool) { m, ok := r.m[name]; return m, ok }

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	out := make([]string, 0, len(r.m))
	for k := range r.m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DrawSolid stamps the on bits of bm at a fixed intensity.
func DrawSolid(dst Canvas, bm glyph.Bitmap, origin image.Point, width int, intensity uint8) {
	if intensity == 0 {
		return
	}
	width = clampWidth(width, bm)
	for y := 0; y < bm.Height(); y++ {
		for x := 0; x < width; x++ {
			if bm.At(x, y) {
				plot(dst, origin, x, y, intensity)
			}
		}
	}
}

// plot writes one glyph-space point at origin. Zero values are skipped; the
// canvas is cleared every frame.
func plot(dst Canvas, origin image.Point, x, y int, v uint8) {
	if v == 0 {
		return
	}
	dst.Set(origin.X+x, origin.Y+y, v)
}

func clampWidth(width int, bm glyph.Bitmap) int {
	if width <= 0 || width > bm.Width() {
		return bm.Width()
	}
	return width
}

func normSteps(n int) int {
	if n < 1 {
		return DefaultSteps
	}
	return n
}

func clampStep(step, n int) int {
	if step < 0 {
		return 0
	}
	if step > n {
		return n
	}
	return step
}

// scale255 returns 255*num/den truncated, den > 0.
func scale255(num, den int) uint8 {
	return uint8(255 * num / den)
}

func lerpRound(a, b int, t float64) int {
	return int(math.Round(float64(a) + float64(b-a)*t))
}
