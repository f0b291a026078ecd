package clock

import (
	"image"

	"github.com/coreman2200/funtimes-retroclock/internal/glyph"
	"github.com/coreman2200/funtimes-retroclock/internal/morph"
)

// Face draws the tracker's digit string into a framebuffer, one morph or
// static pass per cell.
type Face struct {
	Tracker *Tracker

	glyphs   *glyph.Set
	layout   Layout
	matrix   image.Point
	morphs   *morph.Registry
	policy   morph.Morpher
	entrance morph.Morpher
}

// NewFace builds the glyphs and layout for font. policy names the morph used
// for digit-to-digit changes; cells coming from the placeholder always spawn.
func NewFace(font glyph.Font, matrix image.Point, tr *Tracker, morphs *morph.Registry, policy string) *Face {
	f := &Face{
		Tracker: tr,
		glyphs:  glyph.NewSet(font),
		matrix:  matrix,
		morphs:  morphs,
	}
	f.entrance, _ = morphs.Get(morph.NameSpawn)
	if f.entrance == nil {
		f.entrance = morph.NewSpawn(tr.Steps)
	}
	f.SetPolicy(policy)
	f.layout = NewLayout(font, matrix, tr.Seconds)
	return f
}

// SetPolicy selects the morph by name; unknown names fall back to spawn.
func (f *Face) SetPolicy(name string) {
	if m, ok := f.morphs.Get(name); ok {
		f.policy = m
		return
	}
	f.policy = f.entrance
}

func (f *Face) Policy() string { return f.policy.Name() }

// SetFormat forwards to the tracker and rebuilds the layout.
func (f *Face) SetFormat(use24h, seconds bool) {
	f.Tracker.SetFormat(use24h, seconds)
	f.layout = NewLayout(f.glyphs.Font, f.matrix, seconds)
}

// SetFont swaps the glyph set.
func (f *Face) SetFont(font glyph.Font) {
	if font == f.glyphs.Font {
		return
	}
	f.glyphs = glyph.NewSet(font)
	f.layout = NewLayout(font, f.matrix, f.Tracker.Seconds)
}

func (f *Face) Layout() Layout { return f.layout }

// Draw renders every cell into dst, which the caller has cleared, then
// advances the tracker by one step.
func (f *Face) Draw(dst morph.Canvas) {
	prev, curr := f.Tracker.Previous(), f.Tracker.Current()
	step := f.Tracker.Step()

	for _, c := range f.layout.Cells {
		if c.Colon() {
			morph.DrawSolid(dst, f.glyphs.Colon(), c.Origin, c.Width, 255)
			continue
		}
		if c.Digit >= len(curr) {
			continue
		}
		to := f.glyphs.Digit(curr[c.Digit])
		if !f.Tracker.Morphing(c.Digit) {
			morph.DrawSolid(dst, to, c.Origin, c.Width, 255)
			continue
		}
		var p byte = '-'
		if c.Digit < len(prev) {
			p = prev[c.Digit]
		}
		m := f.policy
		if !glyph.IsDigit(p) {
			m = f.entrance
		}
		m.Apply(dst, f.glyphs.Digit(p), to, step, c.Origin, c.Width)
	}
	f.Tracker.Tick()
}
