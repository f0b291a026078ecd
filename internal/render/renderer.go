// Package render projects the logical framebuffer onto a display surface:
// color scaling, dot placement, buffering, and the status strip below the
// matrix.
package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/coreman2200/funtimes-retroclock/internal/framebuffer"
	"github.com/coreman2200/funtimes-retroclock/internal/geometry"
	"github.com/coreman2200/funtimes-retroclock/internal/ledcolor"
	"github.com/coreman2200/funtimes-retroclock/internal/surface"
)

// Render modes.
const (
	ModeBuffered = "buffered"
	ModeDirect   = "direct"
)

// Renderer draws one framebuffer pass onto its surface.
type Renderer interface {
	Mode() string
	Render(fb *framebuffer.Buffer, g geometry.Geometry, base ledcolor.ColorVal) error
}

// Buffered composites into an off-screen sprite and blits it in one go, so
// the panel never shows a half drawn frame.
type Buffered struct {
	dst    surface.Surface
	sprite *Sprite
}

func (b *Buffered) Mode() string { return ModeBuffered }

func (b *Buffered) Render(fb *framebuffer.Buffer, g geometry.Geometry, base ledcolor.ColorVal) error {
	b.sprite.Fill(0)
	walk(fb, g, base, func(r image.Rectangle, c ledcolor.ColorVal) {
		b.sprite.FillRect(r, c.RGB565())
	})
	draw.Draw(b.dst, g.Sprite, b.sprite, image.Point{}, draw.Src)
	return nil
}

// Direct clears the whole surface and draws every dot in place. It touches
// the status strip, so the compositor repaints that every frame.
type Direct struct {
	dst surface.Surface
}

func (d *Direct) Mode() string { return ModeDirect }

func (d *Direct) Render(fb *framebuffer.Buffer, g geometry.Geometry, base ledcolor.ColorVal) error {
	surface.Fill(d.dst, d.dst.Bounds(), color.Black)
	off := g.Sprite.Min
	walk(fb, g, base, func(r image.Rectangle, c ledcolor.ColorVal) {
		// round-trip through 565 so both paths show the same colors
		surface.Fill(d.dst, r.Add(off), ledcolor.RGB565(c.RGB565()))
	})
	return nil
}

// NewRenderer prefers the buffered path. When the sprite cannot be allocated
// it returns a Direct renderer together with the reason; the renderer is
// usable either way.
func NewRenderer(dst surface.Surface, g geometry.Geometry, budget int) (Renderer, error) {
	sp, err := NewSprite(g.Sprite.Dx(), g.Sprite.Dy(), budget)
	if err != nil {
		return &Direct{dst: dst}, err
	}
	return &Buffered{dst: dst, sprite: sp}, nil
}

// walk visits every lit cell with its dot rectangle in sprite space and the
// base color scaled by the cell's intensity.
func walk(fb *framebuffer.Buffer, g geometry.Geometry, base ledcolor.ColorVal, fn func(image.Rectangle, ledcolor.ColorVal)) {
	for y := 0; y < fb.Height(); y++ {
		for x := 0; x < fb.Width(); x++ {
			v := fb.Get(x, y)
			if v == 0 {
				continue
			}
			fn(g.Cell(x, y), base.Scale(v))
		}
	}
}
