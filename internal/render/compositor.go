package render

import (
	"image"

	"github.com/coreman2200/funtimes-retroclock/internal/framebuffer"
	"github.com/coreman2200/funtimes-retroclock/internal/geometry"
	"github.com/coreman2200/funtimes-retroclock/internal/ledcolor"
	"github.com/coreman2200/funtimes-retroclock/internal/surface"
)

// Settings are the display inputs the compositor derives geometry from.
type Settings struct {
	StatusH      int
	Diameter     int
	Gap          int
	Color        ledcolor.ColorVal
	SpriteBudget int
}

// Compositor owns the geometry, the chosen renderer and the status strip for
// one surface.
type Compositor struct {
	dst      surface.Surface
	matrix   image.Point
	settings Settings
	geom     geometry.Geometry
	renderer Renderer
	status   *StatusStrip

	// Degraded holds why the buffered path was refused, nil when buffered.
	Degraded error
}

func NewCompositor(dst surface.Surface, matrix image.Point, s Settings) *Compositor {
	c := &Compositor{dst: dst, matrix: matrix, status: NewStatusStrip()}
	c.Reconfigure(s)
	return c
}

// Reconfigure recomputes geometry and rebuilds the renderer when the pitch
// changed or the surface has been resized.
func (c *Compositor) Reconfigure(s Settings) {
	prev := c.geom
	c.settings = s
	c.geom = geometry.Compute(c.dst.Bounds().Size(), s.StatusH, c.matrix, s.Diameter, s.Gap)
	if c.renderer == nil || prev.Sprite != c.geom.Sprite || c.renderer.Mode() == ModeDirect {
		c.renderer, c.Degraded = NewRenderer(c.dst, c.geom, s.SpriteBudget)
		// a new sprite position may leave stale pixels around it
		surface.Fill(c.dst, c.dst.Bounds(), ledcolor.RGB565(0))
	}
	c.status.Invalidate()
}

func (c *Compositor) Geometry() geometry.Geometry { return c.geom }
func (c *Compositor) Mode() string                { return c.renderer.Mode() }
func (c *Compositor) Status() *StatusStrip        { return c.status }

// Compose draws fb and the status strip, then flushes the surface.
func (c *Compositor) Compose(fb *framebuffer.Buffer, line1, line2 string) error {
	if err := c.renderer.Render(fb, c.geom, c.settings.Color); err != nil {
		return err
	}
	if c.renderer.Mode() == ModeDirect {
		c.status.Invalidate()
	}
	c.status.Draw(c.dst, c.geom.StatusBar, line1, line2)
	return c.dst.Flush()
}
