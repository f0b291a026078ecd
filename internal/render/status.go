package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/coreman2200/funtimes-retroclock/internal/geometry"
	"github.com/coreman2200/funtimes-retroclock/internal/surface"
)

// StatusRefresh forces a status repaint even when the text is unchanged.
const StatusRefresh = time.Second

// DateUnknown is shown until the first time reading.
const DateUnknown = "----/--/--"

var (
	statusLine1 = color.RGBA{R: 0x00, G: 0xFF, B: 0xFF, A: 0xFF}
	statusLine2 = color.RGBA{R: 0xC6, G: 0xC3, B: 0xC6, A: 0xFF}
	statusRule  = color.RGBA{R: 0x7B, G: 0x7D, B: 0x7B, A: 0xFF}
)

// StatusLines formats the two strip lines: connectivity, then date and LED
// geometry as configured and as applied.
func StatusLines(network, date string, diameter, gap int, g geometry.Geometry) (string, string) {
	if date == "" {
		date = DateUnknown
	}
	return network, fmt.Sprintf("%s  LED: d%d g%d p%d (dot%d gap%d)", date, diameter, gap, g.Pitch, g.Dot, g.Gap)
}

// StatusStrip repaints the text strip only when its content changed or
// StatusRefresh elapsed.
type StatusStrip struct {
	Now func() time.Time

	line1, line2 string
	lastDraw     time.Time
	valid        bool
	draws        int
}

func NewStatusStrip() *StatusStrip { return &StatusStrip{Now: time.Now} }

// Invalidate forces the next Draw to repaint.
func (s *StatusStrip) Invalidate() { s.valid = false }

// Draws counts repaints.
func (s *StatusStrip) Draws() int { return s.draws }

// Draw paints the strip into bar on dst if needed and reports whether it did.
func (s *StatusStrip) Draw(dst draw.Image, bar image.Rectangle, line1, line2 string) bool {
	if bar.Empty() {
		return false
	}
	now := s.Now()
	changed := line1 != s.line1 || line2 != s.line2
	if s.valid && !changed && now.Sub(s.lastDraw) < StatusRefresh {
		return false
	}
	s.line1, s.line2 = line1, line2
	s.lastDraw = now
	s.valid = true
	s.draws++

	surface.Fill(dst, bar, color.Black)
	surface.Fill(dst, image.Rect(bar.Min.X, bar.Min.Y, bar.Max.X, bar.Min.Y+1), statusRule)

	d := &font.Drawer{Dst: dst, Face: basicfont.Face7x13}
	ascent := basicfont.Face7x13.Ascent
	d.Src = image.NewUniform(statusLine1)
	d.Dot = fixed.P(bar.Min.X+6, bar.Min.Y+6+ascent)
	d.DrawString(line1)
	d.Src = image.NewUniform(statusLine2)
	d.Dot = fixed.P(bar.Min.X+6, bar.Min.Y+24+ascent)
	d.DrawString(line2)
	return true
}
