package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/coreman2200/funtimes-retroclock/internal/ledcolor"
)

// ErrSpriteBudget means the off-screen buffer does not fit in memory.
var ErrSpriteBudget = errors.New("sprite exceeds memory budget")

// Sprite is an off-screen RGB565 buffer, the panel's native depth.
type Sprite struct {
	Pix    []uint16
	Rect   image.Rectangle
	Stride int
}

// NewSprite allocates a w x h sprite if w*h*2 bytes fit in budget. A budget
// of zero or less means no limit.
func NewSprite(w, h, budget int) (*Sprite, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("sprite %dx%d: empty", w, h)
	}
	if need := w * h * 2; budget > 0 && need > budget {
		return nil, fmt.Errorf("sprite %dx%d needs %d bytes of %d: %w", w, h, need, budget, ErrSpriteBudget)
	}
	return &Sprite{Pix: make([]uint16, w*h), Rect: image.Rect(0, 0, w, h), Stride: w}, nil
}

func (s *Sprite) Bounds() image.Rectangle { return s.Rect }
func (s *Sprite) ColorModel() color.Model { return ledcolor.RGB565Model }

func (s *Sprite) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(s.Rect)) {
		return ledcolor.RGB565(0)
	}
	return ledcolor.RGB565(s.Pix[s.PixOffset(x, y)])
}

func (s *Sprite) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}.In(s.Rect)) {
		return
	}
	s.Pix[s.PixOffset(x, y)] = uint16(ledcolor.RGB565Model.Convert(c).(ledcolor.RGB565))
}

func (s *Sprite) PixOffset(x, y int) int {
	return (y-s.Rect.Min.Y)*s.Stride + (x - s.Rect.Min.X)
}

// Fill sets every pixel to c.
func (s *Sprite) Fill(c uint16) {
	for i := range s.Pix {
		s.Pix[i] = c
	}
}

// FillRect paints r, clipped to the sprite, with c.
func (s *Sprite) FillRect(r image.Rectangle, c uint16) {
	r = r.Intersect(s.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := s.PixOffset(r.Min.X, y)
		for i := 0; i < r.Dx(); i++ {
			s.Pix[row+i] = c
		}
	}
}
