package clock

import (
	"image"

	"github.com/coreman2200/funtimes-retroclock/internal/glyph"
)

// DigitGap is the blank column after a digit (inside a pair) and after a colon.
const DigitGap = 1

// Cell is one glyph position on the matrix. Digit is the index into the digit
// string, or -1 for a colon.
type Cell struct {
	Digit  int
	Origin image.Point
	Width  int
}

func (c Cell) Colon() bool { return c.Digit < 0 }

type Layout struct {
	Cells []Cell
	Width int
}

// NewLayout lays out HH:MM[:SS] centered on the matrix. A face wider than the
// matrix starts at column 0 and clips on the right.
func NewLayout(f glyph.Font, matrix image.Point, seconds bool) Layout {
	pairs := CellCount(seconds) / 2
	colons := pairs - 1
	total := pairs*2*f.W + colons*f.ColonW + (pairs+colons)*DigitGap

	x := max((matrix.X-total)/2, 0)
	y := max((matrix.Y-f.H)/2, 0)
	l := Layout{Width: total}
	for p := 0; p < pairs; p++ {
		if p > 0 {
			l.Cells = append(l.Cells, Cell{Digit: -1, Origin: image.Pt(x, y), Width: f.ColonW})
			x += f.ColonW + DigitGap
		}
		l.Cells = append(l.Cells, Cell{Digit: 2 * p, Origin: image.Pt(x, y), Width: f.W})
		x += f.W + DigitGap
		l.Cells = append(l.Cells, Cell{Digit: 2*p + 1, Origin: image.Pt(x, y), Width: f.W})
		x += f.W
	}
	return l
}

// Fits reports whether every cell lies inside matrix.
func (l Layout) Fits(f glyph.Font, matrix image.Point) bool {
	bounds := image.Rect(0, 0, matrix.X, matrix.Y)
	for _, c := range l.Cells {
		if !image.Rect(c.Origin.X, c.Origin.Y, c.Origin.X+c.Width, c.Origin.Y+f.H).In(bounds) {
			return false
		}
	}
	return true
}
