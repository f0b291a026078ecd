// Package layout maps matrix coordinates to positions on a chained LED strip.
package layout

type Dim struct{ X, Y int }

type Serpentine struct {
	FlipEveryRow bool
	// FlipVertical starts the chain at the bottom row.
	FlipVertical bool
}

type Layout struct {
	Dim   Dim
	Order Serpentine
}

// Index maps x,y -> linear LED index (0..N-1). Out of range input returns -1.
func (l Layout) Index(x, y int) int {
	if x < 0 || y < 0 || x >= l.Dim.X || y >= l.Dim.Y {
		return -1
	}
	yy := y
	if l.Order.FlipVertical {
		yy = l.Dim.Y - 1 - y
	}
	xx := x
	if (yy%2 == 1) && l.Order.FlipEveryRow {
		xx = l.Dim.X - 1 - x
	}
	return yy*l.Dim.X + xx
}

func (l Layout) Count() int {
	return l.Dim.X * l.Dim.Y
}
