// Package geometry maps the logical LED matrix onto physical display pixels.
// Configured dot diameter and gap are advisory; the values derived here are
// what the compositor draws.
package geometry

import (
	"fmt"
	"image"
)

// Geometry is derived from display size and configuration, never persisted.
// Dot+Gap == Pitch, Dot >= 1 and Pitch >= 1 always hold.
type Geometry struct {
	Display image.Point
	Matrix  image.Point

	Pitch int
	Dot   int
	Gap   int
	// Inset centers the dot inside its pitch cell.
	Inset int

	// Sprite is the scaled matrix placed on the display.
	Sprite image.Rectangle
	// StatusBar is the strip reserved below the matrix area; empty when the
	// display has no room for it.
	StatusBar image.Rectangle
}

// Compute derives the render geometry. matrix must be non-empty.
func Compute(display image.Point, statusH int, matrix image.Point, diameter, gap int) Geometry {
	g := Geometry{Display: display, Matrix: matrix}
	if matrix.X < 1 {
		matrix.X = 1
	}
	if matrix.Y < 1 {
		matrix.Y = 1
	}
	if statusH < 0 {
		statusH = 0
	}

	areaH := display.Y - statusH
	if areaH < 1 {
		areaH = display.Y
	}
	pitch := min(display.X/matrix.X, areaH/matrix.Y)
	if pitch < 1 {
		pitch = 1
	}

	if gap < 0 {
		gap = 0
	}
	if gap > pitch-1 {
		gap = pitch - 1
	}
	if diameter < 1 {
		diameter = 1
	}
	dot := min(pitch-gap, diameter)
	if dot < 1 {
		dot = 1
	}

	g.Pitch = pitch
	g.Dot = dot
	g.Gap = pitch - dot
	g.Inset = (pitch - dot) / 2

	// The strip only exists beneath a matrix that fits above it. Otherwise
	// the matrix centers on the full height and the strip is dropped.
	sw, sh := matrix.X*pitch, matrix.Y*pitch
	barY := display.Y - statusH
	centerH := barY
	if barY < sh {
		centerH = display.Y
	}
	x0 := (display.X - sw) / 2
	y0 := (centerH - sh) / 2
	g.Sprite = image.Rect(x0, y0, x0+sw, y0+sh)

	if statusH > 0 && barY >= sh {
		g.StatusBar = image.Rect(0, barY, display.X, display.Y)
	}
	return g
}

// Cell returns the dot rectangle of matrix cell x,y relative to the sprite.
func (g Geometry) Cell(x, y int) image.Rectangle {
	x0 := x*g.Pitch + g.Inset
	y0 := y*g.Pitch + g.Inset
	return image.Rect(x0, y0, x0+g.Dot, y0+g.Dot)
}

func (g Geometry) String() string {
	return fmt.Sprintf("pitch=%d dot=%d gap=%d inset=%d", g.Pitch, g.Dot, g.Gap, g.Inset)
}
