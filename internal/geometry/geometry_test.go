package geometry

import (
	"fmt"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

var matrix = image.Pt(64, 32)

func TestComputeCYD(t *testing.T) {
	g := Compute(image.Pt(320, 240), 50, matrix, 5, 0)
	assert.Equal(t, 5, g.Pitch)
	assert.Equal(t, 5, g.Dot)
	assert.Equal(t, 0, g.Gap)
	assert.Equal(t, 0, g.Inset)
	// 190px matrix area, 160px sprite
	assert.Equal(t, image.Rect(0, 15, 320, 175), g.Sprite)
	assert.Equal(t, image.Rect(0, 190, 320, 240), g.StatusBar)
}

func TestComputeClampsGap(t *testing.T) {
	g := Compute(image.Pt(320, 240), 50, matrix, 10, 8)
	assert.Equal(t, 5, g.Pitch)
	assert.Equal(t, 4, g.Gap)
	assert.Equal(t, 1, g.Dot)
	assert.Equal(t, 2, g.Inset)
}

func TestComputeDiameterLimitsDot(t *testing.T) {
	g := Compute(image.Pt(320, 240), 50, matrix, 3, 0)
	assert.Equal(t, 3, g.Dot)
	assert.Equal(t, 2, g.Gap)
	assert.Equal(t, 1, g.Inset)
	assert.Equal(t, image.Rect(5*2+1, 5*3+1, 5*2+4, 5*3+4), g.Cell(2, 3))
}

func TestComputeStatusLargerThanDisplay(t *testing.T) {
	// no room for the strip: the whole height is used
	g := Compute(image.Pt(128, 40), 50, matrix, 5, 0)
	assert.Equal(t, 1, g.Pitch)
	assert.Equal(t, image.Rect(32, 4, 96, 36), g.Sprite)
	assert.True(t, g.StatusBar.Empty())
}

func TestComputeSpriteTallerThanArea(t *testing.T) {
	// a 30px matrix area floors the pitch to 1 and the 32px sprite centers
	// on the full height
	g := Compute(image.Pt(128, 80), 50, matrix, 5, 0)
	assert.Equal(t, 1, g.Pitch)
	assert.Equal(t, image.Rect(32, 24, 96, 56), g.Sprite)
	assert.True(t, g.StatusBar.Empty())
}

func TestComputeOLEDDropsStrip(t *testing.T) {
	// 128x64 with a 50px strip leaves 14px, less than the 32px matrix
	g := Compute(image.Pt(128, 64), 50, matrix, 5, 0)
	assert.Equal(t, 1, g.Pitch)
	assert.Equal(t, image.Rect(32, 16, 96, 48), g.Sprite)
	assert.True(t, g.StatusBar.Empty())

	// a strip that leaves room for the matrix is kept
	g = Compute(image.Pt(128, 64), 20, matrix, 5, 0)
	assert.Equal(t, image.Rect(32, 6, 96, 38), g.Sprite)
	assert.Equal(t, image.Rect(0, 44, 128, 64), g.StatusBar)
}

func TestComputeInvariants(t *testing.T) {
	for w := 64; w <= 480; w += 37 {
		for h := 32; h <= 320; h += 29 {
			for d := -2; d <= 12; d++ {
				for gap := -2; gap <= 10; gap++ {
					g := Compute(image.Pt(w, h), 50, matrix, d, gap)
					msg := fmt.Sprintf("%dx%d d%d g%d -> %v", w, h, d, gap, g)
					if !assert.GreaterOrEqual(t, g.Pitch, 1, msg) ||
						!assert.GreaterOrEqual(t, g.Dot, 1, msg) ||
						!assert.Equal(t, g.Pitch, g.Dot+g.Gap, msg) ||
						!assert.GreaterOrEqual(t, g.Gap, 0, msg) {
						return
					}
					assert.LessOrEqual(t, g.Sprite.Dx(), w, msg)
					assert.True(t, g.Sprite.In(image.Rect(0, 0, w, h)), msg)
					assert.False(t, g.Sprite.Overlaps(g.StatusBar), msg)
				}
			}
		}
	}
}
