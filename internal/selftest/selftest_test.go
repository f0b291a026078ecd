package selftest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coreman2200/funtimes-retroclock/internal/framebuffer"
)

func lit(fb *framebuffer.Buffer) int {
	n := 0
	for y := 0; y < fb.Height(); y++ {
		for x := 0; x < fb.Width(); x++ {
			if fb.Get(x, y) != 0 {
				n++
			}
		}
	}
	return n
}

func TestIndexSweep(t *testing.T) {
	fb := framebuffer.New(64, 32)
	r := NewRunner(Plan{Kind: IndexSweep, Stride: 64})
	frames := 0
	for r.Step(fb) {
		assert.Equal(t, 64, lit(fb))
		assert.Equal(t, uint8(255), fb.Get(0, frames), "row %d", frames)
		frames++
	}
	assert.Equal(t, 32, frames)
	assert.Equal(t, 0, lit(fb))
}

func TestFillAndChecker(t *testing.T) {
	fb := framebuffer.New(64, 32)
	r := NewRunner(Plan{Kind: Fill, Frames: 2})
	assert.True(t, r.Step(fb))
	assert.Equal(t, 2048, lit(fb))
	assert.True(t, r.Step(fb))
	assert.False(t, r.Step(fb))

	r = NewRunner(Plan{Kind: Checker, Frames: checkerPeriod + 1})
	for i := 0; i < checkerPeriod; i++ {
		assert.True(t, r.Step(fb))
	}
	assert.Equal(t, uint8(255), fb.Get(0, 0))
	assert.True(t, r.Step(fb))
	assert.Equal(t, uint8(0), fb.Get(0, 0), "phase flips")
	assert.Equal(t, uint8(255), fb.Get(1, 0))
	assert.Equal(t, 1024, lit(fb))
	assert.False(t, r.Step(fb))
}

func TestParse(t *testing.T) {
	k, ok := Parse("checker")
	assert.True(t, ok)
	assert.Equal(t, Checker, k)
	_, ok = Parse("plane_z")
	assert.False(t, ok)
	assert.False(t, NewRunner(Plan{}).Step(framebuffer.New(4, 4)))
}
