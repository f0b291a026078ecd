package framebuffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetGetClip(t *testing.T) {
	b := New(MatrixW, MatrixH)
	b.Set(3, 4, 200)
	assert.Equal(t, uint8(200), b.Get(3, 4))

	for _, p := range [][2]int{{-1, 0}, {0, -1}, {MatrixW, 0}, {0, MatrixH}, {1000, 1000}} {
		b.Set(p[0], p[1], 99)
		assert.Equal(t, uint8(0), b.Get(p[0], p[1]))
	}
	// clipped writes must not wrap into neighbouring rows
	assert.Equal(t, uint8(0), b.Get(0, 1))
	assert.Equal(t, uint8(0), b.Get(MatrixW-1, 0))
}

func TestClear(t *testing.T) {
	b := New(4, 2)
	b.Clear(7)
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, uint8(7), b.Get(x, y))
		}
	}
	b.Clear(0)
	assert.Equal(t, make([]byte, 8), b.Snapshot())
}

func TestSnapshotLenAndCopy(t *testing.T) {
	for _, dim := range [][2]int{{64, 32}, {16, 8}, {1, 1}, {0, 5}} {
		b := New(dim[0], dim[1])
		assert.Len(t, b.Snapshot(), dim[0]*dim[1])
	}

	b := New(MatrixW, MatrixH)
	b.Set(1, 0, 255)
	snap := b.Snapshot()
	assert.Equal(t, byte(255), snap[1])
	snap[1] = 0
	assert.Equal(t, uint8(255), b.Get(1, 0), "snapshot must not alias")

	dst := make([]byte, 4)
	assert.Equal(t, 4, b.CopyTo(dst))
	assert.Equal(t, []byte{0, 255, 0, 0}, dst)
}
