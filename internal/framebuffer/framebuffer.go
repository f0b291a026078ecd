// Package framebuffer holds the logical LED matrix: one 8-bit intensity per
// cell, row-major. It is owned by the render loop and carries no locking.
package framebuffer

// Default matrix size of the panel.
const (
	MatrixW = 64
	MatrixH = 32
)

type Buffer struct {
	w, h int
	pix  []uint8
}

func New(w, h int) *Buffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Buffer{w: w, h: h, pix: make([]uint8, w*h)}
}

func (b *Buffer) Width() int  { return b.w }
func (b *Buffer) Height() int { return b.h }
func (b *Buffer) Len() int    { return len(b.pix) }

// Clear sets every cell to v.
func (b *Buffer) Clear(v uint8) {
	for i := range b.pix {
		b.pix[i] = v
	}
}

// Set writes v at x,y. Writes outside the matrix are dropped.
func (b *Buffer) Set(x, y int, v uint8) {
	if x < 0 || y < 0 || x >= b.w || y >= b.h {
		return
	}
	b.pix[y*b.w+x] = v
}

// Get returns the intensity at x,y, or 0 outside the matrix.
func (b *Buffer) Get(x, y int) uint8 {
	if x < 0 || y < 0 || x >= b.w || y >= b.h {
		return 0
	}
	return b.pix[y*b.w+x]
}

// Snapshot returns a copy of the cells, exactly Width*Height bytes.
func (b *Buffer) Snapshot() []byte {
	out := make([]byte, len(b.pix))
	copy(out, b.pix)
	return out
}

// CopyTo copies as many cells as fit into dst and returns the count.
func (b *Buffer) CopyTo(dst []byte) int {
	return copy(dst, b.pix)
}
