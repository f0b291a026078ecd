package glyph

import "image"

// ParticleCapacity bounds the points collected from one glyph.
const ParticleCapacity = 420

// Particles is a fixed-capacity arena of on-bit coordinates in glyph space.
// Bits past capacity are dropped and counted.
type Particles struct {
	pts     [ParticleCapacity]image.Point
	n       int
	Dropped int
}

// Collect resets p and fills it from the first width columns of bm in
// row-major scan order. A width outside 1..bm.Width() scans the whole glyph.
func (p *Particles) Collect(bm Bitmap, width int) {
	p.n = 0
	p.Dropped = 0
	if width <= 0 || width > bm.Width() {
		width = bm.Width()
	}
	for y := 0; y < bm.Height(); y++ {
		for x := 0; x < width; x++ {
			if !bm.At(x, y) {
				continue
			}
			if p.n >= ParticleCapacity {
				p.Dropped++
				continue
			}
			p.pts[p.n] = image.Point{X: x, Y: y}
			p.n++
		}
	}
}

func (p *Particles) Len() int { return p.n }

func (p *Particles) At(i int) image.Point { return p.pts[i] }
