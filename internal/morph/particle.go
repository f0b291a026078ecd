package morph

import (
	"image"

	"github.com/coreman2200/funtimes-retroclock/internal/glyph"
)

// ParticleMatch moves each lit pixel of the old glyph to its nearest free
// pixel of the new one. Leftover target pixels fade in and leftover source
// pixels fade out.
//
// Matching is greedy in source scan order, not a minimal total assignment.
type ParticleMatch struct {
	Steps int

	from, to glyph.Particles
	match    [glyph.ParticleCapacity]int
	used     [glyph.ParticleCapacity]bool
}

func NewParticleMatch(n int) *ParticleMatch { return &ParticleMatch{Steps: normSteps(n)} }

func (p *ParticleMatch) Name() string { return NameParticle }

func (p *ParticleMatch) Apply(dst Canvas, from, to glyph.Bitmap, step int, origin image.Point, width int) {
	n := normSteps(p.Steps)
	step = clampStep(step, n)
	width = clampWidth(width, to)

	p.from.Collect(from, width)
	p.to.Collect(to, width)
	fromN, toN := p.from.Len(), p.to.Len()
	pairs := p.pair()

	t := float64(step) / float64(n)

	for i := 0; i < pairs; i++ {
		a := p.from.At(i)
		b := p.to.At(p.match[i])
		plot(dst, origin, lerpRound(a.X, b.X, t), lerpRound(a.Y, b.Y, t), 255)
	}

	if toN > fromN {
		alpha := uint8(255 * t)
		extra := toN - fromN
		for j := 0; j < toN && extra > 0; j++ {
			if p.used[j] {
				continue
			}
			q := p.to.At(j)
			plot(dst, origin, q.X, q.Y, alpha)
			extra--
		}
	}

	if fromN > toN {
		alpha := uint8(255 * (1 - t))
		for i := toN; i < fromN; i++ {
			q := p.from.At(i)
			plot(dst, origin, q.X, q.Y, alpha)
		}
	}
}

// pair fills match/used for the current particle sets and returns the number
// of matched pairs. Ties keep the first candidate found; with no free target
// left a source falls back to index 0.
func (p *ParticleMatch) pair() int {
	fromN, toN := p.from.Len(), p.to.Len()
	for j := 0; j < toN; j++ {
		p.used[j] = false
	}
	pairs := fromN
	if toN < pairs {
		pairs = toN
	}
	for i := 0; i < pairs; i++ {
		a := p.from.At(i)
		best, bestD := -1, int(^uint(0)>>1)
		for j := 0; j < toN; j++ {
			if p.used[j] {
				continue
			}
			if d := dist2(a, p.to.At(j)); d < bestD {
				best, bestD = j, d
			}
		}
		if best < 0 {
			best = 0
		}
		p.match[i] = best
		p.used[best] = true
	}
	return pairs
}

func dist2(a, b image.Point) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}
