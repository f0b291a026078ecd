package morph

import (
	"fmt"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-retroclock/internal/framebuffer"
	"github.com/coreman2200/funtimes-retroclock/internal/glyph"
)

func solid(bm glyph.Bitmap, origin image.Point) []byte {
	fb := framebuffer.New(framebuffer.MatrixW, framebuffer.MatrixH)
	DrawSolid(fb, bm, origin, bm.Width(), 255)
	return fb.Snapshot()
}

func apply(m Morpher, from, to glyph.Bitmap, step int, origin image.Point) *framebuffer.Buffer {
	fb := framebuffer.New(framebuffer.MatrixW, framebuffer.MatrixH)
	m.Apply(fb, from, to, step, origin, to.Width())
	return fb
}

func TestCrossfadeBoundariesReproduceGlyphs(t *testing.T) {
	origin := image.Point{X: 10, Y: 0}
	cf := NewCrossfade(DefaultSteps)
	for a := 0; a < 10; a++ {
		for b := 0; b < 10; b++ {
			from, to := glyph.BuildDigit(glyph.Tall, a), glyph.BuildDigit(glyph.Tall, b)
			assert.Equal(t, solid(from, origin), apply(cf, from, to, 0, origin).Snapshot(), "%d->%d step 0", a, b)
			assert.Equal(t, solid(to, origin), apply(cf, from, to, DefaultSteps, origin).Snapshot(), "%d->%d step N", a, b)
		}
	}
}

func TestCrossfadeMidpoint(t *testing.T) {
	from := glyph.Parse("##.", "...")
	to := glyph.Parse(".##", "...")
	fb := framebuffer.New(3, 2)
	NewCrossfade(20).Apply(fb, from, to, 5, image.Point{}, 3)

	assert.Equal(t, uint8(191), fb.Get(0, 0), "fading out")
	assert.Equal(t, uint8(255), fb.Get(1, 0), "shared")
	assert.Equal(t, uint8(63), fb.Get(2, 0), "fading in")
	assert.Equal(t, uint8(0), fb.Get(0, 1))
}

func TestCrossfadeStepIsClamped(t *testing.T) {
	from, to := glyph.BuildDigit(glyph.Tall, 1), glyph.BuildDigit(glyph.Tall, 7)
	cf := NewCrossfade(DefaultSteps)
	assert.Equal(t, apply(cf, from, to, DefaultSteps, image.Point{}).Snapshot(),
		apply(cf, from, to, DefaultSteps+5, image.Point{}).Snapshot())
	assert.Equal(t, apply(cf, from, to, 0, image.Point{}).Snapshot(),
		apply(cf, from, to, -3, image.Point{}).Snapshot())
}

func TestParticleBoundariesReproduceGlyphs(t *testing.T) {
	origin := image.Point{X: 20, Y: 0}
	pm := NewParticleMatch(DefaultSteps)
	for a := 0; a < 10; a++ {
		for b := 0; b < 10; b++ {
			t.Run(fmt.Sprintf("%d->%d", a, b), func(t *testing.T) {
				from, to := glyph.BuildDigit(glyph.Tall, a), glyph.BuildDigit(glyph.Tall, b)
				assert.Equal(t, solid(from, origin), apply(pm, from, to, 0, origin).Snapshot())
				assert.Equal(t, solid(to, origin), apply(pm, from, to, DefaultSteps, origin).Snapshot())
			})
		}
	}
}

func TestParticleGreedyTieBreak(t *testing.T) {
	pm := NewParticleMatch(DefaultSteps)
	pm.from.Collect(glyph.Parse(".#."), 0)
	pm.to.Collect(glyph.Parse("#.#"), 0)

	require.Equal(t, 1, pm.pair())
	assert.Equal(t, 0, pm.match[0], "equal distances keep the first candidate")
	assert.True(t, pm.used[0])
	assert.False(t, pm.used[1])
}

func TestParticleGreedyNearest(t *testing.T) {
	pm := NewParticleMatch(DefaultSteps)
	pm.from.Collect(glyph.Parse("#.#."), 0)
	pm.to.Collect(glyph.Parse(".#.#"), 0)

	require.Equal(t, 2, pm.pair())
	assert.Equal(t, 0, pm.match[0])
	assert.Equal(t, 1, pm.match[1])
}

func TestParticleFadeInUnmatched(t *testing.T) {
	from := glyph.Parse("#...")
	to := glyph.Parse("#.##")
	fb := framebuffer.New(4, 1)
	NewParticleMatch(20).Apply(fb, from, to, 10, image.Point{}, 4)

	assert.Equal(t, uint8(255), fb.Get(0, 0), "matched particle stays lit")
	assert.Equal(t, uint8(127), fb.Get(2, 0))
	assert.Equal(t, uint8(127), fb.Get(3, 0))
	assert.Equal(t, uint8(0), fb.Get(1, 0))
}

func TestParticleFadeOutUnmatched(t *testing.T) {
	from := glyph.Parse("##...")
	to := glyph.Parse("....#")
	fb := framebuffer.New(5, 1)
	NewParticleMatch(20).Apply(fb, from, to, 10, image.Point{}, 5)

	// from[0] is halfway to x=4, from[1] fades out at 1-t
	assert.Equal(t, uint8(255), fb.Get(2, 0))
	assert.Equal(t, uint8(127), fb.Get(1, 0))
	assert.Equal(t, uint8(0), fb.Get(0, 0))
	assert.Equal(t, uint8(0), fb.Get(4, 0))
}

func TestSpawn(t *testing.T) {
	sp := NewSpawn(DefaultSteps)
	to := glyph.BuildDigit(glyph.Tall, 4)
	origin := image.Point{X: 3}

	first := apply(sp, glyph.Bitmap{}, to, 0, origin)
	assert.Equal(t, make([]byte, framebuffer.MatrixW*framebuffer.MatrixH), first.Snapshot(), "step 0 is dark")

	assert.Equal(t, solid(to, origin), apply(sp, glyph.Bitmap{}, to, DefaultSteps, origin).Snapshot())

	mid := apply(sp, glyph.Bitmap{}, to, 10, origin)
	lit := 0
	for _, v := range mid.Snapshot() {
		if v != 0 {
			assert.Equal(t, byte(127), v)
			lit++
		}
	}
	assert.Greater(t, lit, 0)
	assert.Less(t, lit, to.Count(), "particles still converging overlap")
}

func TestSpawnConvergesFromCenter(t *testing.T) {
	sp := NewSpawn(20)
	to := glyph.Parse("#....", ".....", "....#")
	fb := framebuffer.New(5, 3)
	sp.Apply(fb, glyph.Bitmap{}, to, 1, image.Point{}, 5)

	// t=0.05, te=0.0975: both points are still at the center cell
	assert.Equal(t, uint8(12), fb.Get(2, 1))
	assert.Equal(t, uint8(0), fb.Get(0, 0))
	assert.Equal(t, uint8(0), fb.Get(4, 2))
}

func TestDrawSolidNativeHeight(t *testing.T) {
	fb := framebuffer.New(framebuffer.MatrixW, framebuffer.MatrixH)
	one := glyph.BuildDigit(glyph.Compact, 1)
	DrawSolid(fb, one, image.Pt(0, 4), one.Width(), 200)

	// the right bar covers glyph rows 1..22 with no gaps
	for y := 5; y <= 26; y++ {
		assert.Equal(t, uint8(200), fb.Get(12, y), "row %d", y)
	}
	assert.Equal(t, uint8(0), fb.Get(12, 4))
	assert.Equal(t, uint8(0), fb.Get(12, 27))
	assert.Equal(t, uint8(0), fb.Get(8, 10))
}

func TestDrawSolidClips(t *testing.T) {
	fb := framebuffer.New(framebuffer.MatrixW, framebuffer.MatrixH)
	eight := glyph.BuildDigit(glyph.Tall, 8)
	assert.NotPanics(t, func() {
		DrawSolid(fb, eight, image.Point{X: 60, Y: -4}, eight.Width(), 255)
	})
	assert.Equal(t, uint8(255), fb.Get(63, 0))
}

func TestRegistry(t *testing.T) {
	r := Builtin(DefaultSteps)
	assert.Equal(t, []string{NameCrossfade, NameParticle, NameSpawn}, r.List())

	m, ok := r.Get(NameParticle)
	require.True(t, ok)
	assert.Equal(t, NameParticle, m.Name())

	_, ok = r.Get("wipe")
	assert.False(t, ok)

	r.Register(nil)
	assert.Len(t, r.List(), 3)
}

func TestBuiltinRegistriesAreIndependent(t *testing.T) {
	a, b := Builtin(DefaultSteps), Builtin(DefaultSteps)
	for _, name := range a.List() {
		ma, _ := a.Get(name)
		mb, _ := b.Get(name)
		assert.NotSame(t, ma, mb, name)
	}
}
