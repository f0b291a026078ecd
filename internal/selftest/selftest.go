// Package selftest draws panel test patterns in place of the clock face.
package selftest

import "github.com/coreman2200/funtimes-retroclock/internal/framebuffer"

type Kind string

const (
	None       Kind = ""
	IndexSweep Kind = "index_sweep"
	Fill       Kind = "fill"
	Checker    Kind = "checker"
)

// Kinds lists the runnable patterns.
var Kinds = []Kind{IndexSweep, Fill, Checker}

func Parse(name string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == name {
			return k, true
		}
	}
	return None, false
}

// Plan picks a pattern. Stride is how many cells the sweep advances per
// frame; Frames bounds fill and checker.
type Plan struct {
	Kind   Kind
	Stride int
	Frames int
}

const (
	defaultStride = 16
	defaultFrames = 60
	checkerPeriod = 15
)

type Runner struct {
	plan Plan
	step int
}

func NewRunner(plan Plan) *Runner {
	if plan.Stride <= 0 {
		plan.Stride = defaultStride
	}
	if plan.Frames <= 0 {
		plan.Frames = defaultFrames
	}
	return &Runner{plan: plan}
}

func (r *Runner) Kind() Kind { return r.plan.Kind }

// Step draws the next frame into fb (clearing it first) and returns false
// once the pattern is complete, leaving fb blank.
func (r *Runner) Step(fb *framebuffer.Buffer) bool {
	fb.Clear(0)
	n := fb.Len()
	w := fb.Width()

	switch r.plan.Kind {
	case IndexSweep:
		start := r.step * r.plan.Stride
		if start >= n {
			return false
		}
		for i := start; i < start+r.plan.Stride && i < n; i++ {
			fb.Set(i%w, i/w, 255)
		}
	case Fill:
		if r.step >= r.plan.Frames {
			return false
		}
		fb.Clear(255)
	case Checker:
		if r.step >= r.plan.Frames {
			return false
		}
		phase := (r.step / checkerPeriod) % 2
		for y := 0; y < fb.Height(); y++ {
			for x := 0; x < w; x++ {
				if (x+y)%2 == phase {
					fb.Set(x, y, 255)
				}
			}
		}
	default:
		return false
	}
	r.step++
	return true
}
