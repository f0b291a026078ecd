package dimmer

// clamp01 clamps x in [0,1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// smootherstep: 6x^5 - 15x^4 + 10x^3
func smootherstep(x float64) float64 {
	return x * x * x * (x*(x*6-15) + 10)
}

func easeApply(kind string, x float64) float64 {
	switch kind {
	case "smooth":
		return x * x * (3 - 2*x)
	case "cubic":
		return smootherstep(x)
	default:
		return x
	}
}

func knownEase(kind string) bool {
	switch kind {
	case "", "linear", "smooth", "cubic":
		return true
	}
	return false
}

// Keyframe is a level at T seconds after midnight. Ease applies to the ramp
// that starts at this key.
type Keyframe struct {
	T    float64 `json:"t"`
	V    float64 `json:"v"`
	Ease string  `json:"ease,omitempty"`
}

// Envelope is a daily cycle of keyframes sorted by T. The ramp from the last
// key runs through midnight into the first.
type Envelope struct {
	Keys []Keyframe `json:"keys"`
}

// Eval returns the level at t seconds after midnight.
func (e Envelope) Eval(t float64) float64 {
	n := len(e.Keys)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return e.Keys[0].V
	}
	for i := 0; i < n-1; i++ {
		a, b := e.Keys[i], e.Keys[i+1]
		if t >= a.T && t <= b.T {
			return ramp(a, b, t-a.T, b.T-a.T)
		}
	}
	// wrap from the last key into the first across midnight
	a, b := e.Keys[n-1], e.Keys[0]
	span := day - a.T + b.T
	dt := t - a.T
	if t < b.T {
		dt = day - a.T + t
	}
	return ramp(a, b, dt, span)
}

func ramp(a, b Keyframe, dt, span float64) float64 {
	if span <= 0 {
		return b.V
	}
	u := easeApply(a.Ease, clamp01(dt/span))
	return a.V + (b.V-a.V)*u
}
