package clock

// Tracker holds the previous and current digit strings and the shared morph
// step. A cell whose character changed is Morphing until step reaches Steps,
// then Settled.
type Tracker struct {
	Steps   int
	Use24h  bool
	Seconds bool

	prev, curr string
	step       int
	lastSecond int
	timeText   string
	dateText   string
}

func NewTracker(steps int, use24h, seconds bool) *Tracker {
	if steps < 1 {
		steps = 1
	}
	t := &Tracker{Steps: steps, Use24h: use24h, Seconds: seconds}
	t.reset()
	return t
}

func (t *Tracker) reset() {
	p := Placeholder(CellCount(t.Seconds))
	t.prev, t.curr = p, p
	t.step = t.Steps
	t.lastSecond = -1
}

// SetFormat switches 12/24-hour and the seconds cells. Changing the cell
// count starts over from the placeholder; a 12/24 switch morphs on the next
// second.
func (t *Tracker) SetFormat(use24h, seconds bool) {
	t.Use24h = use24h
	if seconds != t.Seconds {
		t.Seconds = seconds
		t.reset()
		return
	}
	t.lastSecond = -1
}

// Update takes a reading and acts only when its seconds field differs from
// the last one seen. It reports whether a new morph started.
func (t *Tracker) Update(r Reading) bool {
	if r.Second == t.lastSecond {
		return false
	}
	t.lastSecond = r.Second
	t.timeText = FormatTime(r, t.Use24h)
	t.dateText = FormatDate(r)

	s := FormatDigits(r, t.Use24h, t.Seconds)
	if s == t.curr {
		return false
	}
	t.prev, t.curr = t.curr, s
	t.step = 0
	return true
}

// Tick advances the morph by one frame, saturating at Steps.
func (t *Tracker) Tick() {
	if t.step < t.Steps {
		t.step++
	}
}

func (t *Tracker) Step() int        { return t.step }
func (t *Tracker) Previous() string { return t.prev }
func (t *Tracker) Current() string  { return t.curr }

// Settled reports whether no cell is animating.
func (t *Tracker) Settled() bool { return t.step >= t.Steps }

// Morphing reports whether cell i is mid-transition.
func (t *Tracker) Morphing(i int) bool {
	if i < 0 || i >= len(t.curr) || t.step >= t.Steps {
		return false
	}
	if i >= len(t.prev) {
		return true
	}
	return t.prev[i] != t.curr[i]
}

// TimeText and DateText are the last formatted reading, empty before one.
func (t *Tracker) TimeText() string { return t.timeText }
func (t *Tracker) DateText() string { return t.dateText }
