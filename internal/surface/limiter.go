package surface

import (
	"image/color"
	"math"
)

// ChannelMilliAmps is the draw of one WS2812 channel at full scale.
const ChannelMilliAmps = 20.0

// Limiter keeps a strip frame inside a supply budget. It runs in two stages:
//  1. a per-LED white cap scales R+G+B down to WhiteCap (0..765, 0 = off)
//  2. a global budget estimates the frame's current and scales the whole
//     frame linearly so it stays under BudgetMA
//
// Past Knee*BudgetMA the estimated current is compressed exponentially
// towards BudgetMA, so it approaches the budget without reaching it. A zero
// BudgetMA disables the second stage.
type Limiter struct {
	BudgetMA float64
	ChanMA   float64 // default ChannelMilliAmps
	WhiteCap int
	Knee     float64 // default 0.9
}

// Current estimates the draw of pix in mA.
func (l Limiter) Current(pix []color.RGBA) float64 {
	chanMA := l.ChanMA
	if chanMA <= 0 {
		chanMA = ChannelMilliAmps
	}
	var total float64
	for _, c := range pix {
		total += float64(int(c.R)+int(c.G)+int(c.B)) / 255 * chanMA
	}
	return total
}

// Apply limits pix in place and returns the global scale it used.
func (l Limiter) Apply(pix []color.RGBA) float64 {
	if l.WhiteCap > 0 {
		for i, c := range pix {
			sum := int(c.R) + int(c.G) + int(c.B)
			if sum > l.WhiteCap {
				pix[i] = scaleBy(c, float64(l.WhiteCap)/float64(sum))
			}
		}
	}

	if l.BudgetMA <= 0 {
		return 1
	}
	total := l.Current(pix)
	if total <= 0 {
		return 1
	}
	knee := l.Knee
	if knee <= 0 || knee >= 1 {
		knee = 0.9
	}

	start := knee * l.BudgetMA
	if total <= start {
		return 1
	}
	room := l.BudgetMA - start
	out := start + room*(1-math.Exp(-(total-start)/room))
	s := out / total
	for i, c := range pix {
		pix[i] = scaleBy(c, s)
	}
	return s
}

// scaleBy truncates, so a scaled frame never rounds back over budget.
func scaleBy(c color.RGBA, s float64) color.RGBA {
	f := func(ch uint8) uint8 { return uint8(float64(ch) * s) }
	return color.RGBA{R: f(c.R), G: f(c.G), B: f(c.B), A: c.A}
}
