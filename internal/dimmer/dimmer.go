// Package dimmer turns a daily brightness schedule into backlight levels.
package dimmer

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/coreman2200/funtimes-retroclock/internal/config"
)

const day = 24 * 60 * 60

// Schedule evaluates an Envelope against wall-clock time.
type Schedule struct {
	env Envelope
}

// FromConfig parses "HH:MM" keys. Keys are sorted by time; a duplicate time
// or an unknown ease is an error.
func FromConfig(keys []config.DimKey) (*Schedule, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("dimmer: no keys")
	}
	env := Envelope{Keys: make([]Keyframe, 0, len(keys))}
	for _, k := range keys {
		at, err := time.Parse("15:04", k.At)
		if err != nil {
			return nil, fmt.Errorf("dimmer: key %q: %w", k.At, err)
		}
		if !knownEase(k.Ease) {
			return nil, fmt.Errorf("dimmer: key %q: unknown ease %q", k.At, k.Ease)
		}
		env.Keys = append(env.Keys, Keyframe{
			T:    float64(at.Hour()*3600 + at.Minute()*60),
			V:    float64(k.Level),
			Ease: k.Ease,
		})
	}
	sort.Slice(env.Keys, func(i, j int) bool { return env.Keys[i].T < env.Keys[j].T })
	for i := 1; i < len(env.Keys); i++ {
		if env.Keys[i].T == env.Keys[i-1].T {
			return nil, fmt.Errorf("dimmer: two keys at the same time")
		}
	}
	return &Schedule{env: env}, nil
}

// Level is the backlight level at t, in t's location.
func (s *Schedule) Level(t time.Time) uint8 {
	sec := float64(t.Hour()*3600+t.Minute()*60+t.Second()) + float64(t.Nanosecond())/1e9
	v := math.Round(s.env.Eval(sec))
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
