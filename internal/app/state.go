package app

import (
	"context"
	"time"

	"github.com/coreman2200/funtimes-retroclock/internal/config"
	"github.com/coreman2200/funtimes-retroclock/internal/geometry"
	"github.com/coreman2200/funtimes-retroclock/internal/mirror"
	"github.com/coreman2200/funtimes-retroclock/internal/netinfo"
	"github.com/coreman2200/funtimes-retroclock/internal/render"
	"github.com/coreman2200/funtimes-retroclock/internal/timesource"
)

// TimeUnknown is shown until the first time reading.
const TimeUnknown = "--:--:--"

// State is the read-only view published after every frame.
type State struct {
	Time       string
	Date       string
	Digits     string
	Net        netinfo.Info
	Config     *config.Config
	Geometry   geometry.Geometry
	Mode       string
	Morph      string
	Test       string
	Brightness uint8
	FrameID    uint64
	FPS        float64
	TimeOK     bool
	Uptime     time.Duration
}

// publish copies the frame and state out for readers on other goroutines,
// then fans the snapshot out to mirror subscribers.
func (c *Core) publish() {
	st := State{
		Time:       c.tracker.TimeText(),
		Date:       c.tracker.DateText(),
		Digits:     c.tracker.Current(),
		Net:        c.net,
		Config:     c.cfg.Clone(),
		Geometry:   c.comp.Geometry(),
		Mode:       c.comp.Mode(),
		Morph:      c.face.Policy(),
		Brightness: c.level,
		FrameID:    c.frames,
		FPS:        c.fps,
		TimeOK:     c.timeOK,
		Uptime:     time.Since(c.start),
	}
	if st.Time == "" {
		st.Time = TimeUnknown
	}
	if st.Date == "" {
		st.Date = render.DateUnknown
	}
	if c.runner != nil {
		st.Test = string(c.runner.Kind())
	}

	pix := make([]byte, c.fb.Len())
	c.fb.CopyTo(pix)

	c.mu.Lock()
	copy(c.snapshot, pix)
	c.state = st
	c.mu.Unlock()

	c.hub.Publish(mirror.Frame{ID: st.FrameID, W: c.fb.Width(), H: c.fb.Height(), Pix: pix})
}

// Snapshot returns the last frame, one byte per cell, row-major. The length
// is always MatrixW*MatrixH.
func (c *Core) Snapshot() []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]byte(nil), c.snapshot...)
}

// DisplayState returns the state published with the last frame. Config is
// a private copy.
func (c *Core) DisplayState() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st := c.state
	st.Config = st.Config.Clone()
	return st
}

// ReadTime asks the time source directly, bounded by StateReadTimeout.
// Sources are safe for concurrent use, so this may run beside the loop.
func (c *Core) ReadTime(ctx context.Context) (time.Time, error) {
	return timesource.Read(ctx, c.src, timesource.StateReadTimeout)
}
