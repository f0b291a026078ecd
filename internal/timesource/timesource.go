// Package timesource supplies wall-clock readings to the render loop. A
// reading may fail; callers keep whatever they showed last.
package timesource

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Read timeouts: the render loop must not stall a frame, the state endpoint
// can afford to wait a little longer.
const (
	FrameReadTimeout = 50 * time.Millisecond
	StateReadTimeout = 300 * time.Millisecond
)

// ErrNotSynced is returned before the first successful network sync.
var ErrNotSynced = errors.New("time not synchronized")

// Source yields the current local time.
type Source interface {
	Now(ctx context.Context) (time.Time, error)
}

// System reads the host clock.
type System struct {
	mu    sync.RWMutex
	loc   *time.Location
	clock func() time.Time
}

func NewSystem(loc *time.Location) *System {
	if loc == nil {
		loc = time.UTC
	}
	return &System{loc: loc, clock: time.Now}
}

func (s *System) SetLocation(loc *time.Location) {
	if loc == nil {
		loc = time.UTC
	}
	s.mu.Lock()
	s.loc = loc
	s.mu.Unlock()
}

func (s *System) Now(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clock().In(s.loc), nil
}

// Read calls src.Now bounded by timeout.
func Read(ctx context.Context, src Source, timeout time.Duration) (time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return src.Now(ctx)
}
