// Package mirror fans published framebuffer snapshots out to viewers and
// external panels.
package mirror

import "sync"

// Frame is one published snapshot. Pix is owned by the frame and must not be
// modified by receivers.
type Frame struct {
	ID   uint64
	W, H int
	Pix  []byte
}

// Hub delivers the newest frame to each subscriber. A slow subscriber skips
// frames instead of stalling the publisher.
type Hub struct {
	mu   sync.Mutex
	subs map[chan Frame]struct{}
	last Frame
	has  bool
}

func NewHub() *Hub { return &Hub{subs: map[chan Frame]struct{}{}} }

func (h *Hub) Publish(f Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last, h.has = f, true
	for ch := range h.subs {
		select {
		case ch <- f:
			continue
		default:
		}
		// full: drop the stale frame and queue this one
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- f:
		default:
		}
	}
}

// Latest returns the last published frame.
func (h *Hub) Latest() (Frame, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last, h.has
}

// Subscribe returns a frame channel and a func that closes it.
func (h *Hub) Subscribe(buffer int) (<-chan Frame, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Frame, buffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
