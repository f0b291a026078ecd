package surface

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
)

// Memory is a headless surface. Flush publishes the back buffer as the shown
// frame, readable from other goroutines.
type Memory struct {
	*image.RGBA

	mu         sync.RWMutex
	shown      *image.RGBA
	flushes    int
	brightness uint8
}

func NewMemory(w, h int) *Memory {
	r := image.Rect(0, 0, w, h)
	return &Memory{RGBA: image.NewRGBA(r), shown: image.NewRGBA(r), brightness: 255}
}

func (m *Memory) Name() string { return DriverSim }

func (m *Memory) Flush() error {
	m.mu.Lock()
	copy(m.shown.Pix, m.RGBA.Pix)
	m.flushes++
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) SetBrightness(v uint8) error {
	m.mu.Lock()
	m.brightness = v
	m.mu.Unlock()
	return nil
}

func (m *Memory) Brightness() uint8 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.brightness
}

func (m *Memory) Flushes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flushes
}

// ShownAt reads a pixel of the last flushed frame.
func (m *Memory) ShownAt(x, y int) color.RGBA {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.shown.RGBAAt(x, y)
}

// WritePNG encodes the last flushed frame, dimmed by the backlight level.
func (m *Memory) WritePNG(w io.Writer) error {
	m.mu.RLock()
	img := image.NewRGBA(m.shown.Rect)
	b := m.brightness
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		for x := img.Rect.Min.X; x < img.Rect.Max.X; x++ {
			img.SetRGBA(x, y, scaleRGBA(m.shown.RGBAAt(x, y), b))
		}
	}
	m.mu.RUnlock()
	return png.Encode(w, img)
}
