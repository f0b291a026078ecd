package surface

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"

	"github.com/coreman2200/funtimes-retroclock/internal/layout"
)

// Strip drives a WS2812 matrix, one pixel per LED, chained along the layout.
type Strip struct {
	*image.RGBA

	drawer display.Drawer
	layout layout.Layout
	line   *image.RGBA
	chain  []color.RGBA

	// Limit caps the frame's supply current; the zero value only passes
	// frames through.
	Limit Limiter

	mu         sync.Mutex
	brightness uint8
	// Hardware is false when no SPI port was found and frames go to the
	// console instead.
	Hardware bool
}

func NewStrip(d display.Drawer, l layout.Layout) *Strip {
	return &Strip{
		RGBA:       image.NewRGBA(image.Rect(0, 0, l.Dim.X, l.Dim.Y)),
		drawer:     d,
		layout:     l,
		line:       image.NewRGBA(image.Rect(0, 0, l.Count(), 1)),
		chain:      make([]color.RGBA, l.Count()),
		brightness: 255,
	}
}

// OpenStrip opens the named SPI port ("" for the first) through nrzled. With
// no port it prints frames to the console like the periph screen device.
// host.Init must already have run.
func OpenStrip(port string, l layout.Layout) (*Strip, error) {
	if l.Count() == 0 {
		return nil, fmt.Errorf("strip: empty layout")
	}
	p, err := spireg.Open(port)
	if err != nil {
		log.Warn().Err(err).Str("port", port).Msg("no SPI port; printing strip at the console")
		return NewStrip(screen.New(l.Count()), l), nil
	}
	opts := nrzled.Opts{
		NumPixels: l.Count(),
		Channels:  3,
		Freq:      2500 * physic.KiloHertz,
	}
	d, err := nrzled.NewSPI(p, &opts)
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("strip: %w", err)
	}
	_ = d.Halt()
	s := NewStrip(d, l)
	s.Hardware = true
	return s, nil
}

func (s *Strip) Name() string { return DriverStrip }

// Flush reorders the matrix into chain order, limits the current and draws
// it.
func (s *Strip) Flush() error {
	s.mu.Lock()
	b := s.brightness
	s.mu.Unlock()

	bounds := s.RGBA.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			i := s.layout.Index(x-bounds.Min.X, y-bounds.Min.Y)
			if i < 0 {
				continue
			}
			s.chain[i] = scaleRGBA(s.RGBAAt(x, y), b)
		}
	}
	s.Limit.Apply(s.chain)
	for i, c := range s.chain {
		s.line.SetRGBA(i, 0, c)
	}
	return s.drawer.Draw(s.drawer.Bounds(), s.line, image.Point{})
}

func (s *Strip) SetBrightness(v uint8) error {
	s.mu.Lock()
	s.brightness = v
	s.mu.Unlock()
	return nil
}

func (s *Strip) Close() error { return s.drawer.Halt() }
