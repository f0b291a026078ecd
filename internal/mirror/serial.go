package mirror

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

// Frame header on the serial link: two sync bytes, width, height.
const (
	Sync0 = 0xA5
	Sync1 = 0x5A

	DefaultBaud = 921600
)

// Encode builds the wire form of f.
func Encode(f Frame) ([]byte, error) {
	if f.W <= 0 || f.W > 255 || f.H <= 0 || f.H > 255 {
		return nil, fmt.Errorf("mirror: frame %dx%d does not fit the header", f.W, f.H)
	}
	if len(f.Pix) != f.W*f.H {
		return nil, fmt.Errorf("mirror: frame has %d bytes, want %d", len(f.Pix), f.W*f.H)
	}
	b := make([]byte, 0, 4+len(f.Pix))
	b = append(b, Sync0, Sync1, byte(f.W), byte(f.H))
	return append(b, f.Pix...), nil
}

// SerialSink streams frames to a panel controller on a serial port.
type SerialSink struct {
	port io.WriteCloser
	errs int
}

func NewSerialSink(w io.WriteCloser) *SerialSink { return &SerialSink{port: w} }

// OpenSerial opens dev at baud, 8N1.
func OpenSerial(dev string, baud int) (*SerialSink, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(dev, mode)
	if err != nil {
		return nil, fmt.Errorf("mirror: open %s: %w", dev, err)
	}
	return NewSerialSink(p), nil
}

func (s *SerialSink) Write(f Frame) error {
	b, err := Encode(f)
	if err != nil {
		return err
	}
	n, err := s.port.Write(b)
	if err != nil {
		return err
	}
	if n < len(b) {
		return fmt.Errorf("mirror: wrote only %d of %d bytes", n, len(b))
	}
	return nil
}

// Run forwards hub frames until ctx is done, then closes the port. Write
// errors are logged at most once a second.
func (s *SerialSink) Run(ctx context.Context, h *Hub) {
	frames, cancel := h.Subscribe(1)
	defer cancel()
	defer s.port.Close()
	var lastLog time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case f, ok := <-frames:
			if !ok {
				return
			}
			if err := s.Write(f); err != nil {
				s.errs++
				if time.Since(lastLog) >= time.Second {
					log.Warn().Err(err).Int("errors", s.errs).Msg("serial mirror write failed")
					lastLog = time.Now()
				}
			}
		}
	}
}
