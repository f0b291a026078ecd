package surface

import (
	"fmt"
	"image"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Panel is a periph display that can also set its own contrast, which serves
// as the backlight on OLEDs.
type Panel interface {
	display.Drawer
	SetContrast(level byte) error
}

// OLED draws into a 1-bit frame and ships it on Flush. Lit pixels are those
// at half brightness or more.
type OLED struct {
	*image1bit.VerticalLSB
	panel Panel
}

func NewOLED(p Panel) *OLED {
	return &OLED{VerticalLSB: image1bit.NewVerticalLSB(p.Bounds()), panel: p}
}

// OpenOLED opens an SSD1306 on the named I2C bus ("" picks the first one).
// host.Init must already have run.
func OpenOLED(bus string, w, h int) (*OLED, func() error, error) {
	b, err := i2creg.Open(bus)
	if err != nil {
		return nil, nil, fmt.Errorf("oled: open i2c %q: %w", bus, err)
	}
	opts := ssd1306.DefaultOpts
	if w > 0 && h > 0 {
		opts.W, opts.H = w, h
	}
	dev, err := ssd1306.NewI2C(b, &opts)
	if err != nil {
		_ = b.Close()
		return nil, nil, fmt.Errorf("oled: %w", err)
	}
	return NewOLED(dev), b.Close, nil
}

func (o *OLED) Name() string { return DriverOLED }

func (o *OLED) Flush() error {
	return o.panel.Draw(o.VerticalLSB.Bounds(), o.VerticalLSB, image.Point{})
}

func (o *OLED) SetBrightness(v uint8) error { return o.panel.SetContrast(v) }

func (o *OLED) Close() error { return o.panel.Halt() }
