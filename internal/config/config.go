package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/funtimes-retroclock/internal/glyph"
	"github.com/coreman2200/funtimes-retroclock/internal/morph"
)

type Surface struct {
	Driver string `yaml:"driver"` // "sim" | "term" | "oled" | "strip"
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`

	SPIPort    string `yaml:"spi_port,omitempty"` // strip, "" for the first port
	I2CBus     string `yaml:"i2c_bus,omitempty"`  // oled, "" for the first bus
	Serpentine bool   `yaml:"serpentine"`
	FlipY      bool   `yaml:"flip_y,omitempty"`
	// strip supply budget in mA, 0 for unlimited
	BudgetMA float64 `yaml:"budget_ma,omitempty"`
	ChanMA   float64 `yaml:"led_chan_ma,omitempty"`
}

type HTTP struct {
	Addr string `yaml:"addr"`
}

type Mirror struct {
	SerialPort string `yaml:"serial_port,omitempty"`
	Baud       int    `yaml:"baud,omitempty"`
}

// DimKey sets the backlight level at a time of day ("HH:MM"). Ease shapes
// the ramp towards the next key.
type DimKey struct {
	At    string `yaml:"at"`
	Level int    `yaml:"level"`
	Ease  string `yaml:"ease,omitempty"` // "linear","smooth","cubic"
}

type Dimmer struct {
	Enabled bool     `yaml:"enabled"`
	Keys    []DimKey `yaml:"keys,omitempty"`
}

type Config struct {
	TZ      string `yaml:"tz"`
	NTP     string `yaml:"ntp"`
	Use24h  bool   `yaml:"use24h"`
	Seconds bool   `yaml:"seconds"`

	LEDDiameter int    `yaml:"led_diameter"`
	LEDGap      int    `yaml:"led_gap"`
	LEDColor    uint32 `yaml:"led_color"`
	Brightness  int    `yaml:"brightness"`

	Morph string `yaml:"morph"`
	Font  string `yaml:"font"`
	FPS   int    `yaml:"fps"`

	StatusBarH   int `yaml:"status_bar_h"`
	SpriteBudget int `yaml:"sprite_budget_bytes"`

	Surface Surface `yaml:"surface"`
	HTTP    HTTP    `yaml:"http"`
	Mirror  Mirror  `yaml:"mirror,omitempty"`
	Dimmer  Dimmer  `yaml:"dimmer,omitempty"`
}

// Defaults of a fresh install.
const (
	DefaultDiameter   = 5
	DefaultGap        = 0
	DefaultColor      = 0xFF0000
	DefaultBrightness = 255
	DefaultFPS        = 30
	DefaultStatusBarH = 50
	DefaultTZ         = "Sydney, Australia"
	DefaultNTP        = "pool.ntp.org"
)

// Bounds applied by Clamp.
const (
	MinDiameter, MaxDiameter = 1, 10
	MinGap, MaxGap           = 0, 8
	MinFPS, MaxFPS           = 1, 60
)

func Default() *Config {
	return &Config{
		TZ:          DefaultTZ,
		NTP:         DefaultNTP,
		Use24h:      true,
		Seconds:     true,
		LEDDiameter: DefaultDiameter,
		LEDGap:      DefaultGap,
		LEDColor:    DefaultColor,
		Brightness:  DefaultBrightness,
		Morph:       morph.NameSpawn,
		Font:        glyph.Tall.Name,
		FPS:         DefaultFPS,
		StatusBarH:  DefaultStatusBarH,
		Surface:     Surface{Driver: "sim", Width: 320, Height: 240, Serpentine: true},
		HTTP:        HTTP{Addr: ":8080"},
	}
}

// Load reads path over the defaults, so absent fields keep default values.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	c.Clamp()
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cc := *c
	cc.Dimmer.Keys = append([]DimKey(nil), c.Dimmer.Keys...)
	return &cc
}

// Clamp forces every field into its safe range.
func (c *Config) Clamp() {
	c.LEDDiameter = clamp(c.LEDDiameter, MinDiameter, MaxDiameter)
	c.LEDGap = clamp(c.LEDGap, MinGap, MaxGap)
	c.Brightness = clamp(c.Brightness, 0, 255)
	c.LEDColor &= 0xFFFFFF
	c.FPS = clamp(c.FPS, MinFPS, MaxFPS)
	if c.StatusBarH < 0 {
		c.StatusBarH = 0
	}
	if c.SpriteBudget < 0 {
		c.SpriteBudget = 0
	}
	c.Surface.BudgetMA = max(c.Surface.BudgetMA, 0)
	c.Surface.ChanMA = max(c.Surface.ChanMA, 0)
	if !knownMorph(c.Morph) {
		c.Morph = morph.NameSpawn
	}
	if c.Font != glyph.Compact.Name {
		c.Font = glyph.Tall.Name
	}
	// compact digits only fit HH:MM
	if c.Font == glyph.Compact.Name {
		c.Seconds = false
	}
	if c.NTP == "" {
		c.NTP = DefaultNTP
	}
	for i := range c.Dimmer.Keys {
		c.Dimmer.Keys[i].Level = clamp(c.Dimmer.Keys[i].Level, 0, 255)
	}
}

func knownMorph(name string) bool {
	switch name {
	case morph.NameCrossfade, morph.NameSpawn, morph.NameParticle:
		return true
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
