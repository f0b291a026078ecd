package config

import (
	"math"
	"sort"

	"github.com/coreman2200/funtimes-retroclock/internal/ledcolor"
)

// Apply merges a decoded JSON patch field by field. Keys of the wrong type
// or unknown keys are skipped and returned sorted; everything else applies.
// The result is clamped.
func (c *Config) Apply(patch map[string]any) []string {
	var ignored []string
	for k, v := range patch {
		if !c.applyOne(k, v) {
			ignored = append(ignored, k)
		}
	}
	c.Clamp()
	sort.Strings(ignored)
	return ignored
}

func (c *Config) applyOne(key string, v any) bool {
	switch key {
	case "tz":
		return setString(&c.TZ, v)
	case "ntp":
		return setString(&c.NTP, v)
	case "use24h":
		return setBool(&c.Use24h, v)
	case "seconds":
		return setBool(&c.Seconds, v)
	case "ledDiameter":
		return setInt(&c.LEDDiameter, v)
	case "ledGap":
		return setInt(&c.LEDGap, v)
	case "brightness":
		return setInt(&c.Brightness, v)
	case "ledColor":
		return c.setColor(v)
	case "morph":
		s, ok := v.(string)
		if !ok || !knownMorph(s) {
			return false
		}
		c.Morph = s
		return true
	case "font":
		return setString(&c.Font, v)
	}
	return false
}

func setString(dst *string, v any) bool {
	s, ok := v.(string)
	if ok {
		*dst = s
	}
	return ok
}

func setBool(dst *bool, v any) bool {
	b, ok := v.(bool)
	if ok {
		*dst = b
	}
	return ok
}

// setInt takes JSON numbers (float64) with no fractional part and Go ints.
func setInt(dst *int, v any) bool {
	switch n := v.(type) {
	case int:
		*dst = n
	case int64:
		*dst = int(n)
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || math.Abs(n) > math.MaxInt32 {
			return false
		}
		*dst = int(n)
	default:
		return false
	}
	return true
}

// setColor takes a 24-bit number or a "#rrggbb" string.
func (c *Config) setColor(v any) bool {
	if s, ok := v.(string); ok {
		col, err := ledcolor.ParseHex(s)
		if err != nil {
			return false
		}
		c.LEDColor = col.Color()
		return true
	}
	switch n := v.(type) {
	case int:
		if n < 0 || int64(n) > math.MaxUint32 {
			return false
		}
		c.LEDColor = uint32(n)
	case float64:
		if n < 0 || n > math.MaxUint32 || n != math.Trunc(n) {
			return false
		}
		c.LEDColor = uint32(n)
	default:
		return false
	}
	return true
}
