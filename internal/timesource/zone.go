package timesource

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultZone is the configured zone on a fresh install.
const DefaultZone = "Sydney, Australia"

var zoneAliases = map[string]string{
	"Sydney, Australia":    "Australia/Sydney",
	"Melbourne, Australia": "Australia/Melbourne",
	"Brisbane, Australia":  "Australia/Brisbane",
	"Perth, Australia":     "Australia/Perth",
	"Adelaide, Australia":  "Australia/Adelaide",
	"London, UK":           "Europe/London",
	"New York, USA":        "America/New_York",
	"Los Angeles, USA":     "America/Los_Angeles",
}

// LoadZone resolves a friendly alias, an IANA name, or the standard part of
// a POSIX TZ string such as "AEST-10AEDT,M10.1.0,M4.1.0/3". DST rules in
// POSIX strings are ignored. Unknown names yield UTC and an error.
func LoadZone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.UTC, nil
	}
	if iana, ok := zoneAliases[name]; ok {
		name = iana
	}
	if loc, err := time.LoadLocation(name); err == nil {
		return loc, nil
	}
	if loc, ok := posixStd(name); ok {
		return loc, nil
	}
	return time.UTC, fmt.Errorf("unknown time zone %q", name)
}

// posixStd parses "NAME[+|-]hh[:mm]". POSIX offsets are west-positive.
func posixStd(s string) (*time.Location, bool) {
	i := 0
	for i < len(s) && (s[i] >= 'A' && s[i] <= 'Z' || s[i] >= 'a' && s[i] <= 'z') {
		i++
	}
	if i < 3 || i == len(s) {
		return nil, false
	}
	abbr, rest := s[:i], s[i:]
	sign := 1
	switch rest[0] {
	case '-':
		sign = -1
		rest = rest[1:]
	case '+':
		rest = rest[1:]
	}
	j := 0
	for j < len(rest) && (rest[j] >= '0' && rest[j] <= '9' || rest[j] == ':') {
		j++
	}
	if j == 0 {
		return nil, false
	}
	hm := strings.SplitN(rest[:j], ":", 2)
	h, err := strconv.Atoi(hm[0])
	if err != nil || h > 24 {
		return nil, false
	}
	m := 0
	if len(hm) == 2 {
		if m, err = strconv.Atoi(hm[1]); err != nil || m > 59 {
			return nil, false
		}
	}
	return time.FixedZone(abbr, -sign*(h*3600+m*60)), true
}
