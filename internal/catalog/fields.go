package catalog

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// ParseRA parses right ascension in hours, "HH:MM:SS.ss" or "HH MM SS.ss",
// and returns degrees in [0, 360).
func ParseRA(s string) (float64, error) {
	h, m, sec, neg, err := splitSexagesimal(s)
	if err != nil {
		return 0, eris.Wrapf(err, "right ascension %q", s)
	}
	if neg || h >= 24 || m >= 60 || sec >= 60 {
		return 0, eris.Errorf("right ascension %q out of range", s)
	}
	deg := (h + m/60 + sec/3600) * 15
	if deg >= 360 {
		deg -= 360
	}
	return deg, nil
}

// ParseDec parses declination in degrees, "+DD:MM:SS.s" or "-DD MM SS.s",
// and returns degrees in [-90, 90].
func ParseDec(s string) (float64, error) {
	d, m, sec, neg, err := splitSexagesimal(s)
	if err != nil {
		return 0, eris.Wrapf(err, "declination %q", s)
	}
	if m >= 60 || sec >= 60 {
		return 0, eris.Errorf("declination %q out of range", s)
	}
	deg := d + m/60 + sec/3600
	if neg {
		deg = -deg
	}
	if deg < -90 || deg > 90 {
		return 0, eris.Errorf("declination %q out of range", s)
	}
	return deg, nil
}

// splitSexagesimal splits "[+-]A:B:C" or "[+-]A B C" into absolute
// components. The sign is returned separately so "-00:30:00" keeps it.
// Missing trailing components are zero.
func splitSexagesimal(s string) (a, b, c float64, neg bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, 0, false, eris.New("empty value")
	}
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ':' || r == ' ' || r == '\t'
	})
	if len(parts) == 0 || len(parts) > 3 {
		return 0, 0, 0, false, eris.Errorf("expected 1 to 3 components, got %d", len(parts))
	}

	var vals [3]float64
	for i, p := range parts {
		v, perr := strconv.ParseFloat(p, 64)
		if perr != nil {
			return 0, 0, 0, false, eris.Wrapf(perr, "component %d", i)
		}
		if v < 0 {
			return 0, 0, 0, false, eris.Errorf("component %d is negative", i)
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], neg, nil
}

var magnitudePattern = regexp.MustCompile(`^\s*([<>]?)\s*([+-]?\d+(?:\.\d+)?)`)

// ParseMagnitude reads a magnitude with an optional "<" or ">" limit prefix.
// Trailing text such as a band letter is ignored.
func ParseMagnitude(s string) Magnitude {
	m := magnitudePattern.FindStringSubmatch(s)
	if m == nil {
		return Magnitude{}
	}
	v, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return Magnitude{}
	}
	return Magnitude{Value: v, Limit: m[1], Valid: true}
}

var dateLayouts = []string{"2006/01/02", "2006-01-02", "2006.01.02"}

// ParseDate reads a calendar date in one of the catalog's layouts. Only the
// leading date is used, so "2025/01/12.345" parses as 2025-01-12.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		s = s[:10]
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
