// Package visibility samples an object's path across the local sky and
// decides whether it crosses an observer's visibility window.
package visibility

import (
	"time"
)

// Site is a named ground location.
type Site struct {
	Name      string  `json:"name" yaml:"name"`
	Latitude  float64 `json:"latitude" yaml:"lat" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" yaml:"lon" validate:"gte=-180,lte=180"`
	Height    float64 `json:"height" yaml:"height"` // metres, may be negative
}

// Bounds is an inclusive altitude/azimuth rectangle in degrees. Azimuth
// bounds are compared as plain numbers, so an inverted range is accepted
// and matches nothing; a window spanning north must be expressed as two
// presets.
type Bounds struct {
	MinAltitude float64 `json:"min_alt" validate:"gte=-90,lte=90"`
	MaxAltitude float64 `json:"max_alt" validate:"gte=-90,lte=90"`
	MinAzimuth  float64 `json:"min_az" validate:"gte=0,lte=360"`
	MaxAzimuth  float64 `json:"max_az" validate:"gte=0,lte=360"`
}

// DefaultBounds returns the full sky above the horizon.
func DefaultBounds() Bounds {
	return Bounds{MinAltitude: 0, MaxAltitude: 90, MinAzimuth: 0, MaxAzimuth: 360}
}

// FloorBounds returns the full azimuth circle above minAltitude.
func FloorBounds(minAltitude float64) Bounds {
	return Bounds{MinAltitude: minAltitude, MaxAltitude: 90, MinAzimuth: 0, MaxAzimuth: 360}
}

// Contains reports whether alt/az lies inside the rectangle, edges included.
func (b Bounds) Contains(alt, az float64) bool {
	return alt >= b.MinAltitude && alt <= b.MaxAltitude &&
		az >= b.MinAzimuth && az <= b.MaxAzimuth
}

// HorizonSample is one topocentric position at a point in time.
type HorizonSample struct {
	Time     time.Time `json:"time"`
	Altitude float64   `json:"altitude"` // degrees, -90..90
	Azimuth  float64   `json:"azimuth"`  // degrees, 0 = North, clockwise
}

// Summary condenses a set of accepted samples. The azimuth range is the
// smallest arc covering every sample and may cross north, in which case
// MinAzimuth > MaxAzimuth. Visible is set whenever a summary exists.
type Summary struct {
	Visible     bool    `json:"visible"`
	MinAltitude float64 `json:"min_alt"`
	MaxAltitude float64 `json:"max_alt"`
	MinAzimuth  float64 `json:"min_az"`
	MaxAzimuth  float64 `json:"max_az"`
}

// Visibility is the evaluation of a sample series against Bounds.
type Visibility struct {
	Visible bool            `json:"visible"`
	Samples []HorizonSample `json:"samples"`
	Summary *Summary        `json:"summary,omitempty"`
}

// First returns the earliest accepted sample. ok is false when there is none.
func (v Visibility) First() (HorizonSample, bool) {
	if len(v.Samples) == 0 {
		return HorizonSample{}, false
	}
	return v.Samples[0], true
}

// Last returns the latest accepted sample. ok is false when there is none.
func (v Visibility) Last() (HorizonSample, bool) {
	if len(v.Samples) == 0 {
		return HorizonSample{}, false
	}
	return v.Samples[len(v.Samples)-1], true
}
