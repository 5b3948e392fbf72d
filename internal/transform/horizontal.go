// Package transform converts catalogue positions into local horizon
// coordinates for a ground observer.
//
// Positions arrive as J2000 (ICRS) right ascension and declination. They are
// precessed to the mean equator and equinox of the observation instant, then
// rotated into the observer's horizon frame with mean sidereal time.
//
// Nutation, aberration and refraction are ignored. The combined error is well
// under 0.1 degrees, which is below the resolution of a 30 minute sample grid.
package transform

import (
	"math"
	"time"

	"github.com/rotisserie/eris"
)

const (
	deg2rad = math.Pi / 180.0
	rad2deg = 180.0 / math.Pi
)

// ErrNonFinite is returned when a transform produces NaN or Inf output.
var ErrNonFinite = eris.New("transform produced a non-finite result")

// Equatorial is a sky position in degrees. RA is [0, 360), Dec is [-90, 90].
type Equatorial struct {
	RADeg  float64
	DecDeg float64
}

// Valid reports whether the position is finite and within range.
func (e Equatorial) Valid() bool {
	if math.IsNaN(e.RADeg) || math.IsNaN(e.DecDeg) || math.IsInf(e.RADeg, 0) || math.IsInf(e.DecDeg, 0) {
		return false
	}
	return e.RADeg >= 0 && e.RADeg < 360 && e.DecDeg >= -90 && e.DecDeg <= 90
}

// Observer holds a ground observer's geodetic location. Trigonometric terms
// are precomputed once so they can be reused across many samples.
type Observer struct {
	LatRad, LonRad float64 // geodetic, longitude east-positive
	HeightM        float64 // above the WGS-84 ellipsoid

	sinLat, cosLat float64
}

// NewObserver creates an Observer from geodetic coordinates in degrees.
func NewObserver(latDeg, lonDeg, heightM float64) Observer {
	lat := latDeg * deg2rad
	return Observer{
		LatRad:  lat,
		LonRad:  lonDeg * deg2rad,
		HeightM: heightM,
		sinLat:  math.Sin(lat),
		cosLat:  math.Cos(lat),
	}
}

// Horizontal holds topocentric altitude and azimuth.
type Horizontal struct {
	AltitudeDeg float64 // 0 = horizon, 90 = zenith
	AzimuthDeg  float64 // 0 = North, clockwise, [0, 360)
}

// ToHorizontal transforms a J2000 position to altitude/azimuth for obs at t.
func ToHorizontal(obs Observer, pos Equatorial, t time.Time) (Horizontal, error) {
	ofDate := PrecessFromJ2000(pos, t)
	return OfDateToHorizontal(obs, ofDate, t)
}

// OfDateToHorizontal transforms a position already referred to the mean
// equator and equinox of t.
//
// Hour angle H = LST - α, then
//
//	sin h = sin φ sin δ + cos φ cos δ cos H
//	tan A = -cos δ sin H / (sin δ cos φ - cos δ cos H sin φ)
func OfDateToHorizontal(obs Observer, pos Equatorial, t time.Time) (Horizontal, error) {
	// Recompute trig terms when the Observer was built as a literal.
	sinLat, cosLat := obs.sinLat, obs.cosLat
	if sinLat == 0 && cosLat == 0 {
		sinLat, cosLat = math.Sin(obs.LatRad), math.Cos(obs.LatRad)
	}

	ha := LocalSiderealTime(t, obs.LonRad) - pos.RADeg*deg2rad
	dec := pos.DecDeg * deg2rad

	sinDec, cosDec := math.Sin(dec), math.Cos(dec)
	sinHA, cosHA := math.Sin(ha), math.Cos(ha)

	sinAlt := sinLat*sinDec + cosLat*cosDec*cosHA
	if sinAlt > 1 {
		sinAlt = 1
	} else if sinAlt < -1 {
		sinAlt = -1
	}
	alt := math.Asin(sinAlt)

	az := math.Atan2(-cosDec*sinHA, sinDec*cosLat-cosDec*cosHA*sinLat)
	az = normalizeRad(az)

	h := Horizontal{
		AltitudeDeg: alt * rad2deg,
		AzimuthDeg:  az * rad2deg,
	}
	if h.AzimuthDeg >= 360 {
		h.AzimuthDeg = 0
	}
	if math.IsNaN(h.AltitudeDeg) || math.IsNaN(h.AzimuthDeg) || math.IsInf(h.AltitudeDeg, 0) || math.IsInf(h.AzimuthDeg, 0) {
		return Horizontal{}, eris.Wrapf(ErrNonFinite, "ra=%v dec=%v at %s", pos.RADeg, pos.DecDeg, t.UTC().Format(time.RFC3339))
	}
	return h, nil
}
