// Package constellation labels sky positions with an IAU constellation name.
//
// The label is for display only. Nearest reports the constellation whose
// reference centre is closest to the position, which matches the official
// boundary for most of the sky but can pick a neighbour close to an edge.
package constellation

import (
	"math"

	"github.com/star/snwatch/internal/transform"
)

// Namer returns a constellation name for a J2000 position.
type Namer interface {
	Name(pos transform.Equatorial) string
}

// Nearest names a position by its nearest constellation centre.
type Nearest struct{}

// NewNamer returns the default Namer.
func NewNamer() Namer {
	return Nearest{}
}

// Name returns the full constellation name, or "" for an invalid position.
func (Nearest) Name(pos transform.Equatorial) string {
	if !pos.Valid() {
		return ""
	}
	ra := pos.RADeg * math.Pi / 180
	dec := pos.DecDeg * math.Pi / 180

	best, bestDist := "", math.Inf(1)
	for _, c := range centres {
		d := haversine(ra, dec, c.raRad(), c.decRad())
		if d < bestDist {
			best, bestDist = c.name, d
		}
	}
	return best
}

// haversine returns the angular separation between two points in radians.
func haversine(ra1, dec1, ra2, dec2 float64) float64 {
	sdDec := math.Sin((dec2 - dec1) / 2)
	sdRA := math.Sin((ra2 - ra1) / 2)
	a := sdDec*sdDec + math.Cos(dec1)*math.Cos(dec2)*sdRA*sdRA
	return 2 * math.Asin(math.Min(1, math.Sqrt(a)))
}
