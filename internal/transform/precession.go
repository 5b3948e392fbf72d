package transform

import (
	"math"
	"time"
)

// PrecessFromJ2000 precesses a J2000 position to the mean equator and equinox
// of t using the IAU 1976 angles (Meeus, Astronomical Algorithms, eq. 21.3/21.4).
func PrecessFromJ2000(pos Equatorial, t time.Time) Equatorial {
	T := JulianCenturies(t)
	if T == 0 {
		return pos
	}

	// Angles in arcseconds.
	zeta := (2306.2181 + (0.30188+0.017998*T)*T) * T
	z := (2306.2181 + (1.09468+0.018203*T)*T) * T
	theta := (2004.3109 - (0.42665+0.041833*T)*T) * T

	const arcsec = deg2rad / 3600.0
	zeta *= arcsec
	z *= arcsec
	theta *= arcsec

	ra0 := pos.RADeg * deg2rad
	dec0 := pos.DecDeg * deg2rad

	sinDec0, cosDec0 := math.Sin(dec0), math.Cos(dec0)
	sinTheta, cosTheta := math.Sin(theta), math.Cos(theta)
	sinRZ, cosRZ := math.Sin(ra0+zeta), math.Cos(ra0+zeta)

	A := cosDec0 * sinRZ
	B := cosTheta*cosDec0*cosRZ - sinTheta*sinDec0
	C := sinTheta*cosDec0*cosRZ + cosTheta*sinDec0

	ra := normalizeRad(math.Atan2(A, B) + z)

	var dec float64
	if math.Abs(C) > 0.99 {
		// Near the poles asin loses precision; use the cosine form instead.
		dec = math.Acos(math.Hypot(A, B))
		if C < 0 {
			dec = -dec
		}
	} else {
		dec = math.Asin(C)
	}

	out := Equatorial{RADeg: ra * rad2deg, DecDeg: dec * rad2deg}
	if out.RADeg >= 360 {
		out.RADeg = 0
	}
	return out
}
