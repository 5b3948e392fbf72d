package transform

import (
	"math"
	"testing"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

// TestJulianDate verifies our Julian Date calculation against known values.
func TestJulianDate(t *testing.T) {
	tests := []struct {
		name     string
		time     time.Time
		expected float64
	}{
		{
			name:     "J2000.0 epoch",
			time:     time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
			expected: 2451545.0,
		},
		{
			name:     "Unix epoch",
			time:     time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: 2440587.5,
		},
		{
			// Vallado Example 3-15: April 6, 2004, 07:51:28.386 UTC
			name:     "Vallado example date",
			time:     time.Date(2004, 4, 6, 7, 51, 28, 386009000, time.UTC),
			expected: 2453101.827411875,
		},
		{
			// Meeus example 21.b epoch: 2028 November 13.19 TD.
			name:     "Meeus precession epoch",
			time:     time.Date(2028, 11, 13, 4, 33, 36, 0, time.UTC),
			expected: 2462088.69,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JulianDate(tt.time)
			diff := math.Abs(got - tt.expected)
			if diff > 1e-6 {
				t.Errorf("JulianDate(%v) = %.10f, want %.10f (diff=%.2e)", tt.time, got, tt.expected, diff)
			}
		})
	}
}

// TestGMST validates our GMST calculation against the go-satellite library's
// GSTimeFromDate function, which uses the same IAU-82 model.
func TestGMST(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
	}{
		{
			name: "J2000.0 epoch",
			time: time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name: "Vallado example date",
			time: time.Date(2004, 4, 6, 7, 51, 28, 0, time.UTC), // integer seconds for library compat
		},
		{
			name: "observing night 2025",
			time: time.Date(2025, 1, 15, 21, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			our := GMST(tt.time)
			ref := satellite.GSTimeFromDate(
				tt.time.Year(), int(tt.time.Month()), tt.time.Day(),
				tt.time.Hour(), tt.time.Minute(), tt.time.Second(),
			)

			diff := math.Abs(our - ref)
			// 1e-8 radians ≈ 0.06 arcsec.
			if diff > 1e-8 {
				t.Errorf("GMST(%v) = %.12f rad, go-satellite = %.12f rad (diff=%.2e)", tt.time, our, ref, diff)
			}
		})
	}
}

// TestOfDateToHorizontal_MatchesSatelliteLookAngles places a star on the
// celestial sphere as a very distant ECI point and compares our alt/az with
// go-satellite's look-angle solution. At 1e9 km the observer's offset from
// the geocentre is negligible, so both must agree to well under 0.05°.
func TestOfDateToHorizontal_MatchesSatelliteLookAngles(t *testing.T) {
	const distanceKm = 1e9

	tests := []struct {
		name     string
		lat, lon float64
		pos      Equatorial
		time     time.Time
	}{
		{"Vega from Sabadell", 41.55, 2.09, Equatorial{RADeg: 279.2347, DecDeg: 38.7837}, time.Date(2025, 7, 1, 22, 0, 0, 0, time.UTC)},
		{"Sirius from Requena", 39.45, -1.21, Equatorial{RADeg: 101.2872, DecDeg: -16.7161}, time.Date(2025, 1, 15, 21, 30, 0, 0, time.UTC)},
		{"M31 from Sant Quirze", 41.32, 2.04, Equatorial{RADeg: 10.6847, DecDeg: 41.2692}, time.Date(2024, 10, 3, 2, 0, 0, 0, time.UTC)},
		{"southern target from Sydney", -33.87, 151.21, Equatorial{RADeg: 201.3650, DecDeg: -43.0191}, time.Date(2025, 4, 20, 12, 0, 0, 0, time.UTC)},
		{"below the horizon", 41.55, 2.09, Equatorial{RADeg: 95.9880, DecDeg: -52.6957}, time.Date(2025, 7, 1, 22, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := NewObserver(tt.lat, tt.lon, 0)
			got, err := OfDateToHorizontal(obs, tt.pos, tt.time)
			if err != nil {
				t.Fatalf("OfDateToHorizontal: %v", err)
			}

			ra, dec := tt.pos.RADeg*deg2rad, tt.pos.DecDeg*deg2rad
			eci := satellite.Vector3{
				X: distanceKm * math.Cos(dec) * math.Cos(ra),
				Y: distanceKm * math.Cos(dec) * math.Sin(ra),
				Z: distanceKm * math.Sin(dec),
			}
			jday := satellite.JDay(
				tt.time.Year(), int(tt.time.Month()), tt.time.Day(),
				tt.time.Hour(), tt.time.Minute(), tt.time.Second(),
			)
			ref := satellite.ECIToLookAngles(eci,
				satellite.LatLong{Latitude: tt.lat * deg2rad, Longitude: tt.lon * deg2rad},
				0, jday)

			const tolerance = 0.05 // degrees
			if d := math.Abs(got.AltitudeDeg - ref.El*rad2deg); d > tolerance {
				t.Errorf("altitude = %.4f, go-satellite = %.4f (diff=%.4f)", got.AltitudeDeg, ref.El*rad2deg, d)
			}
			if d := angularDiff(got.AzimuthDeg, ref.Az*rad2deg); d > tolerance {
				t.Errorf("azimuth = %.4f, go-satellite = %.4f (diff=%.4f)", got.AzimuthDeg, ref.Az*rad2deg, d)
			}
		})
	}
}

// angularDiff returns the smallest separation between two azimuths in degrees.
func angularDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}
