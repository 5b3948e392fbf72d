package constellation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/star/snwatch/internal/transform"
)

func TestNearest(t *testing.T) {
	n := NewNamer()

	tests := []struct {
		name string
		pos  transform.Equatorial
		want string
	}{
		{"M31", transform.Equatorial{RADeg: 10.6847, DecDeg: 41.2692}, "Andromeda"},
		{"Betelgeuse", transform.Equatorial{RADeg: 88.7929, DecDeg: 7.4071}, "Orion"},
		{"Spica", transform.Equatorial{RADeg: 201.2983, DecDeg: -11.1614}, "Virgo"},
		{"Vega", transform.Equatorial{RADeg: 279.2347, DecDeg: 38.7837}, "Lyra"},
		{"Polaris", transform.Equatorial{RADeg: 37.9546, DecDeg: 89.2641}, "Ursa Minor"},
		{"Acrux", transform.Equatorial{RADeg: 186.6496, DecDeg: -63.0991}, "Crux"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Name(tt.pos))
		})
	}
}

func TestNearestInvalid(t *testing.T) {
	assert.Empty(t, Nearest{}.Name(transform.Equatorial{RADeg: math.NaN()}))
}

func TestCentresCoverAllConstellations(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range centres {
		names[c.name] = true
	}
	assert.Len(t, names, 88)
}
