package search

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/star/snwatch/internal/config"
	"github.com/star/snwatch/internal/selection"
	"github.com/star/snwatch/internal/visibility"
)

func testProfile() *config.Profile {
	return &config.Profile{
		Sites: config.DefaultSites(),
		Windows: map[string]visibility.Bounds{
			"South": {MinAltitude: 20, MaxAltitude: 80, MinAzimuth: 120, MaxAzimuth: 240},
		},
		Ignore: []string{"2025old"},
	}
}

func TestDefaultRequest(t *testing.T) {
	cfg := config.SearchConfig{
		Magnitude:       17,
		Days:            10,
		ObservationTime: "21:00",
		Hours:           3,
		MinAltitude:     25,
		Site:            "Sabadell",
	}
	now := time.Date(2025, 1, 15, 23, 30, 0, 0, time.FixedZone("CET", 3600))

	req := DefaultRequest(cfg, now)
	assert.Equal(t, "2025-01-15", req.ObservationDate)
	assert.Equal(t, "21:00", req.ObservationTime)
	assert.Equal(t, 17.0, req.Magnitude)
	assert.Equal(t, "Sabadell", req.Site)

	start, err := req.Start()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 15, 21, 0, 0, 0, time.UTC), start)
}

func TestRequestCriteria(t *testing.T) {
	req := Request{
		Magnitude:       18,
		Days:            10,
		ObservationDate: "2025-01-15",
		ObservationTime: "21:30",
		Hours:           2,
		MinAltitude:     30,
		Site:            "Requena",
		Window:          "South",
	}

	c, err := req.Criteria(testProfile())
	require.NoError(t, err)
	assert.Equal(t, 18.0, c.MagnitudeCeiling)
	assert.Equal(t, time.Date(2025, 1, 15, 21, 30, 0, 0, time.UTC), c.Start)
	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), c.Cutoff)
	assert.Equal(t, "Requena", c.Site.Name)
	assert.True(t, c.UsesPreset())
	assert.Equal(t, 120.0, c.Bounds().MinAzimuth)
	assert.Equal(t, []string{"2025old"}, c.Ignore)
	assert.NoError(t, c.Validate())
}

func TestRequestCriteriaErrors(t *testing.T) {
	base := Request{
		Magnitude:       17,
		ObservationDate: "2025-01-15",
		ObservationTime: "21:00",
		Hours:           3,
		Site:            "Sabadell",
	}

	tests := []struct {
		name   string
		modify func(*Request)
	}{
		{"unknown site", func(r *Request) { r.Site = "Atlantis" }},
		{"bad date", func(r *Request) { r.ObservationDate = "15/01/2025" }},
		{"bad time", func(r *Request) { r.ObservationTime = "9pm" }},
		{"missing date", func(r *Request) { r.ObservationDate = "" }},
		{"hours out of range", func(r *Request) { r.Hours = 100 }},
		{"altitude out of range", func(r *Request) { r.MinAltitude = 95 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.modify(&req)
			_, err := req.Criteria(testProfile())
			require.Error(t, err)
			assert.True(t, errors.Is(err, selection.ErrInvalidCriteria), "got %v", err)
		})
	}
}
