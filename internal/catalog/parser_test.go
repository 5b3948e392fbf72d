package catalog

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParse(t *testing.T) {
	f, err := os.Open("testdata/snactive.html")
	require.NoError(t, err)
	defer f.Close()

	records, skipped, err := Parse(f, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, skipped, "row with bad RA is dropped")
	require.Len(t, records, 3)

	abc := records[0]
	assert.Equal(t, "2025abc", abc.Name)
	assert.Equal(t, "NGC 1234", abc.Host)
	assert.Equal(t, "03:19:48.16", abc.RA)
	assert.Equal(t, "+41:30:42.1", abc.Dec)
	assert.InDelta(t, 49.95066667, abc.Coord.RADeg, 1e-6)
	assert.InDelta(t, 41.51169444, abc.Coord.DecDeg, 1e-6)
	assert.Equal(t, Magnitude{Value: 16.9, Valid: true}, abc.Magnitude)
	assert.Equal(t, time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC), abc.Discovered)
	assert.Equal(t, "Ia", abc.Type)
	assert.Equal(t, "16.5", abc.MaxMagnitude)
	assert.Equal(t, time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC), abc.MaxMagnitudeDate)
	assert.Equal(t, time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC), abc.FirstObserved)
	assert.Equal(t, "https://www.rochesterastronomy.org/sn2025/2025abc.html", abc.Link)

	xyz := records[1]
	assert.Equal(t, "2025xyz", xyz.Name)
	assert.Empty(t, xyz.Host)
	assert.Equal(t, "<", xyz.Magnitude.Limit)
	assert.Equal(t, 17.8, xyz.Magnitude.Value)
	assert.True(t, xyz.MaxMagnitudeDate.IsZero())
	assert.Equal(t, "https://www.rochesterastronomy.org/snimages/sn2025/2025xyz.html", xyz.Link)

	nomag := records[2]
	assert.Equal(t, "2025nomag", nomag.Name)
	assert.False(t, nomag.Magnitude.Valid)
	assert.False(t, nomag.HasDiscoveryDate())
	assert.InDelta(t, -0.5, nomag.Coord.DecDeg, 1e-9)
	assert.Empty(t, nomag.Link)
}

func TestParse_DuplicateNames(t *testing.T) {
	row := `<tr><td>2025dup</td><td></td><td>01:00:00</td><td>+10:00:00</td><td></td><td>15</td><td>2025/01/01</td><td>Ia</td><td></td><td></td><td></td><td></td></tr>`
	doc := "<table>" + row + row + "</table>"

	records, skipped, err := Parse(strings.NewReader(doc), zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, skipped)
}

func TestParse_EmptyDocument(t *testing.T) {
	records, skipped, err := Parse(strings.NewReader("<html><body>maintenance</body></html>"), zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, skipped)
}
