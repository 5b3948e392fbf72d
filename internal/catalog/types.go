// Package catalog fetches and parses the Rochester "active supernovae" table
// into immutable records, and keeps the latest snapshot for re-filtering.
package catalog

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/star/snwatch/internal/transform"
)

// ErrNoSnapshot is returned when a re-filter is requested before any
// catalog has been loaded.
var ErrNoSnapshot = eris.New("no catalog snapshot loaded")

// Magnitude is a reported apparent magnitude. Limit is "<" or ">" when the
// table gives only an upper or lower bound.
type Magnitude struct {
	Value float64 `json:"value"`
	Limit string  `json:"limit,omitempty"`
	Valid bool    `json:"valid"`
}

// Record is one row of the catalog. Records are treated as read-only once
// produced by the parser.
type Record struct {
	Name string `json:"name"`
	Host string `json:"host,omitempty"`

	// RA and Dec keep the published sexagesimal text for display.
	RA    string               `json:"ra"`
	Dec   string               `json:"dec"`
	Coord transform.Equatorial `json:"coord"`

	Magnitude     Magnitude `json:"magnitude"`
	MagnitudeText string    `json:"magnitude_text,omitempty"`

	// Discovered is midnight UTC of the discovery date, zero when unknown.
	Discovered     time.Time `json:"discovered"`
	DiscoveredText string    `json:"discovered_text,omitempty"`

	Type string `json:"type,omitempty"`

	MaxMagnitude         string    `json:"max_magnitude,omitempty"`
	MaxMagnitudeDate     time.Time `json:"max_magnitude_date,omitempty"`
	MaxMagnitudeDateText string    `json:"max_magnitude_date_text,omitempty"`

	FirstObserved     time.Time `json:"first_observed,omitempty"`
	FirstObservedText string    `json:"first_observed_text,omitempty"`

	Link string `json:"link,omitempty"`
}

// HasDiscoveryDate reports whether the discovery date was parsed.
func (r Record) HasDiscoveryDate() bool {
	return !r.Discovered.IsZero()
}

// Snapshot is one parsed fetch of the catalog.
type Snapshot struct {
	Source    string
	FetchedAt time.Time
	Records   []Record
	Skipped   int // rows dropped for unparsable coordinates
}
