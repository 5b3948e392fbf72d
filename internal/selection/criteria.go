// Package selection filters catalog records down to the candidates that are
// bright enough, new enough and observable from a site, and orders them for
// presentation.
package selection

import (
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"

	"github.com/star/snwatch/internal/visibility"
)

// ErrInvalidCriteria is returned when Criteria fails validation.
var ErrInvalidCriteria = eris.New("invalid selection criteria")

// Criteria controls one selection pass.
type Criteria struct {
	// MagnitudeCeiling is the faintest magnitude kept (larger is fainter).
	MagnitudeCeiling float64 `validate:"gte=-30,lte=40"`

	// Start is the first instant of the observation, in UTC.
	Start time.Time `validate:"required"`

	// Hours is the observation length; samples cover [Start, Start+Hours).
	Hours float64 `validate:"gte=0,lte=48"`

	// Cutoff is a calendar date; only records discovered strictly after it
	// are kept.
	Cutoff time.Time `validate:"required"`

	Site visibility.Site

	// Window names a preset in Windows. When empty or unknown, the bounds
	// are MinAltitude..90 over the full azimuth circle.
	Window      string
	MinAltitude float64                      `validate:"gte=-90,lte=90"`
	Windows     map[string]visibility.Bounds `validate:"dive"`

	// Ignore lists record names to drop. Matching is exact and case-sensitive.
	Ignore []string
}

// Bounds resolves the visibility bounds for c.
func (c Criteria) Bounds() visibility.Bounds {
	if c.Window != "" {
		if b, ok := c.Windows[c.Window]; ok {
			return b
		}
	}
	return visibility.FloorBounds(c.MinAltitude)
}

// UsesPreset reports whether Bounds comes from a named preset.
func (c Criteria) UsesPreset() bool {
	if c.Window == "" {
		return false
	}
	_, ok := c.Windows[c.Window]
	return ok
}

// End returns the end of the sampled interval.
func (c Criteria) End() time.Time {
	_, end := visibility.Window(c.Start, c.Hours)
	return end
}

// CutoffFromDays returns the calendar date days before start.
func CutoffFromDays(start time.Time, days int) time.Time {
	return dateOf(start).AddDate(0, 0, -days)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validate checks c and wraps any failure in ErrInvalidCriteria.
func (c Criteria) Validate() error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	if err := validate.Struct(c); err != nil {
		return eris.Wrap(ErrInvalidCriteria, err.Error())
	}
	return nil
}

// dateOf truncates t to midnight UTC of its UTC calendar date.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
