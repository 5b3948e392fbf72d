// Package search runs the fetch-and-select pipeline and coordinates it as a
// single background task that the foreground polls for completion.
package search

import (
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"

	"github.com/star/snwatch/internal/config"
	"github.com/star/snwatch/internal/selection"
)

// Request is a user-facing search: the parameters a person picks before
// pressing search.
type Request struct {
	Magnitude       float64 `json:"magnitude" validate:"gte=-30,lte=40"`
	Days            int     `json:"days" validate:"gte=0,lte=3650"`
	ObservationDate string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	ObservationTime string  `json:"time" validate:"omitempty,datetime=15:04"`
	Hours           float64 `json:"hours" validate:"gte=0,lte=48"`
	MinAltitude     float64 `json:"min_altitude" validate:"gte=-90,lte=90"`
	Site            string  `json:"site"`
	Window          string  `json:"window"`
}

// DefaultRequest returns the request implied by cfg for the date of now.
func DefaultRequest(cfg config.SearchConfig, now time.Time) Request {
	return Request{
		Magnitude:       cfg.Magnitude,
		Days:            cfg.Days,
		ObservationDate: now.UTC().Format("2006-01-02"),
		ObservationTime: cfg.ObservationTime,
		Hours:           cfg.Hours,
		MinAltitude:     cfg.MinAltitude,
		Site:            cfg.Site,
		Window:          cfg.Window,
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validate checks the field ranges and date/time layouts of r.
func (r Request) Validate() error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	if err := validate.Struct(r); err != nil {
		return eris.Wrap(selection.ErrInvalidCriteria, err.Error())
	}
	return nil
}

// Start returns the observation start in UTC.
func (r Request) Start() (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", r.ObservationDate+" "+r.ObservationTime, time.UTC)
	if err != nil {
		return time.Time{}, eris.Wrapf(selection.ErrInvalidCriteria, "observation start %q %q: %v", r.ObservationDate, r.ObservationTime, err)
	}
	return t, nil
}

// Criteria resolves r against profile into selection criteria.
func (r Request) Criteria(profile *config.Profile) (selection.Criteria, error) {
	if err := r.Validate(); err != nil {
		return selection.Criteria{}, err
	}
	start, err := r.Start()
	if err != nil {
		return selection.Criteria{}, err
	}
	site, ok := profile.Site(r.Site)
	if !ok {
		return selection.Criteria{}, eris.Wrapf(selection.ErrInvalidCriteria, "unknown site %q", r.Site)
	}
	return selection.Criteria{
		MagnitudeCeiling: r.Magnitude,
		Start:            start,
		Hours:            r.Hours,
		Cutoff:           selection.CutoffFromDays(start, r.Days),
		Site:             site,
		Window:           r.Window,
		MinAltitude:      r.MinAltitude,
		Windows:          profile.Windows,
		Ignore:           profile.Ignore,
	}, nil
}
