package selection

import (
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/star/snwatch/internal/catalog"
	"github.com/star/snwatch/internal/constellation"
	"github.com/star/snwatch/internal/metrics"
	"github.com/star/snwatch/internal/visibility"
)

// Candidate is a catalog record that passed every filter.
type Candidate struct {
	catalog.Record
	Constellation string                `json:"constellation"`
	Visibility    visibility.Visibility `json:"visibility"`
}

// Start returns the time of the first accepted sample.
func (c Candidate) Start() time.Time {
	s, _ := c.Visibility.First()
	return s.Time
}

// End returns the time of the last accepted sample.
func (c Candidate) End() time.Time {
	s, _ := c.Visibility.Last()
	return s.Time
}

// Selector evaluates catalog records against Criteria. It holds no mutable
// state, so concurrent calls to Select are safe.
type Selector struct {
	sampler visibility.Sampler
	namer   constellation.Namer
	workers int
	logger  *zap.Logger
}

// NewSelector creates a Selector. Nil sampler or namer select the defaults;
// workers <= 0 uses one worker per CPU.
func NewSelector(sampler visibility.Sampler, namer constellation.Namer, workers int, logger *zap.Logger) *Selector {
	if sampler == nil {
		sampler = visibility.NewSampler()
	}
	if namer == nil {
		namer = constellation.NewNamer()
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Selector{
		sampler: sampler,
		namer:   namer,
		workers: workers,
		logger:  logger.Named("selector"),
	}
}

type result struct {
	outcome   string
	candidate Candidate
}

// Select returns the records that qualify under c, in catalog order.
// Per-record problems drop the record; only invalid criteria fail the call.
func (s *Selector) Select(records []catalog.Record, c Criteria) ([]Candidate, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	ignore := make(map[string]struct{}, len(c.Ignore))
	for _, name := range c.Ignore {
		ignore[name] = struct{}{}
	}
	bounds := c.Bounds()
	if c.Window != "" && !c.UsesPreset() {
		s.logger.Warn("unknown visibility window, using altitude floor",
			zap.String("window", c.Window),
			zap.Float64("min_altitude", c.MinAltitude),
		)
	}
	cutoff := dateOf(c.Cutoff)
	end := c.End()

	results := make([]result, len(records))
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i := range records {
		i := i
		g.Go(func() error {
			results[i] = s.evaluate(&records[i], c, bounds, cutoff, end, ignore)
			return nil
		})
	}
	_ = g.Wait()

	counts := make(map[string]int)
	out := make([]Candidate, 0)
	for _, r := range results {
		counts[r.outcome]++
		if r.outcome == metrics.OutcomeQualified {
			out = append(out, r.candidate)
		}
	}
	for outcome, n := range counts {
		metrics.AddSelectionOutcome(outcome, n)
	}
	metrics.ObserveSelection(time.Since(start))

	s.logger.Info("selection complete",
		zap.Int("records", len(records)),
		zap.Int("qualified", len(out)),
		zap.Int("rejected_magnitude", counts[metrics.OutcomeMagnitude]),
		zap.Int("rejected_date", counts[metrics.OutcomeDate]),
		zap.Int("not_visible", counts[metrics.OutcomeNotVisible]),
		zap.Int("ignored", counts[metrics.OutcomeIgnored]),
		zap.Int("transform_errors", counts[metrics.OutcomeTransformError]),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

// evaluate applies the filters to one record, cheapest first.
func (s *Selector) evaluate(rec *catalog.Record, c Criteria, bounds visibility.Bounds, cutoff, end time.Time, ignore map[string]struct{}) result {
	if !rec.Magnitude.Valid || rec.Magnitude.Value > c.MagnitudeCeiling {
		return result{outcome: metrics.OutcomeMagnitude}
	}
	if !rec.HasDiscoveryDate() || !dateOf(rec.Discovered).After(cutoff) {
		return result{outcome: metrics.OutcomeDate}
	}

	samples, err := s.sampler.Sample(c.Site, rec.Coord, c.Start, end)
	if err != nil {
		s.logger.Debug("dropping record after transform failure", zap.String("name", rec.Name), zap.Error(err))
		return result{outcome: metrics.OutcomeTransformError}
	}

	vis := visibility.Evaluate(samples, bounds)
	if !vis.Visible {
		return result{outcome: metrics.OutcomeNotVisible}
	}
	if _, ok := ignore[rec.Name]; ok {
		return result{outcome: metrics.OutcomeIgnored}
	}

	return result{
		outcome: metrics.OutcomeQualified,
		candidate: Candidate{
			Record:        *rec,
			Constellation: s.namer.Name(rec.Coord),
			Visibility:    vis,
		},
	}
}
