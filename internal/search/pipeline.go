package search

import (
	"context"

	"go.uber.org/zap"

	"github.com/star/snwatch/internal/catalog"
	"github.com/star/snwatch/internal/config"
	"github.com/star/snwatch/internal/selection"
)

// Outcome is everything a finished search hands to the presentation layer.
type Outcome struct {
	Request    Request
	Criteria   selection.Criteria
	Snapshot   *catalog.Snapshot
	Candidates []selection.Candidate
}

// Pipeline fetches the catalog and selects candidates from it.
type Pipeline struct {
	provider *catalog.Provider
	selector *selection.Selector
	profile  *config.Profile
	logger   *zap.Logger
}

// NewPipeline creates a Pipeline.
func NewPipeline(provider *catalog.Provider, selector *selection.Selector, profile *config.Profile, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		provider: provider,
		selector: selector,
		profile:  profile,
		logger:   logger.Named("pipeline"),
	}
}

// Profile returns the profile criteria are resolved against.
func (p *Pipeline) Profile() *config.Profile {
	return p.profile
}

// Store returns the catalog snapshot store.
func (p *Pipeline) Store() *catalog.Store {
	return p.provider.Store()
}

// LoadCached publishes the newest cached catalog page without selecting, so
// a server can answer re-filter requests before its first search.
func (p *Pipeline) LoadCached() (*catalog.Snapshot, error) {
	return p.provider.LoadCached()
}

// Run fetches a fresh catalog and selects from it.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Outcome, error) {
	crit, err := req.Criteria(p.profile)
	if err != nil {
		return nil, err
	}
	snap, err := p.provider.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return p.selectFrom(snap, req, crit)
}

// RunOffline selects from the newest cached catalog page.
func (p *Pipeline) RunOffline(req Request) (*Outcome, error) {
	crit, err := req.Criteria(p.profile)
	if err != nil {
		return nil, err
	}
	snap, err := p.provider.LoadCached()
	if err != nil {
		return nil, err
	}
	return p.selectFrom(snap, req, crit)
}

// Refilter selects from the retained snapshot without fetching.
func (p *Pipeline) Refilter(req Request) (*Outcome, error) {
	crit, err := req.Criteria(p.profile)
	if err != nil {
		return nil, err
	}
	snap, err := p.provider.Store().Require()
	if err != nil {
		return nil, err
	}
	return p.selectFrom(snap, req, crit)
}

func (p *Pipeline) selectFrom(snap *catalog.Snapshot, req Request, crit selection.Criteria) (*Outcome, error) {
	cands, err := p.selector.Select(snap.Records, crit)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("search complete",
		zap.String("site", crit.Site.Name),
		zap.Time("start", crit.Start),
		zap.Int("candidates", len(cands)),
	)
	return &Outcome{
		Request:    req,
		Criteria:   crit,
		Snapshot:   snap,
		Candidates: selection.Order(cands),
	}, nil
}
