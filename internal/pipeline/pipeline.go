package pipeline

import (
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/agency-intel/internal/ingest"
	"github.com/sells-group/agency-intel/internal/resolve"
)

// Pipeline is the batch reconciliation run: resolve identities, build the
// spine, enrich, aggregate. Stateless across runs; identical inputs produce
// identical reports.
type Pipeline struct {
	overrides map[string]string
	threshold float64
}

// New builds a pipeline. Overrides map strict canonical keys to master
// display names. A non-positive threshold falls back to the default.
func New(overrides map[string]string, fuzzyThreshold float64) *Pipeline {
	if fuzzyThreshold <= 0 {
		fuzzyThreshold = resolve.DefaultFuzzyThreshold
	}
	return &Pipeline{overrides: overrides, threshold: fuzzyThreshold}
}

// Run executes the full pipeline over standardized sources.
func (p *Pipeline) Run(sources []ingest.Source) (*Report, error) {
	if len(sources) == 0 {
		return nil, ingest.ErrNoInput
	}
	if err := ingest.RequireRoles(sources); err != nil {
		return nil, err
	}
	runID := uuid.New().String()
	log := zap.L().With(zap.String("run_id", runID))

	agencyMasters, cityMasters := p.resolveIdentities(sources)
	keyed := p.attachKeys(sources)

	spine := buildSpine(keyed, agencyMasters, cityMasters)
	enriched := enrich(spine, keyed)
	clients := buildClientLookup(keyed)
	records := aggregate(enriched, clients)

	log.Info("pipeline: run complete",
		zap.Int("sources", len(sources)),
		zap.Int("spine_entries", len(spine)),
		zap.Int("enriched_rows", len(enriched)),
		zap.Int("aggregated_rows", len(records)),
	)

	return &Report{
		RunID:     runID,
		Records:   records,
		Cities:    distinctSorted(records, func(r AggregatedRecord) []string { return []string{r.City} }),
		Agencies:  distinctSorted(records, func(r AggregatedRecord) []string { return []string{r.AgencyName} }),
		ClientIDs: distinctSorted(records, func(r AggregatedRecord) []string { return r.EmployerIDList }),
	}, nil
}

// ResolveIdentities exposes the variant-to-master mappings for operator
// inspection (override tuning).
func (p *Pipeline) ResolveIdentities(sources []ingest.Source) (agencies, cities map[string]string) {
	return p.resolveIdentities(sources)
}

// resolveIdentities unions every display name across all sources and picks
// one master per strict-key group.
func (p *Pipeline) resolveIdentities(sources []ingest.Source) (agencies, cities map[string]string) {
	var agencyNames, cityNames []string
	for _, src := range sources {
		for _, r := range src.Table.Rows {
			agencyNames = append(agencyNames, r.Get("agency_name"))
			cityNames = append(cityNames, r.Get("city"))
		}
	}
	return resolve.ResolveNames(agencyNames, p.overrides),
		resolve.ResolveNames(cityNames, p.overrides)
}

// attachKeys computes loose canonical keys per row. Rate-card and scorecard
// city keys are approximately matched against the coverage city-key pool so
// merely-similar city spellings land on the coverage-side key instead of
// fragmenting the spine.
func (p *Pipeline) attachKeys(sources []ingest.Source) []keyedSource {
	matcher := resolve.NewMatcher(coverageCityPool(sources), p.threshold)

	keyed := make([]keyedSource, 0, len(sources))
	for _, src := range sources {
		ks := keyedSource{role: src.Role, rows: make([]keyedRow, 0, src.Table.Len())}
		for _, r := range src.Table.Rows {
			kr := keyedRow{
				row:       r,
				agencyKey: resolve.LooseKey(r.Get("agency_name")),
				cityKey:   resolve.LooseKey(r.Get("city")),
			}
			if src.Role != ingest.RoleCoverage {
				if hit := matcher.Best(kr.cityKey); hit != "" {
					kr.cityKey = hit
				}
			}
			ks.rows = append(ks.rows, kr)
		}
		keyed = append(keyed, ks)
	}
	return keyed
}

// coverageCityPool returns the distinct loose city keys contributed by
// coverage sources, in first-seen order.
func coverageCityPool(sources []ingest.Source) []string {
	var pool []string
	seen := make(map[string]bool)
	for _, src := range sources {
		if src.Role != ingest.RoleCoverage {
			continue
		}
		for _, r := range src.Table.Rows {
			key := resolve.LooseKey(r.Get("city"))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			pool = append(pool, key)
		}
	}
	return pool
}

func distinctSorted(records []AggregatedRecord, get func(AggregatedRecord) []string) []string {
	seen := make(map[string]bool)
	var vals []string
	for _, r := range records {
		for _, v := range get(r) {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			vals = append(vals, v)
		}
	}
	sort.Strings(vals)
	return vals
}
