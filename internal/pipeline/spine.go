package pipeline

import (
	"go.uber.org/zap"

	"github.com/sells-group/agency-intel/internal/ingest"
	"github.com/sells-group/agency-intel/internal/table"
)

// keyedRow is a standardized source row with its canonical join keys
// attached. For non-coverage rows the city key is the resolved coverage-side
// key when an approximate match succeeded.
type keyedRow struct {
	row       table.Row
	agencyKey string
	cityKey   string
}

// keyedSource is one source's rows after key attachment, in file order.
type keyedSource struct {
	role ingest.Role
	rows []keyedRow
}

type pairKey struct {
	agency string
	city   string
}

// buildSpine returns the deduplicated union of (agency key, city key) pairs
// across all sources. The first row seen for a pair anchors its display
// strings; masters substitute the chosen display form for each raw variant.
func buildSpine(sources []keyedSource, agencyMasters, cityMasters map[string]string) []SpineEntry {
	var spine []SpineEntry
	seen := make(map[pairKey]bool)

	for _, src := range sources {
		for _, kr := range src.rows {
			agencyName := kr.row.Get("agency_name")
			cityName := kr.row.Get("city")
			// A pair cannot anchor on an unknown dimension.
			if agencyName == "" || cityName == "" || kr.agencyKey == "" || kr.cityKey == "" {
				continue
			}

			k := pairKey{kr.agencyKey, kr.cityKey}
			if seen[k] {
				continue
			}
			seen[k] = true

			entry := SpineEntry{
				AgencyKey:  kr.agencyKey,
				CityKey:    kr.cityKey,
				AgencyName: agencyName,
				CityName:   cityName,
			}
			if master, ok := agencyMasters[agencyName]; ok {
				entry.AgencyName = master
			}
			if master, ok := cityMasters[cityName]; ok {
				entry.CityName = master
			}
			spine = append(spine, entry)
		}
	}

	zap.L().Debug("pipeline: spine built", zap.Int("entries", len(spine)))
	return spine
}
