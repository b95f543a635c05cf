package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/agency-intel/internal/ingest"
	"github.com/sells-group/agency-intel/internal/pipeline"
)

var (
	reportInputs   []string
	reportOutput   string
	reportView     string
	reportCities   []string
	reportAgencies []string
	reportClient   string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the reconciliation pipeline over source exports",
	Long: `Loads coverage, rate card, and scorecard exports (CSV or XLSX), reconciles
agency and city identities, and emits the aggregated agency-by-city table.

Views:
  table     aggregated records (default)
  coverage  market overview sorted by city, presence, margin
  agency    single-agency metrics and city breakdown (requires --agency)
  city      single-city metrics and agency ranking (requires --city)

Examples:
  # Aggregated table as JSON
  agency-intel report --input coverage.csv --input rate_cards.csv

  # Filtered CSV export
  agency-intel report --input coverage.csv --input rate_cards.xlsx \
    --city Austin --output austin.csv

  # Single-agency view
  agency-intel report --input coverage.csv --input rate_cards.csv \
    --view agency --agency "ABC STAFFING"`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		sources, err := ingest.LoadAll(cmd.Context(), reportInputs, cfg.Reconcile.Synonyms)
		if err != nil {
			return err
		}

		p := pipeline.New(cfg.Reconcile.Overrides, cfg.Reconcile.FuzzyThreshold)
		report, err := p.Run(sources)
		if err != nil {
			return err
		}

		filters := pipeline.Filters{
			Cities:   reportCities,
			Agencies: reportAgencies,
			ClientID: reportClient,
		}
		filtered := filters.Apply(report.Records)

		if reportOutput != "" {
			if err := writeCSVFile(reportOutput, filtered); err != nil {
				return err
			}
			zap.L().Info("report: csv written",
				zap.String("path", reportOutput),
				zap.Int("rows", len(filtered)),
			)
			return nil
		}

		out, err := projectView(filtered)
		if err != nil {
			return err
		}
		return printJSON(out)
	},
}

func init() {
	reportCmd.Flags().StringArrayVar(&reportInputs, "input", nil, "source export file (repeatable, required)")
	reportCmd.Flags().StringVar(&reportOutput, "output", "", "write filtered aggregated table to CSV file")
	reportCmd.Flags().StringVar(&reportView, "view", "table", "projection: table, coverage, agency, or city")
	reportCmd.Flags().StringSliceVar(&reportCities, "city", nil, `city filter ("All" or empty = no filter)`)
	reportCmd.Flags().StringSliceVar(&reportAgencies, "agency", nil, `agency filter ("All" or empty = no filter)`)
	reportCmd.Flags().StringVar(&reportClient, "client", "", `client id filter ("All" or empty = no filter)`)
	_ = reportCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(reportCmd)
}

// projectView applies the selected projection to the filtered table.
func projectView(records []pipeline.AggregatedRecord) (any, error) {
	switch reportView {
	case "table":
		return records, nil
	case "coverage":
		return pipeline.CoverageView(records), nil
	case "agency":
		agency, err := singleSelection(reportAgencies, "agency")
		if err != nil {
			return nil, err
		}
		return pipeline.BuildAgencyView(records, agency), nil
	case "city":
		city, err := singleSelection(reportCities, "city")
		if err != nil {
			return nil, err
		}
		return pipeline.BuildCityView(records, city), nil
	default:
		return nil, eris.Errorf("report: unknown view %q", reportView)
	}
}

// singleSelection enforces that a drill-down view has exactly one concrete
// dimension value selected.
func singleSelection(vals []string, dim string) (string, error) {
	if len(vals) != 1 || vals[0] == pipeline.AllSentinel {
		return "", eris.Errorf("report: the %s view needs exactly one --%s selection", dim, dim)
	}
	return vals[0], nil
}

func writeCSVFile(path string, records []pipeline.AggregatedRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "report: create output file")
	}
	defer f.Close()
	return pipeline.WriteCSV(f, records)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "report: encode json")
	}
	return nil
}
