package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/agency-intel/internal/ingest"
	"github.com/sells-group/agency-intel/internal/pipeline"
)

var (
	resolveInputs []string
	resolveKind   string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Show how raw agency and city names map to master names",
	Long: `Prints the variant-to-master mappings the pipeline would use for the given
sources. Useful for tuning reconcile.overrides when the fullest-variant
heuristic picks the wrong display form.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		sources, err := ingest.LoadAll(cmd.Context(), resolveInputs, cfg.Reconcile.Synonyms)
		if err != nil {
			return err
		}

		p := pipeline.New(cfg.Reconcile.Overrides, cfg.Reconcile.FuzzyThreshold)
		agencies, cities := p.ResolveIdentities(sources)

		switch resolveKind {
		case "agency":
			return printJSON(map[string]map[string]string{"agencies": agencies})
		case "city":
			return printJSON(map[string]map[string]string{"cities": cities})
		case "":
			return printJSON(map[string]map[string]string{
				"agencies": agencies,
				"cities":   cities,
			})
		default:
			return eris.Errorf("resolve: unknown kind %q, want agency or city", resolveKind)
		}
	},
}

func init() {
	resolveCmd.Flags().StringArrayVar(&resolveInputs, "input", nil, "source export file (repeatable, required)")
	resolveCmd.Flags().StringVar(&resolveKind, "kind", "", "restrict output to one dimension: agency or city")
	_ = resolveCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(resolveCmd)
}
