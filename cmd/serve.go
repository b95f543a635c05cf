package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/agency-intel/internal/ingest"
	"github.com/sells-group/agency-intel/internal/pipeline"
)

var (
	serveInputs []string
	servePort   int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the reconciled table and views over HTTP",
	Long: `Runs the pipeline once over the given sources and serves the aggregated
table, the coverage/agency/city views, and a CSV export. Filters are query
parameters: city and agency repeat, client is single-valued; omitting a
parameter (or sending "All") means no narrowing.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sources, err := ingest.LoadAll(ctx, serveInputs, cfg.Reconcile.Synonyms)
		if err != nil {
			return err
		}

		p := pipeline.New(cfg.Reconcile.Overrides, cfg.Reconcile.FuzzyThreshold)
		report, err := p.Run(sources)
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(report),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(cmd.Context())
		}()

		zap.L().Info("serve: listening",
			zap.Int("port", port),
			zap.String("run_id", report.RunID),
			zap.Int("rows", len(report.Records)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "serve: listen")
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringArrayVar(&serveInputs, "input", nil, "source export file (repeatable, required)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default from config)")
	_ = serveCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(serveCmd)
}

func newRouter(report *pipeline.Report) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}))
	r.Use(requestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"status": "ok", "run_id": report.RunID})
	})

	r.Get("/api/report", func(w http.ResponseWriter, req *http.Request) {
		filtered := queryFilters(req).Apply(report.Records)
		writeJSON(w, pipeline.Report{
			RunID:     report.RunID,
			Records:   filtered,
			Cities:    report.Cities,
			Agencies:  report.Agencies,
			ClientIDs: report.ClientIDs,
		})
	})

	r.Get("/api/views/coverage", func(w http.ResponseWriter, req *http.Request) {
		filtered := queryFilters(req).Apply(report.Records)
		writeJSON(w, pipeline.CoverageView(filtered))
	})

	r.Get("/api/views/agency", func(w http.ResponseWriter, req *http.Request) {
		agency := req.URL.Query().Get("agency")
		if agency == "" || agency == pipeline.AllSentinel {
			writeError(w, http.StatusBadRequest, "select a specific agency")
			return
		}
		filtered := queryFilters(req).Apply(report.Records)
		writeJSON(w, pipeline.BuildAgencyView(filtered, agency))
	})

	r.Get("/api/views/city", func(w http.ResponseWriter, req *http.Request) {
		city := req.URL.Query().Get("city")
		if city == "" || city == pipeline.AllSentinel {
			writeError(w, http.StatusBadRequest, "select a city")
			return
		}
		filtered := queryFilters(req).Apply(report.Records)
		writeJSON(w, pipeline.BuildCityView(filtered, city))
	})

	r.Get("/api/export.csv", func(w http.ResponseWriter, req *http.Request) {
		filtered := queryFilters(req).Apply(report.Records)
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", "agency_city_spine_export.csv"))
		if err := pipeline.WriteCSV(w, filtered); err != nil {
			zap.L().Error("serve: csv export failed", zap.Error(err))
		}
	})

	return r
}

// requestLogger tags each request with an id for log correlation.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		zap.L().Debug("serve: request",
			zap.String("request_id", uuid.New().String()),
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
		)
		next.ServeHTTP(w, req)
	})
}

// queryFilters maps query parameters onto the view filter surface.
func queryFilters(req *http.Request) pipeline.Filters {
	q := req.URL.Query()
	return pipeline.Filters{
		Cities:   q["city"],
		Agencies: q["agency"],
		ClientID: q.Get("client"),
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("serve: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
