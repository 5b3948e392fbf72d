package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/star/snwatch/internal/report"
	"github.com/star/snwatch/internal/search"
)

type searchOptions struct {
	date        string
	time        string
	magnitude   float64
	days        int
	hours       float64
	minAltitude float64
	site        string
	window      string
	offline     bool
	format      string
	output      string
	lang        string
}

func newSearchCmd(root *rootOptions) *cobra.Command {
	so := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Fetch the catalog and list observable supernovae",
		Example: "  snwatch search --date 2025-01-15 --time 21:00 --hours 3 --magnitude 17\n" +
			"  snwatch search --window South --format pdf --output tonight.pdf\n" +
			"  snwatch search --offline",
		RunE: func(cmd *cobra.Command, args []string) error {
			if so.format != "text" && so.format != "json" && so.format != "pdf" {
				return eris.Errorf("unknown format %q (want text, json or pdf)", so.format)
			}
			req := so.request(cmd, search.DefaultRequest(root.cfg.Search, time.Now()))

			pipeline, err := root.newPipeline()
			if err != nil {
				return err
			}
			run := pipeline.Run
			if so.offline {
				run = func(_ context.Context, r search.Request) (*search.Outcome, error) {
					return pipeline.RunOffline(r)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			coord := search.NewCoordinator(ctx, run, root.cfg.Search.PollInterval, root.logger)
			id, _ := coord.Trigger(req, search.KindSearch)
			root.logger.Debug("search triggered", zap.String("task", id), zap.Bool("offline", so.offline))

			res, err := coord.Wait(ctx)
			if err != nil {
				return err
			}
			if res.Err != nil {
				return res.Err
			}
			return so.write(cmd, root, res.Outcome)
		},
	}

	f := cmd.Flags()
	f.StringVar(&so.date, "date", "", "observation date YYYY-MM-DD (default today, UTC)")
	f.StringVar(&so.time, "time", "", "observation start HH:MM UTC (default from config)")
	f.Float64Var(&so.magnitude, "magnitude", 0, "faintest magnitude to keep")
	f.IntVar(&so.days, "days", 0, "only supernovae discovered in the last N days")
	f.Float64Var(&so.hours, "hours", 0, "observation length in hours")
	f.Float64Var(&so.minAltitude, "min-altitude", 0, "minimum altitude in degrees when no window is used")
	f.StringVar(&so.site, "site", "", "observing site name")
	f.StringVar(&so.window, "window", "", "visibility window preset name")
	f.BoolVar(&so.offline, "offline", false, "use the newest cached catalog page instead of fetching")
	f.StringVar(&so.format, "format", "text", "output format: text, json or pdf")
	f.StringVarP(&so.output, "output", "o", "", "pdf output path (default <date>.pdf in the report output dir)")
	f.StringVar(&so.lang, "lang", "", "report language: en or es (default from config)")
	return cmd
}

// request overlays explicitly set flags onto the configured defaults.
func (so *searchOptions) request(cmd *cobra.Command, req search.Request) search.Request {
	f := cmd.Flags()
	if f.Changed("date") {
		req.ObservationDate = so.date
	}
	if f.Changed("time") {
		req.ObservationTime = so.time
	}
	if f.Changed("magnitude") {
		req.Magnitude = so.magnitude
	}
	if f.Changed("days") {
		req.Days = so.days
	}
	if f.Changed("hours") {
		req.Hours = so.hours
	}
	if f.Changed("min-altitude") {
		req.MinAltitude = so.minAltitude
	}
	if f.Changed("site") {
		req.Site = so.site
	}
	if f.Changed("window") {
		req.Window = so.window
	}
	return req
}

func (so *searchOptions) write(cmd *cobra.Command, root *rootOptions, out *search.Outcome) error {
	lang := root.cfg.Report.Language
	if so.lang != "" {
		lang = so.lang
	}
	rep := report.Report{Criteria: out.Criteria, Candidates: out.Candidates, Language: lang}
	w := cmd.OutOrStdout()

	switch so.format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out.Candidates)
	case "pdf":
		path := so.output
		if path == "" {
			path = filepath.Join(root.cfg.Report.OutputDir, rep.FileName("pdf"))
		}
		fh, err := os.Create(path)
		if err != nil {
			return eris.Wrapf(err, "creating %s", path)
		}
		if err := report.WritePDF(fh, rep); err != nil {
			fh.Close()
			return err
		}
		if err := fh.Close(); err != nil {
			return eris.Wrapf(err, "closing %s", path)
		}
		fmt.Fprintf(w, "%s (%d supernovae)\n", path, len(out.Candidates))
		return nil
	default:
		return report.WriteText(w, rep)
	}
}
