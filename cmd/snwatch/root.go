package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/star/snwatch/internal/catalog"
	"github.com/star/snwatch/internal/config"
	"github.com/star/snwatch/internal/search"
	"github.com/star/snwatch/internal/selection"
)

// rootOptions carries persistent flags and the state every subcommand
// shares once PersistentPreRunE has run.
type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "snwatch",
		Short: "Find recent supernovae observable from your site",
		Long: "Fetches the Rochester list of active supernovae, keeps the bright and recent ones, " +
			"and checks which of them cross your visibility window during the night.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.Log.Level = opts.logLevel
			}
			if opts.logFormat != "" {
				cfg.Log.Format = opts.logFormat
			}
			logger, err := config.NewLogger(cfg.Log)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default snwatch.yaml in the config directory)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&opts.logFormat, "log-format", "", "log format: json or console")

	cmd.AddCommand(
		newSearchCmd(opts),
		newServeCmd(opts),
		newConfigCmd(opts),
		newSitesCmd(opts),
		newWindowsCmd(opts),
	)
	return cmd
}

// newPipeline wires the catalog provider, selector and profile.
func (o *rootOptions) newPipeline() (*search.Pipeline, error) {
	profile, err := config.LoadProfile(o.cfg.Dir, o.logger)
	if err != nil {
		return nil, eris.Wrap(err, "loading profile")
	}

	var cache *catalog.Cache
	if o.cfg.Catalog.CacheFiles > 0 {
		cache = catalog.NewCache(o.cfg.Catalog.CacheDir, o.cfg.Catalog.CacheFiles)
	}
	provider := catalog.NewProvider(
		catalog.NewFetcher(o.cfg.Catalog.URL, o.cfg.Catalog.Timeout, o.logger),
		cache,
		catalog.NewStore(),
		o.logger,
	)
	selector := selection.NewSelector(nil, nil, o.cfg.Search.Workers, o.logger)
	return search.NewPipeline(provider, selector, profile, o.logger), nil
}
