package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/olapd/olapd/pkg/config"
	"github.com/spf13/cobra"
)

// configFlags holds the flags that override configuration values.
type configFlags struct {
	configFile     string
	envFile        string
	host           string
	port           int
	logToFile      bool
	logFile        string
	logLevel       string
	logFormat      string
	source         string
	dataDir        string
	dbURL          string
	auth           bool
	requestTimeout time.Duration
	corsOrigins    string
}

// addSourceFlags registers the flags needed to locate catalogs.
func addSourceFlags(cmd *cobra.Command, f *configFlags) {
	cmd.Flags().StringVarP(&f.configFile, "config", "c", "", "Path to configuration file (default <data-dir>/olapy-config.yml)")
	cmd.Flags().StringVar(&f.envFile, "env-file", ".env", "Path to a .env file loaded before reading OLAPD_* variables")
	cmd.Flags().StringVar(&f.source, "source", config.SourceCSV, "Catalog source (csv, db)")
	cmd.Flags().StringVar(&f.dataDir, "data-dir", config.DefaultDataDir, "Data directory holding cubes/")
	cmd.Flags().StringVar(&f.dbURL, "db-url", "", "PostgreSQL connection URL for the db source")
}

// addServeFlags registers the server flags on top of the source flags.
func addServeFlags(cmd *cobra.Command, f *configFlags) {
	addSourceFlags(cmd, f)
	cmd.Flags().StringVar(&f.host, "host", config.DefaultHost, "Listen address")
	cmd.Flags().IntVarP(&f.port, "port", "p", config.DefaultPort, "Listen port")
	cmd.Flags().BoolVar(&f.logToFile, "log-to-file", false, "Write logs to --log-file instead of stderr")
	cmd.Flags().StringVar(&f.logFile, "log-file", config.DefaultLogFile, "Log file path")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&f.logFormat, "log-format", "text", "Log format (text, json)")
	cmd.Flags().BoolVar(&f.auth, "auth", false, "Require ?admin on Discover requests")
	cmd.Flags().DurationVar(&f.requestTimeout, "request-timeout", config.DefaultRequestTimeout, "Maximum time spent executing a statement (0 = unlimited)")
	cmd.Flags().StringVar(&f.corsOrigins, "cors-origins", "", "Comma-separated CORS allowed origins")
}

// loadConfig builds the effective configuration. Precedence is
// flags > environment > file > defaults.
func loadConfig(cmd *cobra.Command, f *configFlags, lookup config.LookupFunc) (*config.Config, error) {
	if f.envFile != "" {
		if err := config.LoadDotEnv(f.envFile); err != nil {
			return nil, err
		}
	}

	if lookup == nil {
		lookup = os.LookupEnv
	}
	cfg := config.Default()

	dataDir := cfg.Source.DataDir
	if v, ok := lookup(config.EnvPrefix + "DATA_DIR"); ok && v != "" {
		dataDir = v
	}
	if cmd.Flags().Changed("data-dir") {
		dataDir = f.dataDir
	}
	if path := config.Resolve(f.configFile, dataDir); path != "" {
		if err := config.LoadInto(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := config.ApplyEnv(cfg, lookup); err != nil {
		return nil, err
	}
	applyFlags(cmd, f, cfg)

	cfg.ExpandPaths()
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags copies every flag the user set into cfg.
func applyFlags(cmd *cobra.Command, f *configFlags, cfg *config.Config) {
	set := func(name, key string, apply func()) {
		fl := cmd.Flags().Lookup(name)
		if fl == nil || !fl.Changed {
			return
		}
		apply()
		cfg.SetSource(key, config.OriginFlag)
	}

	set("host", "host", func() { cfg.Host = f.host })
	set("port", "port", func() { cfg.Port = f.port })
	set("log-to-file", "log.to_file", func() { cfg.Log.ToFile = f.logToFile })
	set("log-file", "log.file", func() { cfg.Log.File = f.logFile })
	set("log-level", "log.level", func() { cfg.Log.Level = f.logLevel })
	set("log-format", "log.format", func() { cfg.Log.Format = f.logFormat })
	set("source", "source.type", func() { cfg.Source.Type = f.source })
	set("data-dir", "source.data_dir", func() { cfg.Source.DataDir = f.dataDir })
	set("db-url", "source.db_url", func() { cfg.Source.DBURL = f.dbURL })
	set("auth", "xmla.authentication", func() { cfg.XMLA.Authentication = f.auth })
	set("request-timeout", "xmla.request_timeout", func() { cfg.XMLA.RequestTimeout = f.requestTimeout })
	set("cors-origins", "xmla.cors_origins", func() { cfg.XMLA.CORSOrigins = config.SplitList(f.corsOrigins) })
}

// describeSources renders where each configuration value came from.
func describeSources(cfg *config.Config) []string {
	keys := []string{
		"host", "port", "log.level", "log.to_file", "source.type",
		"source.data_dir", "xmla.authentication", "xmla.request_timeout",
	}
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		origin := cfg.Sources[key]
		if origin == "" {
			origin = config.OriginDefault
		}
		out = append(out, fmt.Sprintf("%s=%s", key, origin))
	}
	return out
}
