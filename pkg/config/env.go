package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "OLAPD_"

// ErrInvalidEnv is returned when an environment variable can't be parsed.
var ErrInvalidEnv = errors.New("invalid environment variable")

// LookupFunc reads an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// LoadDotEnv loads variables from a .env file into the process
// environment. Variables already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

type envVar struct {
	name string
	key  string
	set  func(c *Config, v string) error
}

var envVars = []envVar{
	{"HOST", "host", func(c *Config, v string) error { c.Host = v; return nil }},
	{"PORT", "port", func(c *Config, v string) error { return setInt(&c.Port, v) }},
	{"LOG_LEVEL", "log.level", func(c *Config, v string) error { c.Log.Level = v; return nil }},
	{"LOG_FORMAT", "log.format", func(c *Config, v string) error { c.Log.Format = v; return nil }},
	{"LOG_TO_FILE", "log.to_file", func(c *Config, v string) error { return setBool(&c.Log.ToFile, v) }},
	{"LOG_FILE", "log.file", func(c *Config, v string) error { c.Log.File = v; return nil }},
	{"SOURCE", "source.type", func(c *Config, v string) error { c.Source.Type = v; return nil }},
	{"DATA_DIR", "source.data_dir", func(c *Config, v string) error { c.Source.DataDir = v; return nil }},
	{"DB_URL", "source.db_url", func(c *Config, v string) error { c.Source.DBURL = v; return nil }},
	{"AUTHENTICATION", "xmla.authentication", func(c *Config, v string) error { return setBool(&c.XMLA.Authentication, v) }},
	{"AUTHENTICATE_EXECUTE", "xmla.authenticate_execute", func(c *Config, v string) error { return setBool(&c.XMLA.AuthenticateExecute, v) }},
	{"REQUEST_TIMEOUT", "xmla.request_timeout", func(c *Config, v string) error { return setDuration(&c.XMLA.RequestTimeout, v) }},
	{"CORS_ORIGINS", "xmla.cors_origins", func(c *Config, v string) error { c.XMLA.CORSOrigins = SplitList(v); return nil }},
}

// ApplyEnv overrides cfg with the OLAPD_* variables found by lookup.
// Empty variables are ignored.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	var errs []error
	for _, ev := range envVars {
		v, ok := lookup(EnvPrefix + ev.name)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		if err := ev.set(cfg, strings.TrimSpace(v)); err != nil {
			errs = append(errs, fmt.Errorf("%w %s%s: %v", ErrInvalidEnv, EnvPrefix, ev.name, err))
			continue
		}
		cfg.SetSource(ev.key, OriginEnv)
	}
	return errors.Join(errs...)
}

// SplitList splits a comma-separated list and drops empty items.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func setBool(dst *bool, v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return err
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, v string) error {
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}
