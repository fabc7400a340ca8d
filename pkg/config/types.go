package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the complete server configuration.
type Config struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"min=1,max=65535"`

	Log    LogConfig    `yaml:"log"`
	Source SourceConfig `yaml:"source"`
	XMLA   XMLAConfig   `yaml:"xmla"`

	// LegacyAuthentication is the top-level xmla_authentication key.
	LegacyAuthentication *bool `yaml:"xmla_authentication,omitempty" validate:"-"`

	// Sources tracks where each value came from, keyed by YAML path.
	Sources map[string]string `yaml:"-" validate:"-"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"oneof=text json"`
	ToFile bool   `yaml:"to_file"`
	File   string `yaml:"file" validate:"required_if=ToFile true"`
}

// SourceConfig selects where catalogs are read from.
type SourceConfig struct {
	Type    string `yaml:"type" validate:"oneof=csv db"`
	DataDir string `yaml:"data_dir" validate:"required_if=Type csv"`
	DBURL   string `yaml:"db_url" validate:"required_if=Type db"`
}

// XMLAConfig configures the XMLA endpoint.
type XMLAConfig struct {
	Path string `yaml:"path" validate:"required,startswith=/"`

	// Authentication requires ?admin on Discover requests.
	Authentication bool `yaml:"authentication"`
	// AuthenticateExecute extends the check to Execute requests.
	AuthenticateExecute bool `yaml:"authenticate_execute"`

	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gte=0"`
	CORSOrigins    []string      `yaml:"cors_origins" validate:"dive,required"`
}

// Source types.
const (
	SourceCSV = "csv"
	SourceDB  = "db"
)

// Value origins recorded in Config.Sources.
const (
	OriginDefault = "default"
	OriginFile    = "file"
	OriginEnv     = "env"
	OriginFlag    = "flag"
)

// Address returns host:port.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// SetSource records where the value at key came from.
func (c *Config) SetSource(key, origin string) {
	if c.Sources == nil {
		c.Sources = make(map[string]string)
	}
	c.Sources[key] = origin
}
