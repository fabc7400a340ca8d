package config

import "time"

// DefaultHost is the default listen address.
const DefaultHost = "0.0.0.0"

// DefaultPort is the default listen port.
const DefaultPort = 8000

// DefaultDataDir holds the cubes directory and the log directory.
const DefaultDataDir = "~/olapy-data"

// DefaultLogFile is the log file used when logging to a file.
const DefaultLogFile = "~/olapy-data/logs/xmla.log"

// DefaultPath is the HTTP path of the XMLA endpoint.
const DefaultPath = "/xmla"

// DefaultRequestTimeout bounds statement execution.
const DefaultRequestTimeout = 60 * time.Second

// FileName is the configuration file looked up in the data directory when
// no path is given.
const FileName = "olapy-config.yml"

var defaultKeys = []string{
	"host", "port",
	"log.level", "log.format", "log.to_file", "log.file",
	"source.type", "source.data_dir",
	"xmla.path", "xmla.authentication", "xmla.authenticate_execute", "xmla.request_timeout",
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	cfg := &Config{
		Host: DefaultHost,
		Port: DefaultPort,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File:   DefaultLogFile,
		},
		Source: SourceConfig{
			Type:    SourceCSV,
			DataDir: DefaultDataDir,
		},
		XMLA: XMLAConfig{
			Path:           DefaultPath,
			RequestTimeout: DefaultRequestTimeout,
		},
	}
	for _, key := range defaultKeys {
		cfg.SetSource(key, OriginDefault)
	}
	return cfg
}
