// Package config loads the olapd server configuration.
//
// Values are resolved with the following precedence:
//  1. Command-line flags (highest priority)
//  2. Environment variables (OLAPD_*, optionally from a .env file)
//  3. The YAML configuration file
//  4. Default values (lowest priority)
//
// A configuration file looks like:
//
//	host: 0.0.0.0
//	port: 8000
//	log:
//	  level: info
//	  format: text
//	  to_file: true
//	  file: ~/olapy-data/logs/xmla.log
//	source:
//	  type: csv
//	  data_dir: ~/olapy-data
//	xmla:
//	  authentication: false
//	  request_timeout: 60s
//	  cors_origins: ["https://example.com"]
//
// The top-level key xmla_authentication is accepted as an alias of
// xmla.authentication.
package config
