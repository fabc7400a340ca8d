// Package logging configures the structured loggers used across olapd.
//
// It wraps log/slog. Components accept a *slog.Logger in their constructor
// or through an option and fall back to Nop when none is given.
//
//	logger, closer, err := logging.Open(logging.Config{
//	    Level:  logging.ParseLevel("debug"),
//	    Format: logging.FormatJSON,
//	    File:   "/var/log/olapd/xmla.log",
//	})
//	defer closer.Close()
//
// When File is set, records go to the file. With Console also set they are
// duplicated to stderr.
package logging
