// Package cli implements the olapd command line: serve (the default),
// catalogs and version.
package cli
