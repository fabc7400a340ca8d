package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// NewRootCmd builds the olapd command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "olapd",
		Short: "olapd serves OLAP cubes over XMLA",
		Long: `olapd exposes cubes built from CSV files or a PostgreSQL database to
XMLA clients such as spreadsheet pivot tables.

Configuration can be provided via flags, OLAPD_* environment variables, or a
YAML file. Without --config, olapd reads <data-dir>/olapy-config.yml when it
exists.`,
		SilenceUsage:  true,
		SilenceErrors: true, // We handle errors in Execute()
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newCatalogsCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs olapd with the process arguments. Running olapd without a
// subcommand starts the server.
func Execute() {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(resolveArgs(rootCmd, os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// resolveArgs prepends "serve" unless args already name a subcommand or ask
// for help.
func resolveArgs(rootCmd *cobra.Command, args []string) []string {
	if len(args) == 0 {
		return []string{"serve"}
	}
	first := args[0]
	switch first {
	case "-h", "--help", "help", "completion":
		return args
	}
	if !strings.HasPrefix(first, "-") {
		for _, c := range rootCmd.Commands() {
			if c.Name() == first || c.HasAlias(first) {
				return args
			}
		}
	}
	return append([]string{"serve"}, args...)
}
