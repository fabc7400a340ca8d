package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newCatalogsCmd() *cobra.Command {
	f := &configFlags{}
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:     "catalogs",
		Aliases: []string{"ls"},
		Short:   "List the catalogs found by the configured source",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f, os.LookupEnv)
			if err != nil {
				return err
			}
			src, err := openSource(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer src.Close()

			names, err := src.Names(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list catalogs: %w", err)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				if names == nil {
					names = []string{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(names)
			}
			if len(names) == 0 {
				fmt.Fprintln(out, "No catalogs found")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
	addSourceFlags(cmd, f)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as a JSON array")
	return cmd
}
