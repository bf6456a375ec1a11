package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/policycheck/policyscan/internal/filter"
)

// newFilterCommand builds the filter stage subcommand.
func newFilterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Separate likely policy documents from noise by filename",
		Long: `Filter classifies each discovered PDF URL by its filename: drop keywords
reject immediately, otherwise at least one keep keyword must match. Both
output streams are rewritten from scratch on every run.`,
		RunE: runFilter,
	}

	cmd.Flags().StringP("input", "i", "urls.txt", "Crawl output stream to read")
	cmd.Flags().StringP("output", "o", "policy_urls.txt", "Accepted policy URL stream")
	cmd.Flags().String("filtered", "filtered_out_urls.txt", "Rejected URL stream")

	for _, bind := range []struct{ viperKey, flagName string }{
		{"filter.input_file", "input"},
		{"filter.output_file", "output"},
		{"filter.filtered_file", "filtered"},
	} {
		bindFlag(cmd, bind.viperKey, bind.flagName)
	}

	return cmd
}

func runFilter(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	filterCfg := &cfg.Filter
	if err := filterCfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	stats, err := filter.Run(filterCfg)
	if err != nil {
		return err
	}

	if stats.Kept > 0 {
		fmt.Printf("Kept %d of %d URLs. Next step: policyscan ingest\n", stats.Kept, stats.Total)
	} else {
		fmt.Printf("No URLs survived the filter (%d dropped)\n", stats.Dropped)
	}
	return nil
}
