package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dishcovery/menu-pipeline/internal/discover"
)

// newLocateCmd creates the 'locate' subcommand, which finds the most
// menu-like page linked from a restaurant homepage and prints its body
// markup.
func newLocateCmd() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "locate <homepage-url>",
		Short: "Finds the menu page on a restaurant website",
		Long: `Fetches the homepage, scores its same-domain links against the menu
keyword by string similarity, and prints the body markup of the winning
page. Exits with an error when no link clears the cutoff.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			fetcher, cleanup, err := buildFetcher(cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			locator := discover.NewLocator(fetcher, cfg.Locator.Keyword, cfg.Locator.MinScore, logger)
			markup, err := locator.Locate(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if outFile != "" {
				if err := os.WriteFile(outFile, []byte(markup), 0o600); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), markup)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "out", "o", "", "write the menu page markup to this file instead of stdout")
	return cmd
}
