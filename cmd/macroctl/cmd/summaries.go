package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func SummariesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summaries",
		Short: "Maintain the daily summary table",
	}

	var days int
	rebuild := &cobra.Command{
		Use:   "rebuild",
		Short: "Recompute daily summaries for recent days",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return fmt.Errorf("--days must be at least 1")
			}

			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			start := time.Now()
			refreshed, err := a.SummaryService.Rebuild(cmd.Context(), days)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "refreshed %d user-days in %s\n", refreshed, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
	rebuild.Flags().IntVar(&days, "days", 7, "number of local days to rebuild, ending today")

	cmd.AddCommand(rebuild)
	return cmd
}
