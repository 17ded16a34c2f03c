// Package check implements the one-shot price check command, useful for
// cron-style external scheduling and for testing a deployment.
package check

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/pricewatch/cmd/common"
)

// Command returns the check command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run one price check cycle over all tracked products and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			deps, err := common.Setup(ctx)
			if err != nil {
				return err
			}
			defer deps.Close()

			summary, err := deps.NewPriceCheck().Run(ctx)
			if err != nil {
				return fmt.Errorf("price check: %w", err)
			}

			fmt.Printf("checked %d products: %d recorded, %d alerted, %d skipped\n",
				summary.Checked, summary.Recorded, summary.Alerted, summary.Skipped)
			return nil
		},
	}
}
