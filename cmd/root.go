// Package cmd implements the pricewatch command-line interface.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/pricewatch/cmd/check"
	"github.com/jonesrussell/pricewatch/cmd/httpd"
	"github.com/jonesrussell/pricewatch/cmd/products"
)

const version = "1.0.0"

// Debug enables debug logging for all commands.
var Debug bool

var rootCmd = &cobra.Command{
	Use:   "pricewatch",
	Short: "Track product prices and get alerted on drops",
	Long: `pricewatch scrapes tracked product pages on a schedule, records each
observed price, and emails you when a price falls to your target.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	// Parse flags early so --debug reaches config loading via the environment.
	_ = rootCmd.ParseFlags(os.Args[1:])
	if Debug {
		os.Setenv("APP_DEBUG", "true")
	}
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pricewatch version %s\n", version)
		},
	})

	rootCmd.AddCommand(httpd.Command())
	rootCmd.AddCommand(check.Command())
	rootCmd.AddCommand(products.Command())
}
