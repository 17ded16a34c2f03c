// Package products implements CLI commands over the product registry.
package products

import (
	"errors"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/pricewatch/cmd/common"
	"github.com/jonesrussell/pricewatch/internal/models"
)

// Command returns the products command group.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage tracked products",
	}
	cmd.AddCommand(listCommand())
	cmd.AddCommand(addCommand())
	return cmd
}

func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all tracked products",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			deps, err := common.Setup(ctx)
			if err != nil {
				return err
			}
			defer deps.Close()

			products, err := deps.Products.List(ctx)
			if err != nil {
				return fmt.Errorf("list products: %w", err)
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "Name", "URL", "Target Price", "Recipient"})

			for i := range products {
				t.AppendRow(table.Row{
					products[i].ID,
					products[i].Name,
					products[i].URL,
					fmt.Sprintf("%.2f", products[i].TargetPrice),
					products[i].UserEmail,
				})
			}

			t.Render()
			return nil
		},
	}
}

func addCommand() *cobra.Command {
	var (
		name        string
		url         string
		targetPrice float64
		userEmail   string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Track a new product",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			deps, err := common.Setup(ctx)
			if err != nil {
				return err
			}
			defer deps.Close()

			product := models.Product{
				Name:        name,
				URL:         url,
				TargetPrice: targetPrice,
				UserEmail:   userEmail,
			}

			if createErr := deps.Products.Create(ctx, &product); createErr != nil {
				if errors.Is(createErr, models.ErrDuplicateURL) {
					return fmt.Errorf("%s is already tracked", url)
				}
				return fmt.Errorf("add product: %w", createErr)
			}

			fmt.Printf("added product %d: %s\n", product.ID, product.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&url, "url", "", "product page URL")
	cmd.Flags().Float64Var(&targetPrice, "target-price", 0, "alert threshold")
	cmd.Flags().StringVar(&userEmail, "email", "", "alert recipient")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("target-price")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
