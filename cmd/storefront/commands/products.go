package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rogerio-castellano/storefront/internal/catalog"
	"github.com/rogerio-castellano/storefront/internal/models"
	"github.com/spf13/cobra"
)

func productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage the product catalog",
	}
	cmd.AddCommand(productsListCmd(), productsAddCmd(), productsUpdateCmd(), productsRemoveCmd())
	return cmd
}

func productsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List products in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			products := appCtx.Catalog.List(cmd.Context())
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPRICE\tCREATED")
			for _, p := range products {
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n", p.ID, p.Name, p.Price, p.CreatedAt)
			}
			return w.Flush()
		},
	}
}

func productsAddCmd() *cobra.Command {
	var (
		np    catalog.NewProduct
		image string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("image") {
				np.Image = &image
			}
			p, err := appCtx.Catalog.Add(cmd.Context(), np)
			if err != nil {
				return err
			}
			return printProduct(cmd.OutOrStdout(), p)
		},
	}
	cmd.Flags().StringVar(&np.Name, "name", "", "product name")
	cmd.Flags().Float64Var(&np.Price, "price", 0, "unit price")
	cmd.Flags().StringVar(&np.Description, "description", "", "product description")
	cmd.Flags().StringVar(&image, "image", "", "image URL or data URI")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func productsUpdateCmd() *cobra.Command {
	var (
		name, description, image string
		price                    float64
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch catalog.ProductPatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("price") {
				patch.Price = &price
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("image") {
				patch.Image = &image
			}
			p, err := appCtx.Catalog.Update(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			return printProduct(cmd.OutOrStdout(), p)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().Float64Var(&price, "price", 0, "new unit price")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&image, "image", "", `new image ("" clears it)`)
	return cmd
}

func productsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Catalog.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	}
}

func printProduct(w io.Writer, p models.Product) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
