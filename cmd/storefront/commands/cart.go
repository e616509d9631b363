package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rogerio-castellano/storefront/internal/cart"
	"github.com/rogerio-castellano/storefront/internal/models"
	"github.com/spf13/cobra"
)

var sessionID string

func cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and change a session cart",
	}
	cmd.PersistentFlags().StringVar(&sessionID, "session", "", "cart session id (default: the shared cart)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the cart and its total",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return printCart(cmd.OutOrStdout(), engine().Cart(cmd.Context()))
			},
		},
		&cobra.Command{
			Use:   "add <product-id>",
			Short: "Add one unit of a catalog product",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := appCtx.Catalog.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				c, err := engine().AddItem(cmd.Context(), p)
				if err != nil {
					return err
				}
				return printCart(cmd.OutOrStdout(), c)
			},
		},
		lineCmd("inc <product-id>", "Increase a line's quantity by one", (*cart.Engine).Increment),
		lineCmd("dec <product-id>", "Decrease a line's quantity by one, removing it at zero", (*cart.Engine).Decrement),
		lineCmd("remove <product-id>", "Remove a line", (*cart.Engine).Remove),
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := engine().Clear(cmd.Context())
				if err != nil {
					return err
				}
				return printCart(cmd.OutOrStdout(), c)
			},
		},
	)
	return cmd
}

type lineOp func(e *cart.Engine, ctx context.Context, productID string) (models.Cart, error)

func lineCmd(use, short string, op lineOp) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := op(engine(), cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printCart(cmd.OutOrStdout(), c)
		},
	}
}

func engine() *cart.Engine {
	return appCtx.Carts.For(sessionID)
}

func printCart(out io.Writer, c models.Cart) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tQTY\tSUBTOTAL")
	for _, l := range c.Lines {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%d\t%s\n", l.ProductID, l.Name, l.Price, l.Quantity, l.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(w, "\t\t\t%d\t%s\n", c.ItemCount(), c.Total().StringFixed(2))
	return w.Flush()
}
