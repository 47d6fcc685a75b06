package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"inventory-ledger/internal/domain"

	"github.com/spf13/cobra"
)

// ProductOptions holds flags for product commands that take attributes.
type ProductOptions struct {
	*RootOptions
	Name     string
	Price    float64
	Quantity int64
}

// NewProductsCommand creates the products command and its subcommands.
func NewProductsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage products on hand",
	}

	cmd.AddCommand(newProductsListCommand(rootOpts))
	cmd.AddCommand(newProductsAddCommand(rootOpts))
	cmd.AddCommand(newProductsUpdateCommand(rootOpts))
	cmd.AddCommand(newProductsDeleteCommand(rootOpts))
	cmd.AddCommand(newProductsGetCommand(rootOpts))

	return cmd
}

func newProductsListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List products in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(ctx context.Context, s *session, out *OutputFormatter) error {
				products, err := s.inventory.ListProducts(ctx)
				if err != nil {
					return wrapLedgerError("failed to list products", err)
				}
				return out.Success(products, func(w io.Writer) {
					writeProducts(w, products)
				})
			})
		},
	}
}

func newProductsAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProductOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
		Long: `Add a product and print its id.

Examples:
  ledger products add --name Widget --price 2.50 --quantity 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(ctx context.Context, s *session, out *OutputFormatter) error {
				id, err := s.inventory.AddProduct(ctx, opts.Name, opts.Price, opts.Quantity)
				if err != nil {
					return wrapLedgerError("failed to add product", err)
				}
				return out.Success(map[string]int64{"id": id}, func(w io.Writer) {
					fmt.Fprintf(w, "Added product %d\n", id)
				})
			})
		},
	}

	addProductFlags(cmd, opts)
	return cmd
}

func newProductsUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProductOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace the name, price and quantity of a product",
		Long: `Replace the name, price and quantity of a product.
Updating an id that does not exist changes nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(rootOpts, cmd, func(ctx context.Context, s *session, out *OutputFormatter) error {
				if err := s.inventory.UpdateProduct(ctx, id, opts.Name, opts.Price, opts.Quantity); err != nil {
					return wrapLedgerError("failed to update product", err)
				}
				return out.Success(map[string]int64{"id": id}, func(w io.Writer) {
					fmt.Fprintf(w, "Updated product %d\n", id)
				})
			})
		},
	}

	addProductFlags(cmd, opts)
	return cmd
}

func newProductsDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Archive and remove a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(rootOpts, cmd, func(ctx context.Context, s *session, out *OutputFormatter) error {
				if err := s.inventory.DeleteProduct(ctx, id); err != nil {
					return wrapLedgerError("failed to delete product", err)
				}
				return out.Success(map[string]int64{"id": id}, func(w io.Writer) {
					fmt.Fprintf(w, "Deleted product %d\n", id)
				})
			})
		},
	}
}

func newProductsGetCommand(rootOpts *RootOptions) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Long: `Show one product. With --name the name must match exactly as well.

Examples:
  ledger products get 3
  ledger products get 3 --name Widget`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			byName := cmd.Flags().Changed("name")

			return withSession(rootOpts, cmd, func(ctx context.Context, s *session, out *OutputFormatter) error {
				var product *domain.Product
				if byName {
					product, err = s.inventory.GetProductByIDAndName(ctx, id, name)
				} else {
					product, err = s.inventory.GetProduct(ctx, id)
				}
				if err != nil {
					return wrapLedgerError("failed to find product", err)
				}
				if product == nil {
					return NewExitError(ExitFailure, fmt.Sprintf("product %d not found", id))
				}
				return out.Success(product, func(w io.Writer) {
					writeProducts(w, []domain.Product{*product})
				})
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "require this exact name")
	return cmd
}

func addProductFlags(cmd *cobra.Command, opts *ProductOptions) {
	cmd.Flags().StringVar(&opts.Name, "name", "", "product name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().Float64Var(&opts.Price, "price", 0, "unit price (required)")
	_ = cmd.MarkFlagRequired("price")
	cmd.Flags().Int64Var(&opts.Quantity, "quantity", 0, "quantity on hand")
}

func writeProducts(w io.Writer, products []domain.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products")
		return
	}
	rows := [][]string{{"ID", "NAME", "PRICE", "QUANTITY"}}
	for _, p := range products {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			formatMoney(p.Price),
			strconv.FormatInt(p.Quantity, 10),
		})
	}
	table(w, rows)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, WrapExitError(ExitFailure, fmt.Sprintf("invalid id %q", arg), err)
	}
	return id, nil
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// withSession opens the ledger, runs fn and reports its error in the
// configured format
func withSession(opts *RootOptions, cmd *cobra.Command, fn func(ctx context.Context, s *session, out *OutputFormatter) error) error {
	ctx := context.Background()
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	s, err := openSession(ctx, opts, true)
	if err != nil {
		return out.Fail(err)
	}
	defer s.Close()

	if err := fn(ctx, s, out); err != nil {
		return out.Fail(err)
	}
	return nil
}
