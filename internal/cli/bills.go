package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"inventory-ledger/internal/domain"
	"inventory-ledger/internal/transport"

	"github.com/spf13/cobra"
)

// NewBillsCommand creates the bills command and its subcommands.
func NewBillsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bills",
		Short: "Record and read sales",
	}

	cmd.AddCommand(newBillsListCommand(rootOpts))
	cmd.AddCommand(newBillsCreateCommand(rootOpts))
	cmd.AddCommand(newBillsShowCommand(rootOpts))

	return cmd
}

func newBillsListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List bills, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(ctx context.Context, s *session, out *OutputFormatter) error {
				bills, err := s.billing.ListBills(ctx)
				if err != nil {
					return wrapLedgerError("failed to list bills", err)
				}

				views := make([]transport.BillResponse, 0, len(bills))
				for _, bill := range bills {
					views = append(views, billView(bill))
				}

				return out.Success(views, func(w io.Writer) {
					if len(views) == 0 {
						fmt.Fprintln(w, "No bills")
						return
					}
					rows := [][]string{{"ID", "DATE", "TOTAL", "ITEMS"}}
					for _, v := range views {
						rows = append(rows, []string{
							strconv.FormatInt(v.ID, 10),
							v.Date,
							formatMoney(v.Total),
							strconv.Itoa(len(v.Items)),
						})
					}
					table(w, rows)
				})
			})
		},
	}
}

func newBillsCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var rawItems []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a sale",
		Long: `Record a sale. Each --item is NAME:QUANTITY:PRICE; the total is computed
from the items in the order given. Without items an empty bill is recorded.

Examples:
  ledger bills create --item Widget:3:2.50 --item Gadget:1:9.99`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items := make([]domain.BillItem, 0, len(rawItems))
			for _, raw := range rawItems {
				item, err := parseItem(raw)
				if err != nil {
					return err
				}
				items = append(items, item)
			}

			return withSession(rootOpts, cmd, func(ctx context.Context, s *session, out *OutputFormatter) error {
				id, err := s.billing.CreateBill(ctx, items)
				if err != nil {
					return wrapLedgerError("failed to create bill", err)
				}
				total := domain.ComputeTotal(items)
				return out.Success(map[string]interface{}{"id": id, "total": total}, func(w io.Writer) {
					fmt.Fprintf(w, "Created bill %d, total %s\n", id, formatMoney(total))
				})
			})
		},
	}

	cmd.Flags().StringArrayVar(&rawItems, "item", nil, "line item as NAME:QUANTITY:PRICE (repeatable)")
	return cmd
}

func newBillsShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one bill with its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(rootOpts, cmd, func(ctx context.Context, s *session, out *OutputFormatter) error {
				bill, err := s.billing.GetBill(ctx, id)
				if err != nil {
					return wrapLedgerError("failed to find bill", err)
				}
				if bill == nil {
					return NewExitError(ExitFailure, fmt.Sprintf("bill %d not found", id))
				}

				view := billView(*bill)
				return out.Success(view, func(w io.Writer) {
					fmt.Fprintf(w, "Bill:  %d\nDate:  %s\nTotal: %s\n\n", view.ID, view.Date, formatMoney(view.Total))
					if len(view.Items) == 0 {
						fmt.Fprintln(w, "No items")
						return
					}
					rows := [][]string{{"PRODUCT", "QUANTITY", "PRICE"}}
					for _, item := range view.Items {
						rows = append(rows, []string{
							item.ProductName,
							strconv.FormatInt(item.Quantity, 10),
							formatMoney(item.PricePerItem),
						})
					}
					table(w, rows)
				})
			})
		},
	}
}

// parseItem reads NAME:QUANTITY:PRICE. The name may itself contain colons.
func parseItem(raw string) (domain.BillItem, error) {
	invalid := func(err error) (domain.BillItem, error) {
		return domain.BillItem{}, WrapExitError(ExitFailure, fmt.Sprintf("invalid item %q, want NAME:QUANTITY:PRICE", raw), err)
	}

	rest, priceText, ok := cutLast(raw, ":")
	if !ok {
		return invalid(nil)
	}
	name, quantityText, ok := cutLast(rest, ":")
	if !ok {
		return invalid(nil)
	}

	quantity, err := strconv.ParseInt(quantityText, 10, 64)
	if err != nil {
		return invalid(err)
	}
	price, err := strconv.ParseFloat(priceText, 64)
	if err != nil {
		return invalid(err)
	}

	return domain.BillItem{ProductName: name, Quantity: quantity, PricePerItem: price}, nil
}

func cutLast(s, sep string) (before, after string, found bool) {
	if i := strings.LastIndex(s, sep); i >= 0 {
		return s[:i], s[i+len(sep):], true
	}
	return s, "", false
}

func billView(bill domain.Bill) transport.BillResponse {
	items := bill.Items
	if items == nil {
		items = []domain.BillItem{}
	}
	return transport.BillResponse{
		ID:    bill.ID,
		Date:  bill.Date.Format(domain.TimestampLayout),
		Total: bill.Total,
		Items: items,
	}
}
