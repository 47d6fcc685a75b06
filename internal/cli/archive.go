package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"inventory-ledger/internal/domain"
	"inventory-ledger/internal/transport"

	"github.com/spf13/cobra"
)

// NewArchiveCommand creates the archive command.
func NewArchiveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Read the deleted products archive",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List deleted products, most recent deletion first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(ctx context.Context, s *session, out *OutputFormatter) error {
				deleted, err := s.inventory.ListDeletedProducts(ctx)
				if err != nil {
					return wrapLedgerError("failed to list deleted products", err)
				}

				views := make([]transport.DeletedProductResponse, 0, len(deleted))
				for _, d := range deleted {
					views = append(views, transport.DeletedProductResponse{
						ID:        d.ID,
						Name:      d.Name,
						Price:     d.Price,
						Quantity:  d.Quantity,
						DeletedAt: d.DeletedAt.Format(domain.TimestampLayout),
					})
				}

				return out.Success(views, func(w io.Writer) {
					if len(views) == 0 {
						fmt.Fprintln(w, "No deleted products")
						return
					}
					rows := [][]string{{"ID", "NAME", "PRICE", "QUANTITY", "DELETED_AT"}}
					for _, v := range views {
						rows = append(rows, []string{
							strconv.FormatInt(v.ID, 10),
							v.Name,
							formatMoney(v.Price),
							strconv.FormatInt(v.Quantity, 10),
							v.DeletedAt,
						})
					}
					table(w, rows)
				})
			})
		},
	})

	return cmd
}
