package cli

import (
	"context"
	"fmt"
	"io"

	"inventory-ledger/internal/database"

	"github.com/spf13/cobra"
)

// MigrationView is one migration in command output
type MigrationView struct {
	Version int64  `json:"version"`
	Applied bool   `json:"applied"`
	Source  string `json:"source"`
}

// NewMigrateCommand creates the migrate command and its subcommands.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the ledger schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Long: `Apply every pending migration. Running it again is a no-op.

Examples:
  ledger migrate up
  ledger migrate up --db ~/ledger/inventory.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(rootOpts, cmd, true)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(rootOpts, cmd, false)
		},
	})

	return cmd
}

func runMigrate(opts *RootOptions, cmd *cobra.Command, apply bool) error {
	ctx := context.Background()
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	s, err := openSession(ctx, opts, apply)
	if err != nil {
		return out.Fail(err)
	}
	defer s.Close()

	states, err := database.SchemaStatus(ctx, s.db)
	if err != nil {
		return out.Fail(WrapExitError(ExitCommandError, "failed to read schema status", err))
	}

	views := make([]MigrationView, 0, len(states))
	for _, state := range states {
		views = append(views, MigrationView{Version: state.Version, Applied: state.Applied, Source: state.Source})
	}

	return out.Success(views, func(w io.Writer) {
		rows := [][]string{{"VERSION", "STATE", "SOURCE"}}
		for _, v := range views {
			state := "pending"
			if v.Applied {
				state = "applied"
			}
			rows = append(rows, []string{fmt.Sprintf("%05d", v.Version), state, v.Source})
		}
		table(w, rows)
	})
}
