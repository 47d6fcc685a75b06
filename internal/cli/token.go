package cli

import (
	"fmt"
	"io"
	"time"

	"inventory-ledger/internal/service"

	"github.com/spf13/cobra"
)

// TokenOptions holds flags for the token command.
type TokenOptions struct {
	*RootOptions
	Role string
	TTL  time.Duration
}

// NewTokenCommand creates the token command.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TokenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a host token for the HTTP API",
		Long: `Issue a host token signed with AUTH_SECRET. Operators may change the
ledger; viewers may only read it.

Examples:
  ledger token --role operator
  ledger token --role viewer --ttl 1h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToken(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Role, "role", service.RoleOperator, "token role (operator|viewer)")
	cmd.Flags().DurationVar(&opts.TTL, "ttl", service.DefaultTokenExpiration, "token lifetime")

	return cmd
}

func runToken(opts *TokenOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return out.Fail(err)
	}
	if cfg.Auth.Secret == "" {
		return out.Fail(NewExitError(ExitCommandError, "AUTH_SECRET is not set"))
	}

	token, err := service.NewTokenService(cfg.Auth.Secret).IssueToken(opts.Role, opts.TTL)
	if err != nil {
		return out.Fail(WrapExitError(ExitFailure, "failed to issue token", err))
	}

	return out.Success(map[string]string{"token": token, "role": opts.Role}, func(w io.Writer) {
		fmt.Fprintln(w, token)
	})
}
