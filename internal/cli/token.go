package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"wayfare/pkg/utils"
)

// NewTokenCommand mints a bearer token for local development against a
// server whose JWT_SECRET is known.
func NewTokenCommand(opts *RootOptions) *cobra.Command {
	var (
		secret string
		user   string
		role   string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("JWT_SECRET")
			}
			if secret == "" {
				return errors.New("--secret or JWT_SECRET is required")
			}
			id := uuid.New()
			if user != "" {
				parsed, err := uuid.Parse(user)
				if err != nil {
					return utils.NewValidationError("user", "must be a UUID")
				}
				id = parsed
			}
			token, err := utils.CreateToken([]byte(secret), id, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "server JWT secret")
	cmd.Flags().StringVar(&user, "user", "", "user id (UUID); random when empty")
	cmd.Flags().StringVar(&role, "role", "traveler", "role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
