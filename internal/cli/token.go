package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"quiz-platform/internal/config"
)

// NewTokenCmd prints a bearer token for a user known to the directory.
func NewTokenCmd(configPath *string) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for a directory user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			d, err := buildDeps(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer d.close()

			user, err := d.users.GetUserByUsername(cmd.Context(), username)
			if err != nil {
				return fmt.Errorf("lookup %q: %w", username, err)
			}
			token, err := d.auth.IssueToken(user)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "user", "", "username to issue the token for")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func tokenTTL(cfg config.Config) time.Duration {
	return config.TTLDuration(cfg.Auth.TokenTTL, 12*time.Hour)
}
