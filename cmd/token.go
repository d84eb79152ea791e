package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"assetdesk/internal/common"
	"assetdesk/internal/middleware"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a session token for local use",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			if cfg.Auth.SecretGenerated {
				return fmt.Errorf("JWT_SECRET must be set to issue tokens the server will accept")
			}

			flags := cmd.Flags()
			rawID, _ := flags.GetString("user-id")
			name, _ := flags.GetString("name")
			email, _ := flags.GetString("email")
			ttl, _ := flags.GetDuration("ttl")

			userID := uuid.New()
			if rawID != "" {
				if userID, err = uuid.Parse(rawID); err != nil {
					return fmt.Errorf("invalid user id: %w", err)
				}
			}
			if ttl <= 0 {
				ttl = cfg.Auth.TokenTTL.Duration
			}

			token, err := middleware.IssueToken(cfg.Auth.Secret, common.Session{UserID: userID, Name: name, Email: email}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().String("user-id", "", "User id; a random one when empty")
	cmd.Flags().String("name", "", "Display name stamped on exports")
	cmd.Flags().String("email", "", "Email")
	cmd.Flags().Duration("ttl", 0, "Token lifetime; defaults to auth.token_ttl")
	return cmd
}
