package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/templui/macrotrack/internal/config"
	"github.com/templui/macrotrack/internal/service"
)

func TokenCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(userID); err != nil {
				return fmt.Errorf("--user must be a UUID: %w", err)
			}

			cfg := config.Load()
			if cfg.IsProduction() {
				return fmt.Errorf("refusing to mint tokens in production")
			}

			token, err := service.NewAuthService(cfg.JWTSecret, cfg.JWTExpiry).GenerateJWT(userID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (UUID)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
