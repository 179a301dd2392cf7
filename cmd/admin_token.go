package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"openlark/internal/api/handler/v1handler"
	"openlark/internal/config"
	"openlark/pkg/logger"
)

// adminTokenCommand signs an HS256 token for the deliveries API with the
// configured admin secret.
func adminTokenCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin-token",
		Short: "Generates a token for the deliveries API",
		Run: func(cmd *cobra.Command, args []string) {
			subject, _ := cmd.Flags().GetString("subject")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			signed, err := v1handler.IssueToken(cfg.HTTP.AdminSecret, subject, ttl)
			if err != nil {
				logger.Fatal(context.Background(), "could not sign admin token", zap.Error(err))
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), signed)
		},
	}

	cmd.Flags().String("subject", "", "Token subject, e.g. the operator name")
	cmd.Flags().Duration("ttl", 24*time.Hour, "Token TTL (e.g., 30s, 15m, 1h)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
