package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"openlark/internal/config"
	"openlark/pkg/lark"
	"openlark/pkg/logger"
)

const (
	tokenTypeTenant = "tenant"
	tokenTypeApp    = "app"
)

// tokenCommand prints an access token of the configured app, e.g. for use
// with curl. The token comes from the cache when it is still valid.
func tokenCommand(cfg *config.Config) *cobra.Command {
	var (
		tokenType string
		tenantKey string
		appTicket string
		refresh   bool
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Prints a tenant or app access token",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			client, _, closeAll := getLarkClientWithStorage(ctx, cfg, false)
			defer closeAll()

			tokens := client.Tokens()
			var (
				token string
				err   error
			)
			switch tokenType {
			case tokenTypeTenant:
				if refresh {
					if err := tokens.Invalidate(ctx, lark.AccessTokenTypeTenant, tenantKey); err != nil {
						logger.Fatal(ctx, "could not invalidate token", zap.Error(err))
					}
				}
				token, err = tokens.TenantAccessToken(ctx, tenantKey, appTicket)
			case tokenTypeApp:
				if refresh {
					if err := tokens.Invalidate(ctx, lark.AccessTokenTypeApp, ""); err != nil {
						logger.Fatal(ctx, "could not invalidate token", zap.Error(err))
					}
				}
				token, err = tokens.AppAccessToken(ctx, appTicket)
			default:
				logger.Fatal(ctx, "unknown token type", zap.String("type", tokenType))
			}
			if err != nil {
				logger.Fatal(ctx, "could not get access token", zap.Error(err))
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
		},
	}

	cmd.Flags().StringVar(&tokenType, "type", tokenTypeTenant, "Token type: tenant or app")
	cmd.Flags().StringVar(&tenantKey, "tenant-key", "", "Tenant key, required for marketplace apps")
	cmd.Flags().StringVar(&appTicket, "app-ticket", "", "App ticket, defaults to the last one pushed")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Drop the cached token and fetch a new one")

	return cmd
}
