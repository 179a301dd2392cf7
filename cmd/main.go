// Package main provides the CLI entrypoint for the openlark service.
// It wires subcommands (serve, migrate, send, recall, token), loads configuration, and initializes logging.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"openlark/internal/config"
	"openlark/pkg/lark"
	"openlark/pkg/logger"
	"openlark/pkg/storage/postgres"
)

// getPostgres creates a PostgreSQL client using configuration values and returns it
// along with a cleanup function to close the connection pool.
func getPostgres(ctx context.Context, cfg *config.Config) (*postgres.PgSQL, func()) {
	pgsql, err := postgres.New(ctx, postgres.Options{
		Username:           cfg.Database.Username,
		Password:           cfg.Database.Password,
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		Database:           cfg.Database.DatabaseName,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime:    cfg.Database.ConnMaxIdleTime,
		MaxOpenConnections: cfg.Database.MaxOpenConnections,
		MaxIdleConnections: cfg.Database.MaxIdleConnections,
		SslMode:            cfg.Database.SslMode,
	})
	if err != nil {
		logger.Fatal(ctx, "could not create postgres storage", zap.Error(err))
	}

	return pgsql, func() {
		logger.Info(ctx, "closing postgres client...")
		if err = pgsql.Close(); err != nil {
			logger.Warn(ctx, "could not close postgres connection", zap.Error(err))
		}
	}
}

// getLarkClient creates an Open Platform client from the lark section of the
// config. A nil cache keeps tokens in process memory.
func getLarkClient(ctx context.Context, cfg *config.Config, cache lark.TokenCache) *lark.Client {
	larkCfg := &lark.Config{
		AppID:      cfg.Lark.AppID,
		AppSecret:  cfg.Lark.AppSecret,
		AppType:    lark.AppType(cfg.Lark.AppType),
		BaseURL:    cfg.Lark.BaseURL,
		MaxRetries: cfg.Lark.MaxRetries,
		Timeout:    cfg.Lark.Timeout,
		TokenCache: cache,
		Logger:     logger.Get(ctx),
	}
	if cfg.Lark.RateLimit > 0 {
		larkCfg.Limiter = rate.NewLimiter(rate.Limit(cfg.Lark.RateLimit), max(cfg.Lark.RateBurst, 1))
	}

	client, err := lark.NewClient(larkCfg)
	if err != nil {
		logger.Fatal(ctx, "could not create lark client", zap.Error(err))
	}

	return client
}

// tokenCache returns the postgres-backed token cache when tokens are shared
// between replicas, nil otherwise.
func tokenCache(cfg *config.Config, pgsql *postgres.PgSQL) lark.TokenCache {
	if !cfg.Lark.SharedTokenCache {
		return nil
	}

	return postgres.NewTokenCache(pgsql)
}

// getLarkClientWithStorage connects to postgres when needDB is set or tokens
// are shared, then creates the client. The returned func releases both.
func getLarkClientWithStorage(ctx context.Context,
	cfg *config.Config,
	needDB bool) (*lark.Client, *postgres.PgSQL, func()) {
	if !needDB && !cfg.Lark.SharedTokenCache {
		return getLarkClient(ctx, cfg, nil), nil, func() {}
	}

	strg, closeStrg := getPostgres(ctx, cfg)

	return getLarkClient(ctx, cfg, tokenCache(cfg, strg)), strg, closeStrg
}

// main sets up the root Cobra command, loads configuration and logging, and
// registers subcommands before executing the CLI.
func main() {
	rootCmd := &cobra.Command{
		Use:   "openlark",
		Short: "Feishu/Lark Open Platform client, webhook server and message outbox",
	}

	// there is no way to access flags before command execution in cobra.
	// configPath here is parsed using the standard flags package.
	// following line is just added to prevent errors when Cobra is parsing the flags.
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")

	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flags.SetOutput(os.Stderr)
	configPath := flags.String("c", "config.yml", "The config file path")
	_ = flags.Parse(configArgs(os.Args[1:]))

	log.Println("loading config ...")
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("could not load config file", err)
	}

	if err := logger.Setup(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatal("could not set up logger", err)
	}

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			_ = logger.Get(ctx).Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		migrateCommand(cfg),
		serveCommand(cfg),
		sendCommand(cfg),
		recallCommand(cfg),
		tokenCommand(cfg),
		adminTokenCommand(cfg),
	)

	err = rootCmd.Execute()
	_ = logger.Get(ctx).Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}

// configArgs picks the -c/--config flag out of args so the standard flag
// package does not stop at the subcommand name or trip over its flags.
func configArgs(args []string) []string {
	for i, arg := range args {
		switch arg {
		case "-c", "--config", "-config":
			if i+1 < len(args) {
				return []string{"-c", args[i+1]}
			}
		}
		for _, prefix := range []string{"-c=", "--config=", "-config="} {
			if len(arg) > len(prefix) && arg[:len(prefix)] == prefix {
				return []string{"-c", arg[len(prefix):]}
			}
		}
	}

	return nil
}
