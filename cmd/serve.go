package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"openlark/internal/api"
	"openlark/internal/api/handler/v1handler"
	"openlark/internal/config"
	"openlark/internal/notifier"
	"openlark/internal/worker"
	"openlark/pkg/event"
	"openlark/pkg/lark"
	"openlark/pkg/logger"
	"openlark/pkg/messenger/larkim"
)

// newDispatcher registers the event handlers served on the webhook path.
// App tickets are kept by the client's token manager.
func newDispatcher(cfg *config.Config, client *lark.Client) *event.Dispatcher {
	return event.NewDispatcher(cfg.Lark.VerificationToken, cfg.Lark.EncryptKey,
		event.WithTicketStore(client.Tokens())).
		OnP2MessageReceiveV1(func(ctx context.Context, ev *event.P2MessageReceiveV1) error {
			if ev.Event == nil || ev.Event.Message == nil {
				return nil
			}
			msg := ev.Event.Message
			logger.Info(ctx, "message received",
				zap.String("message_id", msg.MessageID),
				zap.String("chat_id", msg.ChatID),
				zap.String("message_type", msg.MessageType))

			return nil
		}).
		OnP2MessageReactionCreatedV1(func(ctx context.Context, ev *event.P2MessageReactionCreatedV1) error {
			if ev.Event == nil || ev.Event.ReactionType == nil {
				return nil
			}
			logger.Info(ctx, "reaction added",
				zap.String("message_id", ev.Event.MessageID),
				zap.String("emoji_type", ev.Event.ReactionType.EmojiType))

			return nil
		})
}

func setupServer(ctx context.Context, cfg *config.Config, deps api.Deps) func(ctx context.Context) {
	server, err := api.NewServer(deps, api.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the webhook server and the delivery workers",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			client := getLarkClient(ctx, cfg, tokenCache(cfg, strg))
			n := notifier.New(strg, larkim.New(client), notifier.NewOptions(cfg))

			riverClient, err := worker.Start(ctx, strg.Pool, n, cfg.Notifier.MaxWorkers)
			if err != nil {
				logger.Fatal(ctx, "could not start workers", zap.Error(err))
			}

			stopWebserver := setupServer(ctx, cfg, api.Deps{
				Deps:   v1handler.Deps{Notifier: n},
				Events: newDispatcher(cfg, client),
			})

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)

			logger.Info(shutdownCtx, "stopping workers...")
			if err := riverClient.Stop(shutdownCtx); err != nil {
				logger.Error(shutdownCtx, "could not stop workers", zap.Error(err))
			}
		},
	}

	return cmd
}
