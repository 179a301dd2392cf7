package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"openlark/internal/config"
	"openlark/internal/notifier"
	"openlark/pkg/domain"
	"openlark/pkg/logger"
	"openlark/pkg/messenger"
	"openlark/pkg/messenger/larkim"
	"openlark/pkg/service/im"
)

type sendFlags struct {
	receiveID     string
	receiveIDType string
	msgType       string
	text          string
	content       string
	async         bool
}

func (f *sendFlags) messageContent() (string, error) {
	switch {
	case f.text != "" && f.content != "":
		return "", errors.New("--text and --content are mutually exclusive")
	case f.text != "":
		if f.msgType != im.MsgTypeText {
			return "", fmt.Errorf("--text requires --msg-type %s", im.MsgTypeText)
		}

		return im.TextContent(f.text), nil
	case f.content != "":
		return f.content, nil
	default:
		return "", errors.New("one of --text or --content is required")
	}
}

// sendCommand sends a message right away, or stores it in the outbox for the
// workers of the serve command when --async is set.
func sendCommand(cfg *config.Config) *cobra.Command {
	var f sendFlags

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Sends a message, or enqueues it with --async",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			content, err := f.messageContent()
			if err != nil {
				logger.Fatal(ctx, "invalid flags", zap.Error(err))
			}

			client, strg, closeAll := getLarkClientWithStorage(ctx, cfg, f.async)
			defer closeAll()

			m := larkim.New(client)

			if f.async {
				n := notifier.New(strg, m, notifier.NewOptions(cfg))
				d, err := n.Enqueue(ctx, domain.Delivery{
					ReceiveIDType: f.receiveIDType,
					ReceiveID:     f.receiveID,
					MsgType:       f.msgType,
					Content:       content,
				})
				if err != nil {
					logger.Fatal(ctx, "could not enqueue message", zap.Error(err))
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), d.ID.String())

				return
			}

			idType, id, err := notifier.NormalizeReceiver(f.receiveIDType, f.receiveID)
			if err != nil {
				logger.Fatal(ctx, "invalid receiver", zap.Error(err))
			}
			res, rl, err := m.Send(ctx, messenger.Message{
				ReceiveIDType: idType,
				ReceiveID:     id,
				MsgType:       f.msgType,
				Content:       content,
				UUID:          uuid.NewString(),
			})
			if err != nil {
				logger.Fatal(ctx, "could not send message", zap.Error(err))
			}
			logger.Debug(ctx, "message sent", zap.Int("rate_limit_remaining", rl.Remaining))
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), res.MessageID)
		},
	}

	cmd.Flags().StringVarP(&f.receiveID, "to", "t", "", "Receiver id: open_id, union_id, user_id, chat_id or email")
	cmd.Flags().StringVar(&f.receiveIDType, "to-type", "", "Receiver id type, inferred from --to when empty")
	cmd.Flags().StringVar(&f.msgType, "msg-type", im.MsgTypeText, "Message type")
	cmd.Flags().StringVar(&f.text, "text", "", "Text of a text message")
	cmd.Flags().StringVar(&f.content, "content", "", "Message content as JSON")
	cmd.Flags().BoolVar(&f.async, "async", false, "Store the message in the outbox instead of sending it now")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

// recallCommand deletes a message previously sent by the bot.
func recallCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "recall <message_id>",
		Short: "Recalls a message sent by the app",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			client, _, closeAll := getLarkClientWithStorage(ctx, cfg, false)
			defer closeAll()

			if _, err := larkim.New(client).Recall(ctx, args[0]); err != nil {
				logger.Fatal(ctx, "could not recall message", zap.Error(err))
			}
			logger.Info(ctx, "message recalled", zap.String("message_id", args[0]))
		},
	}
}
