// Package notifier delivers operator alerts about the remote backend.
package notifier

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"bikeship/internal/domain/entity"
	"bikeship/pkg/logx"
)

type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
}

func NewTelegramBot(token string, chatID int64, opts ...telego.BotOption) (*TelegramBot, error) {
	bot, err := telego.NewBot(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("telego.NewBot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// NotifyConnection reports a change of the remote backend state.
func (b *TelegramBot) NotifyConnection(ctx context.Context, backend string, prev, cur entity.ConnectionStatus) error {
	msg := tu.Message(
		tu.ID(b.chatID),
		ConnectionText(backend, prev, cur),
	).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("bot.SendMessage: %w", err)
	}

	logger(ctx).Info("connection alert sent",
		slog.String(logx.FieldBackend, backend),
		slog.String(logx.FieldConnection, string(cur.State)),
	)

	return nil
}

// ConnectionText renders the alert body.
func ConnectionText(backend string, prev, cur entity.ConnectionStatus) string {
	icon := "⚠️"
	if cur.State == entity.ConnectionConnected {
		icon = "✅"
	}

	if backend == "" {
		backend = "remote"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s <b>%s backend</b>: %s → %s",
		icon, html.EscapeString(backend), stateLabel(prev.State), stateLabel(cur.State))

	if cur.Reason != "" {
		fmt.Fprintf(&sb, "\n<code>%s</code>", html.EscapeString(cur.Reason))
	}

	if cur.State != entity.ConnectionConnected {
		sb.WriteString("\nWrites are going to the local store.")
	}

	if !cur.CheckedAt.IsZero() {
		fmt.Fprintf(&sb, "\n%s", cur.CheckedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	}

	return sb.String()
}

func stateLabel(s entity.ConnectionState) string {
	if s == "" {
		return "unknown"
	}
	return string(s)
}

// Nop drops alerts. It is used when no bot token is configured.
type Nop struct{}

func (Nop) NotifyConnection(context.Context, string, entity.ConnectionStatus, entity.ConnectionStatus) error {
	return nil
}
