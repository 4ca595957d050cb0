package telegram

import (
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ugcgo/ugcgo-backend/internal/config"
)

// Sender is the subset of the bot API used for alerts.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Client struct {
	bot    Sender
	chatID int64
}

// NewClient connects the alert bot. A missing token or chat id yields a
// client that silently drops alerts.
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.TelegramBotToken == "" || cfg.TelegramAdminChatID == 0 {
		return &Client{}, nil
	}
	bot, err := tgbotapi.NewBotAPIWithClient(cfg.TelegramBotToken, tgbotapi.APIEndpoint, &http.Client{Timeout: 10 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Client{bot: bot, chatID: cfg.TelegramAdminChatID}, nil
}

// NewWithSender is used by tests and by callers owning a bot instance.
func NewWithSender(bot Sender, chatID int64) *Client {
	return &Client{bot: bot, chatID: chatID}
}

func (c *Client) SendAlert(msg string) error {
	if c == nil || c.bot == nil || c.chatID == 0 {
		return nil
	}
	m := tgbotapi.NewMessage(c.chatID, "🚨 ERROR: "+msg)
	m.DisableWebPagePreview = true
	_, err := c.bot.Send(m)
	return err
}
