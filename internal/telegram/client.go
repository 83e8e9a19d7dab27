// Package telegram adapts the Telegram Bot API to the message source and
// sink interfaces consumed by the ingestion loop.
package telegram

import (
	"bytes"
	"context"
	"fmt"
	"time"

	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"

	"github.com/gbarbosa/gastos-bot/internal/models"
)

// Client wraps the Telegram bot API.
type Client struct {
	api *tgbot.Bot
}

// New creates a Client. The underlying library validates the token with a
// getMe call, so a bad token fails here, before polling starts.
func New(token string) (*Client, error) {
	api, err := tgbot.New(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %w", err)
	}
	return &Client{api: api}, nil
}

// Poll long-polls getUpdates for messages after offset. It returns every
// update, message or not, so the caller can advance its cursor past
// update kinds it does not handle.
func (c *Client) Poll(ctx context.Context, offset int64, timeout time.Duration) ([]models.Update, error) {
	raw, err := c.api.GetUpdates(ctx, &tgbot.GetUpdatesParams{
		Offset:  offset,
		Timeout: int(timeout.Seconds()),
	})
	if err != nil {
		return nil, fmt.Errorf("getUpdates failed: %w", err)
	}

	updates := make([]models.Update, 0, len(raw))
	for _, u := range raw {
		update := models.Update{SequenceID: u.ID}
		if u.Message != nil {
			update.ChatID = u.Message.Chat.ID
			update.Text = u.Message.Text
			if u.Message.From != nil {
				update.FirstName = u.Message.From.FirstName
			}
		}
		updates = append(updates, update)
	}
	return updates, nil
}

// SendMessage sends a Markdown-formatted text reply.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := c.api.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: tgmodels.ParseModeMarkdown,
	})
	if err != nil {
		return fmt.Errorf("sendMessage failed: %w", err)
	}
	return nil
}

// SendDocument uploads a file (chart PNGs) with a caption.
func (c *Client) SendDocument(ctx context.Context, chatID int64, filename string, data []byte, caption string) error {
	_, err := c.api.SendDocument(ctx, &tgbot.SendDocumentParams{
		ChatID:   chatID,
		Document: &tgmodels.InputFileUpload{Filename: filename, Data: bytes.NewReader(data)},
		Caption:  caption,
	})
	if err != nil {
		return fmt.Errorf("sendDocument failed: %w", err)
	}
	return nil
}
