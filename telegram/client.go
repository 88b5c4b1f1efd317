package telegram

import (
	stderrors "errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/svoya-igra/gamebot/pkg/logger"
)

// Client wraps the Telegram Bot API. The pipeline uses it in two places:
// the poller fetches updates through it, and the sender executes queued
// outbound actions. The dispatcher holds one only for the master's judgment
// prompt, the single call whose failure must be observed synchronously.
type Client struct {
	api *tgbotapi.BotAPI
}

func NewClient(token string, debug bool) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	api.Debug = debug

	logger.Info("Authorized on account", "username", api.Self.UserName)
	return &Client{api: api}, nil
}

// Execute performs an outbound action against the API.
func (c *Client) Execute(action OutboundAction) error {
	params := tgbotapi.Params(action.Params)
	if _, err := c.api.MakeRequest(action.Method, params); err != nil {
		return fmt.Errorf("telegram %s failed: %w", action.Method, err)
	}
	return nil
}

// GetUpdates long-polls for updates after the given offset.
func (c *Client) GetUpdates(offset, timeoutSeconds int) ([]tgbotapi.Update, error) {
	cfg := tgbotapi.UpdateConfig{
		Offset:  offset,
		Timeout: timeoutSeconds,
	}
	return c.api.GetUpdates(cfg)
}

// IsForbidden reports whether err is Telegram refusing the call, which for
// a private sendMessage means the target never initiated contact with the
// bot.
func IsForbidden(err error) bool {
	var apiErr *tgbotapi.Error
	if stderrors.As(err, &apiErr) {
		return apiErr.Code == 403
	}
	return false
}
