package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/svoya-igra/gamebot/pkg/logger"
)

// retryDelay backs off the loop after a failed long poll.
const retryDelay = time.Second

// UpdatesFetcher long-polls Telegram for updates after an offset.
type UpdatesFetcher interface {
	GetUpdates(offset, timeoutSeconds int) ([]tgbotapi.Update, error)
}

// Publisher pushes raw update payloads onto the input queue.
type Publisher interface {
	Publish(ctx context.Context, body []byte) error
}

// Poller is the first pipeline stage: it drains Telegram's update feed into
// the input queue and keeps nothing but the long-poll offset in memory. The
// offset restarts at zero on boot; Telegram drops updates already confirmed
// by a previous offset, so a restart costs at most one redelivered batch.
type Poller struct {
	fetcher UpdatesFetcher
	queue   Publisher
	timeout int
	offset  int
}

func New(fetcher UpdatesFetcher, queue Publisher, timeoutSeconds int) *Poller {
	return &Poller{fetcher: fetcher, queue: queue, timeout: timeoutSeconds}
}

// Run polls until ctx is cancelled. Fetch errors are logged and retried;
// a publish error stops the loop so the update is re-fetched after restart
// rather than lost.
func (p *Poller) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		updates, err := p.fetcher.GetUpdates(p.offset, p.timeout)
		if err != nil {
			logger.Error("Failed to fetch updates", "offset", p.offset, "error", err)
			time.Sleep(retryDelay)
			continue
		}

		for _, update := range updates {
			if err := p.publish(ctx, update); err != nil {
				return err
			}
			p.offset = update.UpdateID + 1
		}
	}
}

func (p *Poller) publish(ctx context.Context, update tgbotapi.Update) error {
	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal update %d: %w", update.UpdateID, err)
	}
	if err := p.queue.Publish(ctx, body); err != nil {
		return fmt.Errorf("failed to enqueue update %d: %w", update.UpdateID, err)
	}
	logger.Debug("Update enqueued", "update_id", update.UpdateID)
	return nil
}
