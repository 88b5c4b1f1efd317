package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/svoya-igra/gamebot/telegram"
)

// ActionPublisher feeds outbound Telegram actions into the output queue for
// the sender process to execute.
type ActionPublisher struct {
	queue *Queue
}

func NewActionPublisher(q *Queue) *ActionPublisher {
	return &ActionPublisher{queue: q}
}

func (p *ActionPublisher) Enqueue(action telegram.OutboundAction) error {
	body, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("failed to marshal outbound action: %w", err)
	}
	return p.queue.Publish(context.Background(), body)
}
