package sender

import (
	"encoding/json"
	"fmt"

	"github.com/svoya-igra/gamebot/pkg/logger"
	"github.com/svoya-igra/gamebot/telegram"
)

// Executor performs one outbound action against the Telegram API.
type Executor interface {
	Execute(action telegram.OutboundAction) error
}

// Sender is the last pipeline stage: it executes queued outbound actions in
// order. It keeps no state of its own; returning an error leaves the action
// on the queue for redelivery.
type Sender struct {
	executor Executor
}

func New(executor Executor) *Sender {
	return &Sender{executor: executor}
}

// Handle decodes and executes one queued action. A payload that does not
// decode is dropped with a log line: requeueing it can never succeed.
func (s *Sender) Handle(body []byte) error {
	var action telegram.OutboundAction
	if err := json.Unmarshal(body, &action); err != nil {
		logger.Error("Dropping undecodable outbound action", "error", err)
		return nil
	}

	if err := s.executor.Execute(action); err != nil {
		return fmt.Errorf("failed to execute %s: %w", action.Method, err)
	}

	logger.Debug("Outbound action executed", "method", action.Method)
	return nil
}
