package handlers

import (
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/svoya-igra/gamebot/internal/game"
	"github.com/svoya-igra/gamebot/internal/middleware"
	"github.com/svoya-igra/gamebot/pkg/logger"
	"github.com/svoya-igra/gamebot/telegram"
)

// Per-user update budget. Telegram itself throttles harder than this; the
// limiter only stops one player's button mashing from starving the single
// consumer.
const (
	limiterMaxUpdates = 20
	limiterWindow     = 10 * time.Second
)

// Outbox feeds outbound actions into the output queue; the sender process
// executes them later.
type Outbox interface {
	Enqueue(action telegram.OutboundAction) error
}

// DirectSender performs an action immediately. The dispatcher needs it only
// for the master's judgment prompt, where delivery failure changes game
// state.
type DirectSender interface {
	Execute(action telegram.OutboundAction) error
}

// Manager routes inbound Telegram updates. Commands and exact callback
// payloads resolve through explicit tables; unmatched callback payloads fall
// through to prefix sub-dispatch. Free text without a command marker goes to
// answer capture.
type Manager struct {
	Engine         *game.Engine
	Outbox         Outbox
	Direct         DirectSender
	Limiter        *middleware.RateLimiter
	ThemesPerRound int

	commands  map[string]func(*tgbotapi.Message) error
	callbacks map[string]func(*tgbotapi.CallbackQuery) error
}

func NewManager(engine *game.Engine, outbox Outbox, direct DirectSender, themesPerRound int) *Manager {
	m := &Manager{
		Engine:         engine,
		Outbox:         outbox,
		Direct:         direct,
		Limiter:        middleware.NewRateLimiter(limiterMaxUpdates, limiterWindow),
		ThemesPerRound: themesPerRound,
	}

	m.commands = map[string]func(*tgbotapi.Message) error{
		"start": m.HandleStart,
		"stop":  m.HandleStop,
	}

	// Exact matches resolve before the prefix fallback; the "answered"
	// placeholder lives in the fallback and must stay behind these.
	m.callbacks = map[string]func(*tgbotapi.CallbackQuery) error{
		PayloadStartGame: m.HandleStartGame,
		PayloadConnect:   m.HandleConnect,
	}

	return m
}

// HandleUpdate processes one inbound update to completion. A non-nil error
// leaves the queue message unacknowledged, so anything returned here must be
// safe to redeliver.
func (m *Manager) HandleUpdate(update tgbotapi.Update) error {
	if from := update.SentFrom(); from != nil && !m.Limiter.Allow(from.ID) {
		logger.Debug("Rate-limited update dropped", "user_id", from.ID)
		return nil
	}

	switch {
	case update.Message != nil && update.Message.Text != "":
		return m.handleMessage(update.Message)
	case update.CallbackQuery != nil && update.CallbackQuery.Data != "":
		return m.handleCallback(update.CallbackQuery)
	}
	return nil
}

func (m *Manager) handleMessage(message *tgbotapi.Message) error {
	if message.IsCommand() {
		handler, ok := m.commands[message.Command()]
		if !ok {
			logger.Debug("Unknown command ignored", "command", message.Command())
			return nil
		}
		return handler(message)
	}
	return m.HandleAnswerText(message)
}

func (m *Manager) handleCallback(cq *tgbotapi.CallbackQuery) error {
	if handler, ok := m.callbacks[cq.Data]; ok {
		return handler(cq)
	}

	// Fallback sub-dispatch by payload prefix.
	switch {
	case strings.HasPrefix(cq.Data, PayloadAnswered):
		return m.HandleAnsweredSlot(cq)
	case strings.HasPrefix(cq.Data, prefixChoice):
		return m.HandleChoice(cq)
	case strings.HasPrefix(cq.Data, prefixAnswer):
		return m.HandleBeginAnswer(cq)
	default:
		return m.HandleVerdict(cq)
	}
}

// ack answers the callback query with no text.
func (m *Manager) ack(cq *tgbotapi.CallbackQuery) error {
	return m.Outbox.Enqueue(telegram.NewAnswerCallback(cq.ID, "", false))
}

// alert shows an ephemeral notice to the tapping user only.
func (m *Manager) alert(cq *tgbotapi.CallbackQuery, text string) error {
	return m.Outbox.Enqueue(telegram.NewAnswerCallback(cq.ID, text, true))
}
