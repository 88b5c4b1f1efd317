package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/svoya-igra/gamebot/internal/game"
	"github.com/svoya-igra/gamebot/telegram"
)

// HandleStart opens a new game in a group chat with the sender as master.
// In a private chat the bot just introduces itself.
func (m *Manager) HandleStart(message *tgbotapi.Message) error {
	if message.Chat.IsPrivate() {
		return m.Outbox.Enqueue(telegram.NewSendMessage(message.Chat.ID, MsgPrivateGreeting, nil))
	}

	existing, err := m.Engine.ActiveGame(message.Chat.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return m.Outbox.Enqueue(telegram.NewSendMessage(message.Chat.ID, MsgGameExists, nil))
	}

	master := game.UserRef{ID: message.From.ID, Username: message.From.UserName}
	if _, err := m.Engine.CreateGame(message.Chat.ID, master); err != nil {
		return err
	}

	return m.Outbox.Enqueue(telegram.NewSendMessage(message.Chat.ID, MsgNewGame, &telegram.SendOptions{
		Keyboard: LobbyKeyboard(),
	}))
}

// HandleStop terminates the chat's game early. Only the master may stop it;
// anyone else's /stop is ignored without mutation.
func (m *Manager) HandleStop(message *tgbotapi.Message) error {
	g, err := m.Engine.ActiveGame(message.Chat.ID)
	if err != nil {
		return err
	}
	if g == nil || g.MasterID != message.From.ID {
		return nil
	}

	if _, err := m.Engine.Stop(message.Chat.ID); err != nil {
		return err
	}

	return m.Outbox.Enqueue(telegram.NewSendMessage(message.Chat.ID, MsgGameStopped, nil))
}
