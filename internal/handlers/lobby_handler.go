package handlers

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/svoya-igra/gamebot/internal/game"
	"github.com/svoya-igra/gamebot/internal/models"
	"github.com/svoya-igra/gamebot/telegram"
)

// HandleStartGame launches the first round. Master only.
func (m *Manager) HandleStartGame(cq *tgbotapi.CallbackQuery) error {
	chatID := cq.Message.Chat.ID

	isMaster, err := m.Engine.IsMaster(chatID, cq.From.ID)
	if err != nil {
		return err
	}
	if !isMaster {
		return m.alert(cq, MsgMasterOnly)
	}

	// A redelivered tap on a game already past the lobby is only
	// acknowledged, otherwise AdvanceRound would end the round early.
	g, err := m.Engine.ActiveGame(chatID)
	if err != nil {
		return err
	}
	if g == nil || g.Status != models.GameStatusLobby {
		return m.ack(cq)
	}

	// Check for participants before leaving the lobby: advancing first
	// would close joins with nobody to play.
	players, err := m.Engine.Players(chatID)
	if err != nil {
		return err
	}
	if len(players) == 0 {
		return m.alert(cq, MsgNobodyJoined)
	}

	if _, err := m.Engine.AdvanceRound(chatID, m.ThemesPerRound); err != nil {
		return err
	}

	chooser, err := m.Engine.PickChooser(chatID)
	if err != nil {
		return err
	}

	if err := m.ack(cq); err != nil {
		return err
	}
	return m.editBoard(cq, chooser.Username)
}

// HandleConnect joins the tapping user to the lobby.
func (m *Manager) HandleConnect(cq *tgbotapi.CallbackQuery) error {
	chatID := cq.Message.Chat.ID

	isMaster, err := m.Engine.IsMaster(chatID, cq.From.ID)
	if err != nil {
		return err
	}
	if isMaster {
		return m.alert(cq, MsgYouAreMaster)
	}

	joined, err := m.Engine.AddPlayer(chatID, game.UserRef{ID: cq.From.ID, Username: cq.From.UserName})
	if err != nil {
		return err
	}
	if !joined {
		return m.alert(cq, MsgAlreadyJoined)
	}

	players, err := m.Engine.Players(chatID)
	if err != nil {
		return err
	}

	var lines []string
	for _, p := range players {
		lines = append(lines, "- @"+p.Username)
	}
	text := MsgNewGame + "\n\nНаши участники:\n" + strings.Join(lines, "\n")

	if err := m.Outbox.Enqueue(telegram.NewEditMessageText(
		chatID, cq.Message.MessageID, text, LobbyKeyboard(),
	)); err != nil {
		return err
	}
	return m.ack(cq)
}
