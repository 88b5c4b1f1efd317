package handlers

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/svoya-igra/gamebot/pkg/errors"
	"github.com/svoya-igra/gamebot/telegram"
)

// HandleAnsweredSlot absorbs taps on consumed board cells.
func (m *Manager) HandleAnsweredSlot(cq *tgbotapi.CallbackQuery) error {
	return m.ack(cq)
}

// HandleChoice opens the question picked by the current chooser.
func (m *Manager) HandleChoice(cq *tgbotapi.CallbackQuery) error {
	roundID, questionID, err := ParseRoundQuestion(cq.Data)
	if err != nil {
		return err
	}

	chatID := cq.Message.Chat.ID
	question, err := m.Engine.ChooseQuestion(chatID, cq.From.ID, roundID, questionID)
	if err != nil {
		if errors.Is(err, errors.ErrCodeForbidden) {
			return m.alert(cq, MsgNotChooser)
		}
		return err
	}

	text := fmt.Sprintf("Окей, игрок @%s, выбрал вопрос:\n\n%s", cq.From.UserName, question.Text)
	if err := m.Outbox.Enqueue(telegram.NewEditMessageText(
		chatID, cq.Message.MessageID, text, AnswerKeyboard(roundID, questionID),
	)); err != nil {
		return err
	}
	return m.ack(cq)
}

// editBoard replaces the tapped message with the fresh board.
func (m *Manager) editBoard(cq *tgbotapi.CallbackQuery, chooserName string) error {
	chatID := cq.Message.Chat.ID
	round, groups, err := m.Engine.Board(chatID)
	if err != nil {
		return err
	}
	if round == nil || len(groups) == 0 {
		return m.Outbox.Enqueue(telegram.NewEditMessageText(chatID, cq.Message.MessageID, MsgNoQuestions, nil))
	}

	legend, keyboard := BoardView(round, groups)
	text := fmt.Sprintf("Итак, начнём!\n\n%s\n\nВыбирает тему @%s:", legend, chooserName)
	return m.Outbox.Enqueue(telegram.NewEditMessageText(chatID, cq.Message.MessageID, text, keyboard))
}

// sendBoard posts the board as a new message mid-round.
func (m *Manager) sendBoard(chatID int64) error {
	round, groups, err := m.Engine.Board(chatID)
	if err != nil {
		return err
	}
	if round == nil || len(groups) == 0 {
		return m.Outbox.Enqueue(telegram.NewSendMessage(chatID, MsgNoQuestions, nil))
	}

	chooser, err := m.Engine.CurrentChooser(chatID)
	if err != nil {
		return err
	}

	legend, keyboard := BoardView(round, groups)
	text := fmt.Sprintf("А мы продолжаем!\n\n%s\n\nВыбирает тему @%s:", legend, chooser.Username)
	return m.Outbox.Enqueue(telegram.NewSendMessage(chatID, text, &telegram.SendOptions{Keyboard: keyboard}))
}

// continueRound resumes play after a question is settled: back to the board
// while questions remain, otherwise the game ends with the standings.
func (m *Manager) continueRound(chatID int64, roundID, gameID uint) error {
	remaining, err := m.Engine.RoundHasRemainingQuestions(roundID)
	if err != nil {
		return err
	}
	if remaining {
		return m.sendBoard(chatID)
	}

	advanced, err := m.Engine.AdvanceRound(chatID, m.ThemesPerRound)
	if err != nil {
		return err
	}
	if advanced {
		return m.sendBoard(chatID)
	}

	results, err := m.Engine.Summarize(gameID)
	if err != nil {
		return err
	}

	var lines []string
	for _, res := range results {
		lines = append(lines, fmt.Sprintf("@%s — %d", res.User.Username, res.Score))
	}
	text := "Что ж, наша игра подходит к концу, и наш общий счёт:\n\n" + strings.Join(lines, "\n")
	return m.Outbox.Enqueue(telegram.NewSendMessage(chatID, text, nil))
}
