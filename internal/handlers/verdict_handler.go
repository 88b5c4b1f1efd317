package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/svoya-igra/gamebot/telegram"
)

// HandleVerdict applies the master's judgment from their private chat. A
// redelivered or second tap yields a nil result from the engine and is only
// acknowledged, so scoring stays exactly-once under at-least-once delivery.
func (m *Manager) HandleVerdict(cq *tgbotapi.CallbackQuery) error {
	verdict, err := ParseVerdict(cq.Data)
	if err != nil {
		return err
	}

	result, err := m.Engine.Judge(verdict.Correct, verdict.UserID, verdict.GameID, verdict.QuestionID)
	if err != nil {
		return err
	}
	if result == nil {
		return m.ack(cq)
	}

	// Strip the judgment buttons from the master's prompt.
	if err := m.Outbox.Enqueue(telegram.NewEditMessageText(
		cq.Message.Chat.ID, cq.Message.MessageID, cq.Message.Text, nil,
	)); err != nil {
		return err
	}

	chatID := result.Game.ChatID
	price := result.Price

	if result.Correct {
		text := fmt.Sprintf("Иии.. ваш ответ верен!\n+ %d очков", price)
		if err := m.Outbox.Enqueue(telegram.NewSendMessage(chatID, text, &telegram.SendOptions{
			ReplyToMessageID: verdict.MessageID,
		})); err != nil {
			return err
		}
		if err := m.continueRound(chatID, result.Round.ID, result.Game.ID); err != nil {
			return err
		}
		return m.ack(cq)
	}

	text := fmt.Sprintf("Иии.. увы, ваш ответ неверен!\n- %d очков", price)
	if err := m.Outbox.Enqueue(telegram.NewSendMessage(chatID, text, &telegram.SendOptions{
		ReplyToMessageID: verdict.MessageID,
	})); err != nil {
		return err
	}

	untried, err := m.Engine.HasUntriedPlayers(result.Round.ID, result.Question.ID)
	if err != nil {
		return err
	}
	if untried {
		retry := fmt.Sprintf("Может кто-то другой ответит на вопрос?:\n\n%s", result.Question.Text)
		if err := m.Outbox.Enqueue(telegram.NewSendMessage(chatID, retry, &telegram.SendOptions{
			Keyboard: AnswerKeyboard(result.Round.ID, result.Question.ID),
		})); err != nil {
			return err
		}
		return m.ack(cq)
	}

	reveal := fmt.Sprintf("%s\nПравильный ответ: %s", MsgNobodyAnswered, result.Question.Answer)
	if err := m.Outbox.Enqueue(telegram.NewSendMessage(chatID, reveal, nil)); err != nil {
		return err
	}
	if err := m.continueRound(chatID, result.Round.ID, result.Game.ID); err != nil {
		return err
	}
	return m.ack(cq)
}
