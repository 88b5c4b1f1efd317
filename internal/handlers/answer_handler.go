package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/svoya-igra/gamebot/internal/security"
	"github.com/svoya-igra/gamebot/pkg/errors"
	"github.com/svoya-igra/gamebot/pkg/logger"
	"github.com/svoya-igra/gamebot/pkg/utils"
	"github.com/svoya-igra/gamebot/telegram"
)

// HandleBeginAnswer claims the answer window for the tapping player.
func (m *Manager) HandleBeginAnswer(cq *tgbotapi.CallbackQuery) error {
	chatID := cq.Message.Chat.ID

	isMaster, err := m.Engine.IsMaster(chatID, cq.From.ID)
	if err != nil {
		return err
	}
	if isMaster {
		return m.alert(cq, MsgMasterRemind)
	}

	roundID, questionID, err := ParseRoundQuestion(cq.Data)
	if err != nil {
		return err
	}

	question, err := m.Engine.BeginAnswer(chatID, cq.From.ID, roundID, questionID)
	if err != nil {
		if errors.Is(err, errors.ErrCodeAlreadyExists) {
			return m.alert(cq, MsgAlreadyTried)
		}
		return err
	}

	text := fmt.Sprintf("Отвечает @%s\n\n%s\n\n%s", cq.From.UserName, question.Text, MsgAnswerWindow)
	if err := m.Outbox.Enqueue(telegram.NewEditMessageText(chatID, cq.Message.MessageID, text, nil)); err != nil {
		return err
	}
	return m.ack(cq)
}

// HandleAnswerText captures the active player's free-text answer and
// forwards it to the master's private chat for judgment. The private send is
// the one call made synchronously: a blocked master must surface here, not
// in the sender process, so the game can degrade instead of stalling.
func (m *Manager) HandleAnswerText(message *tgbotapi.Message) error {
	chatID := message.Chat.ID

	captured, err := m.Engine.CaptureAnswer(chatID, message.From.ID)
	if err != nil {
		return err
	}
	if captured == nil {
		return nil
	}

	answer := security.SanitizeUserText(message.Text)
	text := fmt.Sprintf(
		"Игрок @%s отвечает на вопрос:\n\n*Вопрос:* %s\n*Правильный ответ:* %s\n*Ответ игрока:* %s\n\nВаш вердикт?",
		utils.EscapeMarkdownV2(message.From.UserName),
		utils.EscapeMarkdownV2(captured.Question.Text),
		utils.EscapeMarkdownV2(captured.Question.Answer),
		utils.EscapeMarkdownV2(answer),
	)
	prompt := telegram.NewSendMessage(captured.Game.MasterID, text, &telegram.SendOptions{
		Keyboard:  VerdictKeyboard(message.From.ID, captured.Game.ID, message.MessageID, captured.Question.ID),
		ParseMode: tgbotapi.ModeMarkdownV2,
	})

	if err := m.Direct.Execute(prompt); err != nil {
		if !telegram.IsForbidden(err) {
			return err
		}

		logger.Warn("Master unreachable in private chat, releasing the question",
			"game_id", captured.Game.ID, "master_id", captured.Game.MasterID)
		if err := m.Engine.UnblockAnswer(chatID); err != nil {
			return err
		}
		if err := m.Outbox.Enqueue(telegram.NewSendMessage(chatID, MsgMasterUnreachable, nil)); err != nil {
			return err
		}
		return m.continueRound(chatID, captured.Round.ID, captured.Game.ID)
	}

	return m.Outbox.Enqueue(telegram.NewSendMessage(chatID, MsgAnswerForward, &telegram.SendOptions{
		ReplyToMessageID: message.MessageID,
	}))
}
