package handlers

import (
	"fmt"
	"strings"

	"github.com/svoya-igra/gamebot/internal/game"
	"github.com/svoya-igra/gamebot/internal/models"
	"github.com/svoya-igra/gamebot/telegram"
)

// LobbyKeyboard is attached to the new-game announcement.
func LobbyKeyboard() [][]telegram.Button {
	return [][]telegram.Button{
		{{Label: BtnStartGame, Data: PayloadStartGame}},
		{{Label: BtnConnect, Data: PayloadConnect}},
	}
}

// AnswerKeyboard offers the single "answer this" button for a question.
func AnswerKeyboard(roundID, questionID uint) [][]telegram.Button {
	return [][]telegram.Button{
		{{Label: BtnAnswer, Data: AnswerPayload(roundID, questionID)}},
	}
}

// VerdictKeyboard is the master's two-button judgment prompt. The payload is
// the only place judgment context lives.
func VerdictKeyboard(userID int64, gameID uint, messageID int, questionID uint) [][]telegram.Button {
	return [][]telegram.Button{
		{
			{Label: BtnCorrect, Data: VerdictPayload(true, userID, gameID, messageID, questionID)},
			{Label: BtnWrong, Data: VerdictPayload(false, userID, gameID, messageID, questionID)},
		},
	}
}

// BoardView renders the current round's board: the theme legend and one
// keyboard row per theme, priced cells for open questions and inert
// placeholders for consumed ones.
func BoardView(round *models.Round, groups []game.BoardGroup) (string, [][]telegram.Button) {
	var lines []string
	var keyboard [][]telegram.Button

	for idx, group := range groups {
		lines = append(lines, fmt.Sprintf("%d. %s", idx+1, group.Theme.Title))

		var row []telegram.Button
		for _, cell := range group.Cells {
			if cell.Status == models.AnswerStatusAnswered {
				row = append(row, telegram.Button{Label: BtnAnsweredSlot, Data: PayloadAnswered})
				continue
			}
			price := cell.Question.Price(round)
			row = append(row, telegram.Button{
				Label: fmt.Sprintf("%d) %d", idx+1, price),
				Data:  ChoicePayload(cell.RoundID, cell.QuestionID),
			})
		}
		keyboard = append(keyboard, row)
	}

	return strings.Join(lines, "\n"), keyboard
}
