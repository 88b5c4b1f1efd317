package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/svoya-igra/gamebot/pkg/errors"
)

// Callback payloads. Fixed payloads match exactly; parameterized ones are
// colon-separated with a prefix.
const (
	PayloadStartGame = "start_game"
	PayloadConnect   = "connect_to_game"
	PayloadAnswered  = "answered"

	prefixChoice = "btn_choice"
	prefixAnswer = "btn_answer"

	verdictCorrect = "correct"
	verdictWrong   = "wrong"
)

// ChoicePayload encodes a board cell tap: btn_choice:<round>:<question>.
func ChoicePayload(roundID, questionID uint) string {
	return fmt.Sprintf("%s:%d:%d", prefixChoice, roundID, questionID)
}

// AnswerPayload encodes an answer-attempt tap: btn_answer:<round>:<question>.
func AnswerPayload(roundID, questionID uint) string {
	return fmt.Sprintf("%s:%d:%d", prefixAnswer, roundID, questionID)
}

// ParseRoundQuestion extracts the round and question ids from a btn_choice
// or btn_answer payload.
func ParseRoundQuestion(data string) (roundID, questionID uint, err error) {
	parts := strings.Split(data, ":")
	if len(parts) != 3 {
		return 0, 0, errors.New(errors.ErrCodeInternalError, "malformed callback payload: "+data)
	}
	r, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return 0, 0, errors.Wrap(err, errors.ErrCodeInternalError, "bad round id in payload")
	}
	q, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return 0, 0, errors.Wrap(err, errors.ErrCodeInternalError, "bad question id in payload")
	}
	return uint(r), uint(q), nil
}

// Verdict is the master's decoded judgment payload. MessageID points at the
// answer message in the game chat so the outcome can be sent as a reply.
type Verdict struct {
	Correct    bool
	UserID     int64
	GameID     uint
	MessageID  int
	QuestionID uint
}

// VerdictPayload encodes a judgment button:
// <correct|wrong>:<user>:<game>:<message>:<question>.
func VerdictPayload(correct bool, userID int64, gameID uint, messageID int, questionID uint) string {
	kind := verdictWrong
	if correct {
		kind = verdictCorrect
	}
	return fmt.Sprintf("%s:%d:%d:%d:%d", kind, userID, gameID, messageID, questionID)
}

// ParseVerdict decodes a judgment payload.
func ParseVerdict(data string) (*Verdict, error) {
	parts := strings.Split(data, ":")
	if len(parts) != 5 {
		return nil, errors.New(errors.ErrCodeInternalError, "malformed verdict payload: "+data)
	}
	if parts[0] != verdictCorrect && parts[0] != verdictWrong {
		return nil, errors.New(errors.ErrCodeInternalError, "unknown verdict kind: "+parts[0])
	}

	userID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "bad user id in verdict")
	}
	gameID, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "bad game id in verdict")
	}
	messageID, err := strconv.Atoi(parts[3])
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "bad message id in verdict")
	}
	questionID, err := strconv.ParseUint(parts[4], 10, 32)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "bad question id in verdict")
	}

	return &Verdict{
		Correct:    parts[0] == verdictCorrect,
		UserID:     userID,
		GameID:     uint(gameID),
		MessageID:  messageID,
		QuestionID: uint(questionID),
	}, nil
}
