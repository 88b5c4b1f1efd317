package handlers

import (
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/svoya-igra/gamebot/internal/game"
	"github.com/svoya-igra/gamebot/internal/game/gametest"
	"github.com/svoya-igra/gamebot/internal/models"
	"github.com/svoya-igra/gamebot/telegram"
)

const (
	testChatID   = int64(-1001)
	testMasterID = int64(10)
	testAliceID  = int64(11)
	testBobID    = int64(12)
)

type outboxRecorder struct {
	actions []telegram.OutboundAction
}

func (o *outboxRecorder) Enqueue(action telegram.OutboundAction) error {
	o.actions = append(o.actions, action)
	return nil
}

// last action with the given method, or nil.
func (o *outboxRecorder) last(method string) *telegram.OutboundAction {
	for i := len(o.actions) - 1; i >= 0; i-- {
		if o.actions[i].Method == method {
			return &o.actions[i]
		}
	}
	return nil
}

type directRecorder struct {
	actions []telegram.OutboundAction
	err     error
}

func (d *directRecorder) Execute(action telegram.OutboundAction) error {
	if d.err != nil {
		return d.err
	}
	d.actions = append(d.actions, action)
	return nil
}

type fixture struct {
	manager *Manager
	repo    *gametest.Repository
	outbox  *outboxRecorder
	direct  *directRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := gametest.NewRepository()
	repo.SeedTheme("История", models.Question{Text: "Вопрос?", Answer: "Ответ", HardLevel: 1})

	outbox := &outboxRecorder{}
	direct := &directRecorder{}
	manager := NewManager(game.NewEngine(repo), outbox, direct, 3)
	return &fixture{manager: manager, repo: repo, outbox: outbox, direct: direct}
}

func commandUpdate(userID int64, username, command string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     "/" + command,
		Chat:     &tgbotapi.Chat{ID: testChatID, Type: "supergroup"},
		From:     &tgbotapi.User{ID: userID, UserName: username},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(command) + 1}},
	}}
}

func textUpdate(userID int64, username, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 500,
		Text:      text,
		Chat:      &tgbotapi.Chat{ID: testChatID, Type: "supergroup"},
		From:      &tgbotapi.User{ID: userID, UserName: username},
	}}
}

func callbackUpdate(userID int64, username, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb-1",
		Data: data,
		From: &tgbotapi.User{ID: userID, UserName: username},
		Message: &tgbotapi.Message{
			MessageID: 100,
			Chat:      &tgbotapi.Chat{ID: testChatID, Type: "supergroup"},
		},
	}}
}

// privateCallback targets the master's own chat, as verdict buttons do.
func privateCallback(userID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb-2",
		Data: data,
		From: &tgbotapi.User{ID: userID, UserName: "master"},
		Message: &tgbotapi.Message{
			MessageID: 200,
			Text:      "prompt",
			Chat:      &tgbotapi.Chat{ID: userID, Type: "private"},
		},
	}}
}

func TestStartCreatesLobby(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.manager.HandleUpdate(commandUpdate(testMasterID, "master", "start")))

	g, err := f.repo.ActiveGame(testChatID)
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, models.GameStatusLobby, g.Status)

	sent := f.outbox.last("sendMessage")
	require.NotNil(t, sent)
	assert.Contains(t, sent.Params["reply_markup"], PayloadStartGame)
}

func TestConnectRefusesMaster(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.manager.HandleUpdate(commandUpdate(testMasterID, "master", "start")))

	require.NoError(t, f.manager.HandleUpdate(callbackUpdate(testMasterID, "master", PayloadConnect)))

	alert := f.outbox.last("answerCallbackQuery")
	require.NotNil(t, alert)
	assert.Equal(t, MsgYouAreMaster, alert.Params["text"])
}

func TestConnectJoinsOnce(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.manager.HandleUpdate(commandUpdate(testMasterID, "master", "start")))

	require.NoError(t, f.manager.HandleUpdate(callbackUpdate(testAliceID, "alice", PayloadConnect)))
	edited := f.outbox.last("editMessageText")
	require.NotNil(t, edited)
	assert.Contains(t, edited.Params["text"], "@alice")

	require.NoError(t, f.manager.HandleUpdate(callbackUpdate(testAliceID, "alice", PayloadConnect)))
	alert := f.outbox.last("answerCallbackQuery")
	require.NotNil(t, alert)
	assert.Equal(t, MsgAlreadyJoined, alert.Params["text"])
}

func TestStartGameRequiresMaster(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.manager.HandleUpdate(commandUpdate(testMasterID, "master", "start")))
	require.NoError(t, f.manager.HandleUpdate(callbackUpdate(testAliceID, "alice", PayloadConnect)))

	require.NoError(t, f.manager.HandleUpdate(callbackUpdate(testAliceID, "alice", PayloadStartGame)))

	alert := f.outbox.last("answerCallbackQuery")
	require.NotNil(t, alert)
	assert.Equal(t, MsgMasterOnly, alert.Params["text"])

	g, err := f.repo.ActiveGame(testChatID)
	require.NoError(t, err)
	assert.Equal(t, models.GameStatusLobby, g.Status)
}

func TestStartGameWithoutPlayersKeepsLobbyOpen(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.manager.HandleUpdate(commandUpdate(testMasterID, "master", "start")))

	require.NoError(t, f.manager.HandleUpdate(callbackUpdate(testMasterID, "master", PayloadStartGame)))

	alert := f.outbox.last("answerCallbackQuery")
	require.NotNil(t, alert)
	assert.Equal(t, MsgNobodyJoined, alert.Params["text"])

	g, err := f.repo.ActiveGame(testChatID)
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, models.GameStatusLobby, g.Status, "the lobby must stay open")

	// Joining still works after the premature tap.
	require.NoError(t, f.manager.HandleUpdate(callbackUpdate(testAliceID, "alice", PayloadConnect)))
	joined, err := f.repo.IsPlayer(g.ID, testAliceID)
	require.NoError(t, err)
	assert.True(t, joined)
}

func TestStartGameRedeliveryHarmless(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.manager.HandleUpdate(commandUpdate(testMasterID, "master", "start")))
	require.NoError(t, f.manager.HandleUpdate(callbackUpdate(testAliceID, "alice", PayloadConnect)))
	require.NoError(t, f.manager.HandleUpdate(callbackUpdate(testMasterID, "master", PayloadStartGame)))
	require.NoError(t, f.manager.HandleUpdate(callbackUpdate(testMasterID, "master", PayloadStartGame)))

	g, err := f.repo.ActiveGame(testChatID)
	require.NoError(t, err)
	require.NotNil(t, g, "a redelivered start tap must not end the game")
	assert.Equal(t, models.GameStatusRound1, g.Status)
}

func TestStopIgnoredFromPlayers(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.manager.HandleUpdate(commandUpdate(testMasterID, "master", "start")))
	require.NoError(t, f.manager.HandleUpdate(callbackUpdate(testAliceID, "alice", PayloadConnect)))

	require.NoError(t, f.manager.HandleUpdate(commandUpdate(testAliceID, "alice", "stop")))
	g, err := f.repo.ActiveGame(testChatID)
	require.NoError(t, err)
	require.NotNil(t, g, "a player's /stop must not end the game")

	require.NoError(t, f.manager.HandleUpdate(commandUpdate(testMasterID, "master", "stop")))
	g, err = f.repo.ActiveGame(testChatID)
	require.NoError(t, err)
	assert.Nil(t, g)
}

// Drives a whole game through HandleUpdate: lobby, board, answer, verdict,
// standings.
func TestFullGameFlow(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.manager.HandleUpdate(commandUpdate(testMasterID, "master", "start")))
	require.NoError(t, f.manager.HandleUpdate(callbackUpdate(testAliceID, "alice", PayloadConnect)))
	require.NoError(t, f.manager.HandleUpdate(callbackUpdate(testBobID, "bob", PayloadConnect)))
	require.NoError(t, f.manager.HandleUpdate(callbackUpdate(testMasterID, "master", PayloadStartGame)))

	board := f.outbox.last("editMessageText")
	require.NotNil(t, board)
	assert.Contains(t, board.Params["text"], "История")

	g, err := f.repo.ActiveGame(testChatID)
	require.NoError(t, err)
	require.NotNil(t, g.ChoiceUserID)
	chooserID := *g.ChoiceUserID

	round, err := f.repo.CurrentRound(g.ID, g.Status)
	require.NoError(t, err)
	states, err := f.repo.QuestionStates(round.ID)
	require.NoError(t, err)
	require.NotEmpty(t, states)
	questionID := states[0].QuestionID

	chooserName := "alice"
	if chooserID == testBobID {
		chooserName = "bob"
	}
	require.NoError(t, f.manager.HandleUpdate(callbackUpdate(chooserID, chooserName, ChoicePayload(round.ID, questionID))))
	require.NoError(t, f.manager.HandleUpdate(callbackUpdate(testAliceID, "alice", AnswerPayload(round.ID, questionID))))
	require.NoError(t, f.manager.HandleUpdate(textUpdate(testAliceID, "alice", "мой ответ")))

	// The judgment prompt went to the master's private chat, synchronously.
	require.Len(t, f.direct.actions, 1)
	prompt := f.direct.actions[0]
	assert.Equal(t, "sendMessage", prompt.Method)

	require.NoError(t, f.manager.HandleUpdate(privateCallback(testMasterID,
		VerdictPayload(true, testAliceID, g.ID, 500, questionID))))

	verdict := f.outbox.last("sendMessage")
	require.NotNil(t, verdict)
	assert.Contains(t, verdict.Params["text"], "общий счёт")
	assert.Contains(t, verdict.Params["text"], "@alice — 100")

	active, err := f.repo.ActiveGame(testChatID)
	require.NoError(t, err)
	assert.Nil(t, active, "the single-question game must complete")
}

func TestWrongVerdictRepromptsUntriedPlayers(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.manager.HandleUpdate(commandUpdate(testMasterID, "master", "start")))
	require.NoError(t, f.manager.HandleUpdate(callbackUpdate(testAliceID, "alice", PayloadConnect)))
	require.NoError(t, f.manager.HandleUpdate(callbackUpdate(testBobID, "bob", PayloadConnect)))
	require.NoError(t, f.manager.HandleUpdate(callbackUpdate(testMasterID, "master", PayloadStartGame)))

	g, err := f.repo.ActiveGame(testChatID)
	require.NoError(t, err)
	round, err := f.repo.CurrentRound(g.ID, g.Status)
	require.NoError(t, err)
	states, err := f.repo.QuestionStates(round.ID)
	require.NoError(t, err)
	questionID := states[0].QuestionID

	chooserID := *g.ChoiceUserID
	chooserName := "alice"
	if chooserID == testBobID {
		chooserName = "bob"
	}
	require.NoError(t, f.manager.HandleUpdate(callbackUpdate(chooserID, chooserName, ChoicePayload(round.ID, questionID))))
	require.NoError(t, f.manager.HandleUpdate(callbackUpdate(testAliceID, "alice", AnswerPayload(round.ID, questionID))))
	require.NoError(t, f.manager.HandleUpdate(textUpdate(testAliceID, "alice", "не знаю")))

	require.NoError(t, f.manager.HandleUpdate(privateCallback(testMasterID,
		VerdictPayload(false, testAliceID, g.ID, 500, questionID))))

	// Bob has not tried, so the chat gets the question again with an
	// answer button, and the game stays in the round.
	var reprompted bool
	for _, a := range f.outbox.actions {
		if a.Method == "sendMessage" && strings.Contains(a.Params["text"], "Может кто-то другой") {
			reprompted = true
			assert.Contains(t, a.Params["reply_markup"], AnswerPayload(round.ID, questionID))
		}
	}
	assert.True(t, reprompted)

	g, err = f.repo.ActiveGame(testChatID)
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, models.GameStatusRound1, g.Status)
}

func TestMasterTapOnAnswerButton(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.manager.HandleUpdate(commandUpdate(testMasterID, "master", "start")))
	require.NoError(t, f.manager.HandleUpdate(callbackUpdate(testAliceID, "alice", PayloadConnect)))
	require.NoError(t, f.manager.HandleUpdate(callbackUpdate(testMasterID, "master", PayloadStartGame)))

	require.NoError(t, f.manager.HandleUpdate(callbackUpdate(testMasterID, "master", AnswerPayload(1, 1))))

	alert := f.outbox.last("answerCallbackQuery")
	require.NotNil(t, alert)
	assert.Equal(t, MsgMasterRemind, alert.Params["text"])
}

func TestBlockedMasterReleasesQuestion(t *testing.T) {
	f := newFixture(t)
	f.direct.err = &tgbotapi.Error{Code: 403, Message: "Forbidden: bot was blocked by the user"}

	require.NoError(t, f.manager.HandleUpdate(commandUpdate(testMasterID, "master", "start")))
	require.NoError(t, f.manager.HandleUpdate(callbackUpdate(testAliceID, "alice", PayloadConnect)))
	require.NoError(t, f.manager.HandleUpdate(callbackUpdate(testMasterID, "master", PayloadStartGame)))

	g, err := f.repo.ActiveGame(testChatID)
	require.NoError(t, err)
	round, err := f.repo.CurrentRound(g.ID, g.Status)
	require.NoError(t, err)
	states, err := f.repo.QuestionStates(round.ID)
	require.NoError(t, err)
	questionID := states[0].QuestionID

	require.NoError(t, f.manager.HandleUpdate(callbackUpdate(testAliceID, "alice", ChoicePayload(round.ID, questionID))))
	require.NoError(t, f.manager.HandleUpdate(callbackUpdate(testAliceID, "alice", AnswerPayload(round.ID, questionID))))
	require.NoError(t, f.manager.HandleUpdate(textUpdate(testAliceID, "alice", "мой ответ")))

	// The only question was consumed, so releasing the window rolls the
	// game to completion.
	g, err = f.repo.ActiveGame(testChatID)
	require.NoError(t, err)
	assert.Nil(t, g)

	var notified bool
	for _, a := range f.outbox.actions {
		if a.Method == "sendMessage" && strings.Contains(a.Params["text"], MsgMasterUnreachable) {
			notified = true
		}
	}
	assert.True(t, notified, "the chat must learn the master is unreachable")
}

func TestAnsweredSlotOnlyAcks(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.manager.HandleUpdate(commandUpdate(testMasterID, "master", "start")))

	before := len(f.outbox.actions)
	require.NoError(t, f.manager.HandleUpdate(callbackUpdate(testAliceID, "alice", PayloadAnswered)))

	require.Len(t, f.outbox.actions, before+1)
	assert.Equal(t, "answerCallbackQuery", f.outbox.actions[before].Method)
}
