package game

import (
	"sort"

	"github.com/svoya-igra/gamebot/internal/models"
	"github.com/svoya-igra/gamebot/pkg/errors"
	"github.com/svoya-igra/gamebot/pkg/utils"
)

// UserRef identifies a Telegram user on the wire.
type UserRef struct {
	ID       int64
	Username string
}

// BoardGroup is one theme of the current round's board with its question
// cells in hard-level order.
type BoardGroup struct {
	Theme models.Theme
	Cells []models.QuestionState
}

// CapturedAnswer is a free-text answer accepted for arbitration.
type CapturedAnswer struct {
	Game     *models.Game
	Round    *models.Round
	Question *models.Question
}

// VerdictResult is the outcome of a judged answer.
type VerdictResult struct {
	Game     *models.Game
	Round    *models.Round
	Question *models.Question
	Price    int
	Correct  bool
}

// PlayerResult is one line of the final standings.
type PlayerResult struct {
	User  models.User
	Score int
	Won   bool
}

// Engine is the per-chat game state machine. It owns no I/O beyond the
// repository; every operation runs as one Atomic unit so concurrently
// delivered updates for the same chat cannot interleave mid-operation.
type Engine struct {
	repo Repository
}

func NewEngine(repo Repository) *Engine {
	return &Engine{repo: repo}
}

// ActiveGame returns the chat's non-completed game, or nil.
func (e *Engine) ActiveGame(chatID int64) (*models.Game, error) {
	return e.repo.ActiveGame(chatID)
}

// IsMaster reports whether the user runs an active game in the chat.
func (e *Engine) IsMaster(chatID, userID int64) (bool, error) {
	g, err := e.repo.GameByMaster(chatID, userID)
	if err != nil {
		return false, err
	}
	return g != nil, nil
}

// CreateGame registers the master and opens a lobby game. Idempotent: an
// existing non-completed game for (chat, master) is returned as-is.
func (e *Engine) CreateGame(chatID int64, master UserRef) (*models.Game, error) {
	var game *models.Game
	err := e.repo.Atomic(func(r Repository) error {
		if _, err := r.GetOrCreateUser(master.ID, master.Username); err != nil {
			return err
		}

		existing, err := r.GameByMaster(chatID, master.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			game = existing
			return nil
		}

		game, err = r.CreateGame(chatID, master.ID)
		return err
	})
	return game, err
}

// AddPlayer registers the user globally if unseen and joins them to the
// chat's lobby game. Reports false when there is no open lobby or the user
// already joined.
func (e *Engine) AddPlayer(chatID int64, user UserRef) (bool, error) {
	joined := false
	err := e.repo.Atomic(func(r Repository) error {
		if _, err := r.GetOrCreateUser(user.ID, user.Username); err != nil {
			return err
		}

		g, err := r.ActiveGame(chatID)
		if err != nil {
			return err
		}
		if g == nil || g.Status != models.GameStatusLobby {
			return nil
		}

		already, err := r.IsPlayer(g.ID, user.ID)
		if err != nil || already {
			return err
		}

		if err := r.AddPlayer(g.ID, user.ID); err != nil {
			return err
		}
		joined = true
		return nil
	})
	return joined, err
}

// Players lists the participants of the chat's active game.
func (e *Engine) Players(chatID int64) ([]models.User, error) {
	g, err := e.repo.ActiveGame(chatID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "no active game")
	}
	return e.repo.Players(g.ID)
}

// AdvanceRound moves the game forward. From round 1 there is no next round:
// the game is completed and false is returned. Otherwise a fresh round is
// created with themeCount sampled themes and the game enters round 1.
func (e *Engine) AdvanceRound(chatID int64, themeCount int) (bool, error) {
	advanced := false
	err := e.repo.Atomic(func(r Repository) error {
		g, err := r.ActiveGame(chatID)
		if err != nil {
			return err
		}
		if g == nil {
			return errors.New(errors.ErrCodeNotFound, "no active game")
		}

		if g.Status == models.GameStatusRound1 {
			return r.SetGameStatus(g.ID, models.GameStatusCompleted)
		}

		if err := r.SetGameStatus(g.ID, models.GameStatusRound1); err != nil {
			return err
		}
		if _, err := r.CreateRound(g.ID, models.RoundType1, themeCount); err != nil {
			return err
		}
		advanced = true
		return nil
	})
	return advanced, err
}

// PickChooser hands the board to a uniformly random participant.
func (e *Engine) PickChooser(chatID int64) (*models.User, error) {
	var chooser *models.User
	err := e.repo.Atomic(func(r Repository) error {
		g, err := r.ActiveGame(chatID)
		if err != nil {
			return err
		}
		if g == nil {
			return errors.New(errors.ErrCodeNotFound, "no active game")
		}

		players, err := r.Players(g.ID)
		if err != nil {
			return err
		}
		if len(players) == 0 {
			return errors.New(errors.ErrCodeNotFound, "no players joined")
		}

		picked := utils.PickRandom(players)
		if err := r.SetChooser(g.ID, picked.ID); err != nil {
			return err
		}
		chooser = &picked
		return nil
	})
	return chooser, err
}

// CurrentChooser returns the participant currently privileged to pick.
func (e *Engine) CurrentChooser(chatID int64) (*models.User, error) {
	g, err := e.repo.ActiveGame(chatID)
	if err != nil {
		return nil, err
	}
	if g == nil || g.ChoiceUserID == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "no chooser assigned")
	}
	return e.repo.GetUser(*g.ChoiceUserID)
}

// Board returns the current round and its question states grouped by theme.
// An empty board (no current round, or nothing sampled) returns no groups.
func (e *Engine) Board(chatID int64) (*models.Round, []BoardGroup, error) {
	g, err := e.repo.ActiveGame(chatID)
	if err != nil {
		return nil, nil, err
	}
	if g == nil {
		return nil, nil, nil
	}

	round, err := e.repo.CurrentRound(g.ID, g.Status)
	if err != nil {
		return nil, nil, err
	}
	if round == nil {
		return nil, nil, nil
	}

	states, err := e.repo.QuestionStates(round.ID)
	if err != nil {
		return nil, nil, err
	}

	var groups []BoardGroup
	index := make(map[uint]int)
	for _, st := range states {
		i, ok := index[st.ThemeID]
		if !ok {
			i = len(groups)
			index[st.ThemeID] = i
			groups = append(groups, BoardGroup{Theme: st.Theme})
		}
		groups[i].Cells = append(groups[i].Cells, st)
	}
	return round, groups, nil
}

// ChooseQuestion is restricted to the current chooser. It opens the question
// by initializing one PlayerAnswer row per participant.
func (e *Engine) ChooseQuestion(chatID, userID int64, roundID, questionID uint) (*models.Question, error) {
	var question *models.Question
	err := e.repo.Atomic(func(r Repository) error {
		g, err := r.ActiveGame(chatID)
		if err != nil {
			return err
		}
		if g == nil {
			return errors.New(errors.ErrCodeNotFound, "no active game")
		}
		if g.ChoiceUserID == nil || *g.ChoiceUserID != userID {
			return errors.New(errors.ErrCodeForbidden, "not the chooser")
		}

		players, err := r.Players(g.ID)
		if err != nil {
			return err
		}
		ids := make([]int64, len(players))
		for i, p := range players {
			ids[i] = p.ID
		}
		if err := r.InitPlayerAnswers(roundID, questionID, ids); err != nil {
			return err
		}

		question, err = r.GetQuestion(questionID)
		return err
	})
	return question, err
}

// BeginAnswer opens the answer window for the player. The attempt is
// single-use: a player who already answered this (question, round) is
// rejected.
func (e *Engine) BeginAnswer(chatID, userID int64, roundID, questionID uint) (*models.Question, error) {
	var question *models.Question
	err := e.repo.Atomic(func(r Repository) error {
		state, err := r.PlayerAnswerState(userID, questionID, roundID)
		if err != nil {
			return err
		}
		if state == models.AnswerStatusAnswered {
			return errors.New(errors.ErrCodeAlreadyExists, "attempt already consumed")
		}

		g, err := r.ActiveGame(chatID)
		if err != nil {
			return err
		}
		if g == nil {
			return errors.New(errors.ErrCodeNotFound, "no active game")
		}

		if err := r.SetActiveUser(g.ID, userID, questionID); err != nil {
			return err
		}
		if err := r.SetPlayerAnswerState(userID, questionID, roundID, models.AnswerStatusWaitAnswered); err != nil {
			return err
		}

		question, err = r.GetQuestion(questionID)
		return err
	})
	return question, err
}

// CaptureAnswer consumes the free-text answer of the active user. Messages
// from anyone else, or without an awaiting question, are ignored (nil
// result, nil error).
func (e *Engine) CaptureAnswer(chatID, userID int64) (*CapturedAnswer, error) {
	var captured *CapturedAnswer
	err := e.repo.Atomic(func(r Repository) error {
		g, err := r.ActiveGame(chatID)
		if err != nil {
			return err
		}
		if g == nil || g.ActiveUserID == nil || *g.ActiveUserID != userID {
			return nil
		}

		round, err := r.CurrentRound(g.ID, g.Status)
		if err != nil {
			return err
		}
		if round == nil {
			return nil
		}

		pending, err := r.AwaitingAnswer(userID, round.ID)
		if err != nil {
			return err
		}
		if pending == nil {
			return nil
		}

		question, err := r.GetQuestion(pending.QuestionID)
		if err != nil {
			return err
		}

		if err := r.SetPlayerAnswerState(userID, question.ID, round.ID, models.AnswerStatusAnswered); err != nil {
			return err
		}
		if err := r.MarkQuestionAnswered(round.ID, question.ThemeID, question.ID); err != nil {
			return err
		}

		captured = &CapturedAnswer{Game: g, Round: round, Question: question}
		return nil
	})
	return captured, err
}

// Judge applies the master's verdict: ±price exactly once. A redelivered or
// stale verdict returns a nil result and mutates nothing: the payload must
// match both the game's active user and its active question, so a late
// verdict for an earlier question cannot re-apply its delta after the same
// player opens a new answer window. On a correct verdict the player becomes
// the chooser; in both cases the answer window closes.
func (e *Engine) Judge(correct bool, userID int64, gameID, questionID uint) (*VerdictResult, error) {
	var result *VerdictResult
	err := e.repo.Atomic(func(r Repository) error {
		g, err := r.GameByID(gameID)
		if err != nil {
			return err
		}
		if g == nil {
			return errors.New(errors.ErrCodeNotFound, "game not found")
		}
		if g.ActiveUserID == nil || *g.ActiveUserID != userID {
			return nil
		}
		if g.ActiveQuestionID == nil || *g.ActiveQuestionID != questionID {
			return nil
		}

		round, err := r.CurrentRound(g.ID, g.Status)
		if err != nil {
			return err
		}
		if round == nil {
			return errors.New(errors.ErrCodeNotFound, "no current round")
		}

		question, err := r.GetQuestion(questionID)
		if err != nil {
			return err
		}

		price := question.Price(round)
		delta := price
		if !correct {
			delta = -price
		}
		if err := r.AddScore(g.ID, userID, delta); err != nil {
			return err
		}

		if correct {
			if err := r.SetChooser(g.ID, userID); err != nil {
				return err
			}
		}
		if err := r.ClearActiveUser(g.ID); err != nil {
			return err
		}

		result = &VerdictResult{
			Game:     g,
			Round:    round,
			Question: question,
			Price:    price,
			Correct:  correct,
		}
		return nil
	})
	return result, err
}

// RoundHasRemainingQuestions reports whether any sampled question of the
// round is still unanswered.
func (e *Engine) RoundHasRemainingQuestions(roundID uint) (bool, error) {
	return e.repo.HasRemainingQuestions(roundID)
}

// HasUntriedPlayers reports whether anyone can still attempt the question.
func (e *Engine) HasUntriedPlayers(roundID, questionID uint) (bool, error) {
	return e.repo.HasUntriedPlayers(roundID, questionID)
}

// UnblockAnswer clears the answer window without crediting anything. Used
// when the master cannot be reached: play degrades instead of stalling.
func (e *Engine) UnblockAnswer(chatID int64) error {
	return e.repo.Atomic(func(r Repository) error {
		g, err := r.ActiveGame(chatID)
		if err != nil {
			return err
		}
		if g == nil {
			return nil
		}
		return r.ClearActiveUser(g.ID)
	})
}

// Stop terminates the chat's active game early. Returns the stopped game,
// or nil when there was none.
func (e *Engine) Stop(chatID int64) (*models.Game, error) {
	var stopped *models.Game
	err := e.repo.Atomic(func(r Repository) error {
		g, err := r.ActiveGame(chatID)
		if err != nil {
			return err
		}
		if g == nil {
			return nil
		}
		if err := r.SetGameStatus(g.ID, models.GameStatusCompleted); err != nil {
			return err
		}
		stopped = g
		return nil
	})
	return stopped, err
}

// Summarize orders participants by per-game score and folds the results into
// their lifetime totals: the top scorer takes a win, everyone else a loss.
func (e *Engine) Summarize(gameID uint) ([]PlayerResult, error) {
	var results []PlayerResult
	err := e.repo.Atomic(func(r Repository) error {
		profiles, err := r.Profiles(gameID)
		if err != nil {
			return err
		}

		sort.SliceStable(profiles, func(i, j int) bool {
			return profiles[i].Score > profiles[j].Score
		})

		results = make([]PlayerResult, 0, len(profiles))
		for i, p := range profiles {
			won := i == 0
			if err := r.ApplySummary(p.UserID, p.Score, won); err != nil {
				return err
			}
			results = append(results, PlayerResult{User: p.User, Score: p.Score, Won: won})
		}
		return nil
	})
	return results, err
}
