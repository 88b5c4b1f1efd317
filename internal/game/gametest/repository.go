// Package gametest provides an in-memory game.Repository for tests.
package gametest

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/svoya-igra/gamebot/internal/game"
	"github.com/svoya-igra/gamebot/internal/models"
	"github.com/svoya-igra/gamebot/pkg/errors"
)

// Repository keeps all entities in flat keyed maps. Individual methods do
// not lock: they are called either from inside Atomic or from sequential
// test code, matching the single-consumer discipline of the dispatcher.
type Repository struct {
	mu sync.Mutex

	users          map[int64]*models.User
	games          map[uint]*models.Game
	players        map[uint][]*models.GamePlayer
	rounds         map[uint]*models.Round
	roundGames     map[uint]uint
	themes         map[uint]*models.Theme
	questions      map[uint]*models.Question
	questionStates []*models.QuestionState
	playerAnswers  []*models.PlayerAnswer

	nextGameID     uint
	nextRoundID    uint
	nextThemeID    uint
	nextQuestionID uint
}

func NewRepository() *Repository {
	return &Repository{
		users:      make(map[int64]*models.User),
		games:      make(map[uint]*models.Game),
		players:    make(map[uint][]*models.GamePlayer),
		rounds:     make(map[uint]*models.Round),
		roundGames: make(map[uint]uint),
		themes:     make(map[uint]*models.Theme),
		questions:  make(map[uint]*models.Question),
	}
}

// SeedTheme registers a theme with its questions and returns it with ids
// assigned.
func (s *Repository) SeedTheme(title string, questions ...models.Question) models.Theme {
	s.nextThemeID++
	theme := &models.Theme{ID: s.nextThemeID, Title: title}
	s.themes[theme.ID] = theme

	for i := range questions {
		s.nextQuestionID++
		q := questions[i]
		q.ID = s.nextQuestionID
		q.ThemeID = theme.ID
		s.questions[q.ID] = &q
		theme.Questions = append(theme.Questions, q)
	}
	return *theme
}

func (s *Repository) Atomic(fn func(game.Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

func (s *Repository) GetOrCreateUser(id int64, username string) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	u := &models.User{ID: id, Username: username}
	s.users[id] = u
	copied := *u
	return &copied, nil
}

func (s *Repository) GetUser(id int64) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	copied := *u
	return &copied, nil
}

func (s *Repository) ApplySummary(userID int64, scoreDelta int, won bool) error {
	u, ok := s.users[userID]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "user not found")
	}
	u.Score += int64(scoreDelta)
	if won {
		u.WinCount++
	} else {
		u.LossCount++
	}
	return nil
}

func (s *Repository) ActiveGame(chatID int64) (*models.Game, error) {
	for _, g := range s.games {
		if g.ChatID == chatID && g.Status != models.GameStatusCompleted {
			copied := *g
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *Repository) GameByMaster(chatID, masterID int64) (*models.Game, error) {
	for _, g := range s.games {
		if g.ChatID == chatID && g.MasterID == masterID && g.Status != models.GameStatusCompleted {
			copied := *g
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *Repository) GameByID(id uint) (*models.Game, error) {
	g, ok := s.games[id]
	if !ok {
		return nil, nil
	}
	copied := *g
	return &copied, nil
}

func (s *Repository) CreateGame(chatID, masterID int64) (*models.Game, error) {
	s.nextGameID++
	g := &models.Game{
		ID:       s.nextGameID,
		ChatID:   chatID,
		MasterID: masterID,
		Status:   models.GameStatusLobby,
	}
	s.games[g.ID] = g
	copied := *g
	return &copied, nil
}

func (s *Repository) SetGameStatus(gameID uint, status string) error {
	g, ok := s.games[gameID]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "game not found")
	}
	g.Status = status
	return nil
}

func (s *Repository) SetChooser(gameID uint, userID int64) error {
	g, ok := s.games[gameID]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "game not found")
	}
	g.ChoiceUserID = &userID
	return nil
}

func (s *Repository) SetActiveUser(gameID uint, userID int64, questionID uint) error {
	g, ok := s.games[gameID]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "game not found")
	}
	g.ActiveUserID = &userID
	g.ActiveQuestionID = &questionID
	return nil
}

func (s *Repository) ClearActiveUser(gameID uint) error {
	g, ok := s.games[gameID]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "game not found")
	}
	g.ActiveUserID = nil
	g.ActiveQuestionID = nil
	return nil
}

func (s *Repository) AddPlayer(gameID uint, userID int64) error {
	s.players[gameID] = append(s.players[gameID], &models.GamePlayer{
		UserID: userID,
		GameID: gameID,
	})
	return nil
}

func (s *Repository) IsPlayer(gameID uint, userID int64) (bool, error) {
	for _, p := range s.players[gameID] {
		if p.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Repository) Players(gameID uint) ([]models.User, error) {
	var result []models.User
	for _, p := range s.players[gameID] {
		if u, ok := s.users[p.UserID]; ok {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (s *Repository) Profiles(gameID uint) ([]models.GamePlayer, error) {
	var result []models.GamePlayer
	for _, p := range s.players[gameID] {
		copied := *p
		if u, ok := s.users[p.UserID]; ok {
			copied.User = *u
		}
		result = append(result, copied)
	}
	return result, nil
}

func (s *Repository) AddScore(gameID uint, userID int64, delta int) error {
	for _, p := range s.players[gameID] {
		if p.UserID == userID {
			p.Score += delta
			return nil
		}
	}
	return errors.New(errors.ErrCodeNotFound, "player not found")
}

func (s *Repository) CreateRound(gameID uint, roundType string, themeCount int) (*models.Round, error) {
	s.nextRoundID++
	round := &models.Round{ID: s.nextRoundID, Type: roundType}
	s.rounds[round.ID] = round
	s.roundGames[round.ID] = gameID

	themeIDs := make([]uint, 0, len(s.themes))
	for id := range s.themes {
		themeIDs = append(themeIDs, id)
	}
	rand.Shuffle(len(themeIDs), func(i, j int) {
		themeIDs[i], themeIDs[j] = themeIDs[j], themeIDs[i]
	})
	if len(themeIDs) > themeCount {
		themeIDs = themeIDs[:themeCount]
	}

	for _, themeID := range themeIDs {
		for _, q := range s.questions {
			if q.ThemeID != themeID {
				continue
			}
			s.questionStates = append(s.questionStates, &models.QuestionState{
				RoundID:    round.ID,
				ThemeID:    themeID,
				QuestionID: q.ID,
				Status:     models.AnswerStatusNotAnswered,
			})
		}
	}

	copied := *round
	return &copied, nil
}

func (s *Repository) CurrentRound(gameID uint, roundType string) (*models.Round, error) {
	for roundID, gid := range s.roundGames {
		if gid == gameID && s.rounds[roundID].Type == roundType {
			copied := *s.rounds[roundID]
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *Repository) QuestionStates(roundID uint) ([]models.QuestionState, error) {
	var result []models.QuestionState
	for _, st := range s.questionStates {
		if st.RoundID != roundID {
			continue
		}
		copied := *st
		if theme, ok := s.themes[st.ThemeID]; ok {
			copied.Theme = models.Theme{ID: theme.ID, Title: theme.Title}
		}
		if q, ok := s.questions[st.QuestionID]; ok {
			copied.Question = *q
		}
		result = append(result, copied)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].ThemeID != result[j].ThemeID {
			return result[i].ThemeID < result[j].ThemeID
		}
		return result[i].Question.HardLevel < result[j].Question.HardLevel
	})
	return result, nil
}

func (s *Repository) MarkQuestionAnswered(roundID, themeID, questionID uint) error {
	for _, st := range s.questionStates {
		if st.RoundID == roundID && st.ThemeID == themeID && st.QuestionID == questionID {
			st.Status = models.AnswerStatusAnswered
			return nil
		}
	}
	return errors.New(errors.ErrCodeNotFound, "question state not found")
}

func (s *Repository) HasRemainingQuestions(roundID uint) (bool, error) {
	for _, st := range s.questionStates {
		if st.RoundID == roundID && st.Status == models.AnswerStatusNotAnswered {
			return true, nil
		}
	}
	return false, nil
}

func (s *Repository) InitPlayerAnswers(roundID, questionID uint, userIDs []int64) error {
	for _, userID := range userIDs {
		if state, _ := s.PlayerAnswerState(userID, questionID, roundID); state != "" {
			continue
		}
		s.playerAnswers = append(s.playerAnswers, &models.PlayerAnswer{
			UserID:     userID,
			QuestionID: questionID,
			RoundID:    roundID,
			State:      models.AnswerStatusNotAnswered,
		})
	}
	return nil
}

func (s *Repository) PlayerAnswerState(userID int64, questionID, roundID uint) (string, error) {
	for _, pa := range s.playerAnswers {
		if pa.UserID == userID && pa.QuestionID == questionID && pa.RoundID == roundID {
			return pa.State, nil
		}
	}
	return "", nil
}

func (s *Repository) SetPlayerAnswerState(userID int64, questionID, roundID uint, state string) error {
	for _, pa := range s.playerAnswers {
		if pa.UserID == userID && pa.QuestionID == questionID && pa.RoundID == roundID {
			pa.State = state
			return nil
		}
	}
	return errors.New(errors.ErrCodeNotFound, "player answer not found")
}

func (s *Repository) AwaitingAnswer(userID int64, roundID uint) (*models.PlayerAnswer, error) {
	for _, pa := range s.playerAnswers {
		if pa.UserID == userID && pa.RoundID == roundID && pa.State == models.AnswerStatusWaitAnswered {
			copied := *pa
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *Repository) HasUntriedPlayers(roundID, questionID uint) (bool, error) {
	for _, pa := range s.playerAnswers {
		if pa.RoundID == roundID && pa.QuestionID == questionID && pa.State == models.AnswerStatusNotAnswered {
			return true, nil
		}
	}
	return false, nil
}

func (s *Repository) GetQuestion(id uint) (*models.Question, error) {
	q, ok := s.questions[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "question not found")
	}
	copied := *q
	return &copied, nil
}
