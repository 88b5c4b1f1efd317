package repositories

import (
	"sort"

	"github.com/svoya-igra/gamebot/internal/game"
	"github.com/svoya-igra/gamebot/internal/models"
	"github.com/svoya-igra/gamebot/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GameRepository is the Postgres implementation of game.Repository.
type GameRepository struct {
	*UserRepository
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{
		UserRepository: NewUserRepository(db),
		db:             db,
	}
}

// Atomic runs fn inside one database transaction. The engine wraps every
// state-machine operation in Atomic, which is what keeps concurrently
// delivered updates for the same chat from losing writes.
func (r *GameRepository) Atomic(fn func(game.Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GameRepository{
			UserRepository: NewUserRepository(tx),
			db:             tx,
		})
	})
}

// ActiveGame returns the chat's non-completed game, or nil when none.
func (r *GameRepository) ActiveGame(chatID int64) (*models.Game, error) {
	var g models.Game
	result := r.db.Where("chat_id = ? AND status != ?", chatID, models.GameStatusCompleted).
		First(&g)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get active game")
	}

	return &g, nil
}

func (r *GameRepository) GameByMaster(chatID, masterID int64) (*models.Game, error) {
	var g models.Game
	result := r.db.Where("chat_id = ? AND master_id = ? AND status != ?",
		chatID, masterID, models.GameStatusCompleted).
		First(&g)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get game by master")
	}

	return &g, nil
}

func (r *GameRepository) GameByID(id uint) (*models.Game, error) {
	var g models.Game
	result := r.db.First(&g, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get game")
	}

	return &g, nil
}

func (r *GameRepository) CreateGame(chatID, masterID int64) (*models.Game, error) {
	g := &models.Game{
		ChatID:   chatID,
		MasterID: masterID,
		Status:   models.GameStatusLobby,
	}

	if err := r.db.Create(g).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create game")
	}
	return g, nil
}

func (r *GameRepository) SetGameStatus(gameID uint, status string) error {
	result := r.db.Model(&models.Game{}).
		Where("id = ?", gameID).
		Update("status", status)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to set game status")
	}
	return nil
}

func (r *GameRepository) SetChooser(gameID uint, userID int64) error {
	result := r.db.Model(&models.Game{}).
		Where("id = ?", gameID).
		Update("choice_user_id", userID)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to set chooser")
	}
	return nil
}

func (r *GameRepository) SetActiveUser(gameID uint, userID int64, questionID uint) error {
	result := r.db.Model(&models.Game{}).
		Where("id = ?", gameID).
		Updates(map[string]interface{}{
			"active_user_id":     userID,
			"active_question_id": questionID,
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to set active user")
	}
	return nil
}

func (r *GameRepository) ClearActiveUser(gameID uint) error {
	result := r.db.Model(&models.Game{}).
		Where("id = ?", gameID).
		Updates(map[string]interface{}{
			"active_user_id":     nil,
			"active_question_id": nil,
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to clear active user")
	}
	return nil
}

func (r *GameRepository) AddPlayer(gameID uint, userID int64) error {
	player := &models.GamePlayer{
		GameID: gameID,
		UserID: userID,
	}

	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(player).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to add player")
	}
	return nil
}

func (r *GameRepository) IsPlayer(gameID uint, userID int64) (bool, error) {
	var count int64
	result := r.db.Model(&models.GamePlayer{}).
		Where("game_id = ? AND user_id = ?", gameID, userID).
		Count(&count)

	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check membership")
	}
	return count > 0, nil
}

func (r *GameRepository) Players(gameID uint) ([]models.User, error) {
	var users []models.User
	result := r.db.
		Joins("JOIN game_players ON game_players.user_id = users.id").
		Where("game_players.game_id = ?", gameID).
		Order("game_players.created_at ASC").
		Find(&users)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list players")
	}
	return users, nil
}

func (r *GameRepository) Profiles(gameID uint) ([]models.GamePlayer, error) {
	var profiles []models.GamePlayer
	result := r.db.Where("game_id = ?", gameID).
		Preload("User").
		Find(&profiles)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list profiles")
	}
	return profiles, nil
}

func (r *GameRepository) AddScore(gameID uint, userID int64, delta int) error {
	result := r.db.Model(&models.GamePlayer{}).
		Where("game_id = ? AND user_id = ?", gameID, userID).
		Update("score", gorm.Expr("score + ?", delta))

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to add score")
	}
	return nil
}

// CreateRound creates a round linked to the game, samples themeCount
// distinct themes uniformly at random with all their questions, and
// materializes one QuestionState per (theme, question) pair.
func (r *GameRepository) CreateRound(gameID uint, roundType string, themeCount int) (*models.Round, error) {
	round := &models.Round{Type: roundType}
	if err := r.db.Create(round).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create round")
	}

	link := &models.RoundGame{RoundID: round.ID, GameID: gameID}
	if err := r.db.Create(link).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to link round")
	}

	var themes []models.Theme
	result := r.db.Preload("Questions").
		Order("RANDOM()").
		Limit(themeCount).
		Find(&themes)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to sample themes")
	}

	var states []models.QuestionState
	for _, theme := range themes {
		if err := r.db.Create(&models.RoundTheme{ThemeID: theme.ID, RoundID: round.ID}).Error; err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to link theme")
		}
		for _, q := range theme.Questions {
			states = append(states, models.QuestionState{
				RoundID:    round.ID,
				ThemeID:    theme.ID,
				QuestionID: q.ID,
				Status:     models.AnswerStatusNotAnswered,
			})
		}
	}
	if len(states) > 0 {
		if err := r.db.Create(&states).Error; err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create question states")
		}
	}

	return round, nil
}

// CurrentRound resolves the game's round whose type matches the game status.
// A game in lobby or completed state has none.
func (r *GameRepository) CurrentRound(gameID uint, roundType string) (*models.Round, error) {
	var round models.Round
	result := r.db.
		Joins("JOIN round_games ON round_games.round_id = rounds.id").
		Where("round_games.game_id = ? AND rounds.type = ?", gameID, roundType).
		First(&round)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get current round")
	}

	return &round, nil
}

// QuestionStates lists the round's board ordered by theme, then by question
// hard level within each theme.
func (r *GameRepository) QuestionStates(roundID uint) ([]models.QuestionState, error) {
	var states []models.QuestionState
	result := r.db.Where("round_id = ?", roundID).
		Preload("Theme").
		Preload("Question").
		Order("theme_id ASC").
		Find(&states)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list question states")
	}

	sort.SliceStable(states, func(i, j int) bool {
		if states[i].ThemeID != states[j].ThemeID {
			return states[i].ThemeID < states[j].ThemeID
		}
		return states[i].Question.HardLevel < states[j].Question.HardLevel
	})
	return states, nil
}

func (r *GameRepository) MarkQuestionAnswered(roundID, themeID, questionID uint) error {
	result := r.db.Model(&models.QuestionState{}).
		Where("round_id = ? AND theme_id = ? AND question_id = ?", roundID, themeID, questionID).
		Update("status", models.AnswerStatusAnswered)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to mark question answered")
	}
	return nil
}

func (r *GameRepository) HasRemainingQuestions(roundID uint) (bool, error) {
	var count int64
	result := r.db.Model(&models.QuestionState{}).
		Where("round_id = ? AND status = ?", roundID, models.AnswerStatusNotAnswered).
		Count(&count)

	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to count remaining questions")
	}
	return count > 0, nil
}

// InitPlayerAnswers opens the question for every participant. Re-delivered
// choices are harmless: existing rows are left untouched.
func (r *GameRepository) InitPlayerAnswers(roundID, questionID uint, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}

	answers := make([]models.PlayerAnswer, 0, len(userIDs))
	for _, userID := range userIDs {
		answers = append(answers, models.PlayerAnswer{
			UserID:     userID,
			QuestionID: questionID,
			RoundID:    roundID,
			State:      models.AnswerStatusNotAnswered,
		})
	}

	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&answers).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to init player answers")
	}
	return nil
}

func (r *GameRepository) PlayerAnswerState(userID int64, questionID, roundID uint) (string, error) {
	var answer models.PlayerAnswer
	result := r.db.Where("user_id = ? AND question_id = ? AND round_id = ?",
		userID, questionID, roundID).
		First(&answer)

	if result.Error == gorm.ErrRecordNotFound {
		return "", nil
	}
	if result.Error != nil {
		return "", errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get player answer state")
	}

	return answer.State, nil
}

func (r *GameRepository) SetPlayerAnswerState(userID int64, questionID, roundID uint, state string) error {
	result := r.db.Model(&models.PlayerAnswer{}).
		Where("user_id = ? AND question_id = ? AND round_id = ?", userID, questionID, roundID).
		Update("state", state)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to set player answer state")
	}
	return nil
}

// AwaitingAnswer returns the player's wait_answered row in the round, or nil.
func (r *GameRepository) AwaitingAnswer(userID int64, roundID uint) (*models.PlayerAnswer, error) {
	var answer models.PlayerAnswer
	result := r.db.Where("user_id = ? AND round_id = ? AND state = ?",
		userID, roundID, models.AnswerStatusWaitAnswered).
		First(&answer)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get awaiting answer")
	}

	return &answer, nil
}

func (r *GameRepository) HasUntriedPlayers(roundID, questionID uint) (bool, error) {
	var count int64
	result := r.db.Model(&models.PlayerAnswer{}).
		Where("round_id = ? AND question_id = ? AND state = ?",
			roundID, questionID, models.AnswerStatusNotAnswered).
		Count(&count)

	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to count untried players")
	}
	return count > 0, nil
}

func (r *GameRepository) GetQuestion(id uint) (*models.Question, error) {
	var question models.Question
	result := r.db.First(&question, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "question not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get question")
	}

	return &question, nil
}
