package game

import "github.com/svoya-igra/gamebot/internal/models"

// Repository is the persistence contract the engine runs on. The gorm
// implementation lives in internal/repositories; tests use the in-memory one
// from gametest. Atomic runs fn against a transactional view of the
// repository; every engine operation executes as one Atomic unit.
type Repository interface {
	Atomic(fn func(Repository) error) error

	// Users
	GetOrCreateUser(id int64, username string) (*models.User, error)
	GetUser(id int64) (*models.User, error)
	ApplySummary(userID int64, scoreDelta int, won bool) error

	// Games. Lookups return (nil, nil) when no matching game exists.
	ActiveGame(chatID int64) (*models.Game, error)
	GameByMaster(chatID, masterID int64) (*models.Game, error)
	GameByID(id uint) (*models.Game, error)
	CreateGame(chatID, masterID int64) (*models.Game, error)
	SetGameStatus(gameID uint, status string) error
	SetChooser(gameID uint, userID int64) error
	// SetActiveUser opens the answer window: it pins both the answering
	// user and the question being answered.
	SetActiveUser(gameID uint, userID int64, questionID uint) error
	ClearActiveUser(gameID uint) error

	// Players
	AddPlayer(gameID uint, userID int64) error
	IsPlayer(gameID uint, userID int64) (bool, error)
	Players(gameID uint) ([]models.User, error)
	Profiles(gameID uint) ([]models.GamePlayer, error)
	AddScore(gameID uint, userID int64, delta int) error

	// Rounds. CreateRound creates the round, links it to the game, samples
	// themeCount distinct themes uniformly at random and materializes one
	// QuestionState per sampled (theme, question) pair.
	CreateRound(gameID uint, roundType string, themeCount int) (*models.Round, error)
	CurrentRound(gameID uint, roundType string) (*models.Round, error)
	QuestionStates(roundID uint) ([]models.QuestionState, error)
	MarkQuestionAnswered(roundID, themeID, questionID uint) error
	HasRemainingQuestions(roundID uint) (bool, error)

	// Player answers
	InitPlayerAnswers(roundID, questionID uint, userIDs []int64) error
	PlayerAnswerState(userID int64, questionID, roundID uint) (string, error)
	SetPlayerAnswerState(userID int64, questionID, roundID uint, state string) error
	AwaitingAnswer(userID int64, roundID uint) (*models.PlayerAnswer, error)
	HasUntriedPlayers(roundID, questionID uint) (bool, error)

	// Questions
	GetQuestion(id uint) (*models.Question, error)
}
