package models

type Round struct {
	ID   uint   `gorm:"primaryKey"`
	Type string `gorm:"type:varchar(20);not null"`
}

// Round type constants
const (
	RoundType1 = "round_1"
	RoundType2 = "round_2"
	RoundType3 = "round_3"
)

// BaseScore is the price multiplier of the round: a question costs
// hard level × base score.
func (r *Round) BaseScore() int {
	switch r.Type {
	case RoundType2:
		return 200
	case RoundType3:
		return 300
	default:
		return 100
	}
}

func (Round) TableName() string {
	return "rounds"
}

// RoundGame links a round to exactly one game.
type RoundGame struct {
	RoundID uint `gorm:"primaryKey;autoIncrement:false"`
	GameID  uint `gorm:"primaryKey;autoIncrement:false"`
}

func (RoundGame) TableName() string {
	return "round_games"
}

// RoundTheme records a theme sampled into a round.
type RoundTheme struct {
	ThemeID uint `gorm:"primaryKey;autoIncrement:false"`
	RoundID uint `gorm:"primaryKey;autoIncrement:false"`
}

func (RoundTheme) TableName() string {
	return "round_themes"
}

// Answer status constants, shared by QuestionState and PlayerAnswer.
const (
	AnswerStatusNotAnswered  = "not_answered"
	AnswerStatusWaitAnswered = "wait_answered"
	AnswerStatusAnswered     = "answered"
)

// QuestionState is one question sampled into a round. The round is exhausted
// when every row is answered.
type QuestionState struct {
	RoundID    uint     `gorm:"primaryKey;autoIncrement:false"`
	ThemeID    uint     `gorm:"primaryKey;autoIncrement:false"`
	QuestionID uint     `gorm:"primaryKey;autoIncrement:false"`
	Status     string   `gorm:"type:varchar(20);default:'not_answered';not null"`
	Theme      Theme    `gorm:"foreignKey:ThemeID"`
	Question   Question `gorm:"foreignKey:QuestionID"`
}

func (QuestionState) TableName() string {
	return "question_states"
}

// PlayerAnswer tracks whether a player has consumed their single attempt for
// a question in a round.
type PlayerAnswer struct {
	UserID     int64  `gorm:"primaryKey;autoIncrement:false"`
	QuestionID uint   `gorm:"primaryKey;autoIncrement:false"`
	RoundID    uint   `gorm:"primaryKey;autoIncrement:false"`
	State      string `gorm:"type:varchar(20);default:'not_answered';not null"`
}

func (PlayerAnswer) TableName() string {
	return "player_answers"
}
