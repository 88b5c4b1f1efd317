package models

import "time"

type Game struct {
	ID           uint   `gorm:"primaryKey"`
	ChatID       int64  `gorm:"not null;index"`
	Status       string `gorm:"type:varchar(20);default:'lobby';not null"`
	MasterID     int64  `gorm:"not null"`
	Master       User   `gorm:"foreignKey:MasterID"`
	ActiveUserID *int64
	// ActiveQuestionID pins the open answer window to one question, so a
	// stale verdict for an earlier question cannot match.
	ActiveQuestionID *uint
	ChoiceUserID     *int64
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Game status constants
const (
	GameStatusLobby     = "lobby"
	GameStatusRound1    = "round_1"
	GameStatusRound2    = "round_2"
	GameStatusRound3    = "round_3"
	GameStatusCompleted = "completed"
)

func (Game) TableName() string {
	return "games"
}

// GamePlayer is the per-game membership row carrying the player's score for
// that game. Score is mutated only by judged verdicts.
type GamePlayer struct {
	UserID    int64     `gorm:"primaryKey;autoIncrement:false"`
	GameID    uint      `gorm:"primaryKey;autoIncrement:false"`
	User      User      `gorm:"foreignKey:UserID"`
	Score     int       `gorm:"default:0;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (GamePlayer) TableName() string {
	return "game_players"
}
