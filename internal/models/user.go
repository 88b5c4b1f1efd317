package models

import "time"

// User is the global Telegram identity. The Telegram user id is the primary
// key, so there is no autoincrement. Score, wins and losses are lifetime
// totals, updated once per game at summarization.
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false"`
	Username  string    `gorm:"type:varchar(64);not null"`
	Score     int64     `gorm:"default:0;not null"`
	WinCount  int       `gorm:"default:0;not null;check:win_count >= 0"`
	LossCount int       `gorm:"default:0;not null;check:loss_count >= 0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
