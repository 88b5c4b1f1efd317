package models

import "time"

// Theme owns its questions: deleting a theme deletes them.
type Theme struct {
	ID        uint       `gorm:"primaryKey"`
	Title     string     `gorm:"type:varchar(255);not null"`
	Questions []Question `gorm:"foreignKey:ThemeID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
}

func (Theme) TableName() string {
	return "themes"
}

type Question struct {
	ID        uint   `gorm:"primaryKey"`
	Text      string `gorm:"type:varchar(255);not null"`
	Answer    string `gorm:"type:varchar(255);not null"`
	HardLevel int    `gorm:"type:smallint;not null;check:hard_level > 0"`
	ThemeID   uint   `gorm:"not null;index"`
}

// Price of the question in the given round.
func (q *Question) Price(round *Round) int {
	return q.HardLevel * round.BaseScore()
}

func (Question) TableName() string {
	return "questions"
}
