package models

import "time"

// XPLog is the append-only experience audit trail. Rows are written once per
// award and never updated; the user's stored experience/level remain the
// source of truth for current state.
type XPLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Amount    int       `gorm:"not null" json:"amount"`
	Action    string    `gorm:"size:40;not null" json:"action"`
	NewTotal  int       `gorm:"not null" json:"new_total"`
	NewLevel  int       `gorm:"not null" json:"new_level"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (XPLog) TableName() string { return "xp_logs" }
