package models

import (
	"time"

	"gorm.io/gorm"
)

type Thread struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"size:200;not null" json:"title"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	ChainID   uint           `gorm:"not null;index" json:"chain_id"`
	AuthorID  uint           `gorm:"not null;index" json:"author_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Chain   Chain   `gorm:"foreignKey:ChainID" json:"-"`
	Author  User    `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Tags    []Tag   `gorm:"many2many:thread_tags" json:"tags,omitempty"`
	Replies []Reply `gorm:"foreignKey:ThreadID" json:"replies,omitempty"`
}

func (Thread) TableName() string { return "threads" }

type Reply struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	ThreadID  uint           `gorm:"not null;index" json:"thread_id"`
	AuthorID  uint           `gorm:"not null;index" json:"author_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (Reply) TableName() string { return "replies" }

// Vote is one user's UP or DOWN on a thread; unique per user+thread.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_vote_user_thread" json:"user_id"`
	ThreadID  uint      `gorm:"not null;uniqueIndex:idx_vote_user_thread;index" json:"thread_id"`
	VoteType  string    `gorm:"size:4;not null" json:"vote_type"` // UP | DOWN
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Vote) TableName() string { return "votes" }

type PinnedThread struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ChainID   uint      `gorm:"not null;uniqueIndex:idx_pin_chain_thread" json:"chain_id"`
	ThreadID  uint      `gorm:"not null;uniqueIndex:idx_pin_chain_thread" json:"thread_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (PinnedThread) TableName() string { return "pinned_threads" }
