package models

import (
	"time"

	"gorm.io/gorm"
)

// Chain is a ChainEX community.
type Chain struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Slug        string         `gorm:"uniqueIndex;size:100;not null" json:"slug"`
	Description string         `gorm:"size:1000" json:"description"`
	CreatorID   uint           `gorm:"not null;index" json:"creator_id"`
	Visibility  string         `gorm:"size:10;not null;default:PUBLIC" json:"visibility"`    // PUBLIC | PRIVATE
	PostPolicy  string         `gorm:"size:20;not null;default:VERIFIED_ONLY" json:"post_policy"`
	MinAge      *int           `json:"min_age,omitempty"`
	MaxAge      *int           `json:"max_age,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Creator User       `gorm:"foreignKey:CreatorID" json:"-"`
	Tags    []Tag      `gorm:"many2many:chain_tags" json:"tags,omitempty"`
}

func (Chain) TableName() string { return "chains" }

// AgeRestricted chains require a verified member (age is attested via the
// verification pipeline, not stored per user).
func (c *Chain) AgeRestricted() bool { return c.MinAge != nil || c.MaxAge != nil }

type ChainMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_chain_member_user_chain" json:"user_id"`
	ChainID   uint      `gorm:"not null;uniqueIndex:idx_chain_member_user_chain;index" json:"chain_id"`
	CreatedAt time.Time `json:"created_at"`

	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Chain Chain `gorm:"foreignKey:ChainID" json:"-"`
}

func (ChainMember) TableName() string { return "chain_members" }

// Boost is a user's endorsement of a chain; toggled, one per user per chain.
type Boost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_boost_user_chain" json:"user_id"`
	ChainID   uint      `gorm:"not null;uniqueIndex:idx_boost_user_chain;index" json:"chain_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Boost) TableName() string { return "boosts" }

type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:50;not null" json:"name"`
}

func (Tag) TableName() string { return "tags" }
