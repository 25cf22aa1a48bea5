package models

import (
	"time"

	"gorm.io/gorm"
)

// VerificationRequest is a student-verification application. One pending
// request per user; approval flips the user's verified flag and triggers
// XP and referral processing.
type VerificationRequest struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	FullName       string         `gorm:"size:120;not null" json:"full_name"`
	DOB            string         `gorm:"size:20;not null" json:"dob"`
	SchoolName     string         `gorm:"size:200;not null" json:"school_name"`
	SchoolEmail    *string        `gorm:"size:255" json:"school_email,omitempty"`
	DocumentURL    string         `gorm:"size:512;not null" json:"document_url"`
	ReferralCodeID *uint          `gorm:"index" json:"referral_code_id,omitempty"`
	Status         string         `gorm:"size:10;not null;default:PENDING;index" json:"status"` // PENDING | APPROVED | REJECTED
	Remarks        string         `gorm:"size:500" json:"remarks,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	User         User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ReferralCode *ReferralCode `gorm:"foreignKey:ReferralCodeID" json:"-"`
}

func (VerificationRequest) TableName() string { return "verification_requests" }
