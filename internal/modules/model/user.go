package model

import (
	"time"
)

// User rows are written by the auth layer; this service only reads them.
type User struct {
	ID            string  `gorm:"type:text;primaryKey" json:"id"`
	Name          string  `gorm:"type:text;not null" json:"name"`
	Email         string  `gorm:"type:text;not null;uniqueIndex" json:"email"`
	EmailVerified bool    `gorm:"not null;default:false" json:"email_verified"`
	Image         *string `gorm:"type:text" json:"image"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// User <-> Session
	Sessions []Session `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (User) TableName() string { return "users" }
