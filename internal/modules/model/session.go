package model

import (
	"time"
)

// Session rows are written by the auth layer; this service resolves bearer
// tokens against them.
type Session struct {
	ID        string    `gorm:"type:text;primaryKey" json:"id"`
	Token     string    `gorm:"type:text;not null;uniqueIndex" json:"-"`
	UserID    string    `gorm:"type:text;not null;index" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	IPAddress *string   `gorm:"type:text" json:"ip_address"`
	UserAgent *string   `gorm:"type:text" json:"user_agent"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Session <-> User
	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Session) TableName() string { return "sessions" }
