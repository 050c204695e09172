package models

import (
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

type Message struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	ConversationID string    `gorm:"size:36;index;not null" json:"-"`
	Position       int       `gorm:"not null" json:"-"` // order within the conversation
	Role           Role      `gorm:"size:20;not null" json:"role" binding:"required,oneof=user assistant"`
	Content        string    `gorm:"type:text;not null" json:"content" binding:"required"`
	Timestamp      time.Time `json:"timestamp"`
}
