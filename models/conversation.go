package models

import "time"

// DefaultTitle labels conversations saved without an explicit title.
const DefaultTitle = "Interview Prep"

// Conversation is one owner's persisted analysis session.
type Conversation struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerID        uint      `gorm:"not null;index" json:"owner"`
	Title          string    `gorm:"size:200" json:"title"`
	ResumeText     string    `gorm:"type:text" json:"resume_text"`
	JobDescription string    `gorm:"type:text" json:"job_description"`
	Messages       []Message `gorm:"constraint:OnDelete:CASCADE" json:"messages"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `gorm:"index" json:"updated_at"`
}

// LastAssistantMessage returns the content of the newest assistant message.
func (c *Conversation) LastAssistantMessage() (string, bool) {
	if c == nil {
		return "", false
	}
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant {
			return c.Messages[i].Content, true
		}
	}
	return "", false
}
