package store

import (
	"errors"
	"fmt"
	"time"

	"NeuraFlow/models"
)

var ErrInvalidMessage = errors.New("invalid message")

// prepareMessages copies msgs into rows for conversationID, numbering them in
// order. Missing timestamps are set to now; given ones are kept.
func (s *Conversations) prepareMessages(conversationID string, msgs []models.Message, now time.Time) ([]models.Message, error) {
	out := make([]models.Message, 0, len(msgs))
	for i, m := range msgs {
		if !m.Role.Valid() {
			return nil, fmt.Errorf("%w: message %d has role %q", ErrInvalidMessage, i, m.Role)
		}
		ts := m.Timestamp
		if ts.IsZero() {
			ts = now
		}
		out = append(out, models.Message{
			ConversationID: conversationID,
			Position:       i,
			Role:           m.Role,
			Content:        m.Content,
			Timestamp:      ts,
		})
	}
	return out, nil
}
