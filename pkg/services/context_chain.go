package services

import (
	"context"
	"errors"

	"NeuraFlow/models"
	"NeuraFlow/pkg/logger"
	"NeuraFlow/pkg/store"

	"go.uber.org/zap"
)

// LatestFinder finds an owner's most recently updated conversation.
type LatestFinder interface {
	LatestForOwner(ctx context.Context, owner uint) (*models.Conversation, error)
}

// ContextChain decides which previous output grounds the next AI query.
type ContextChain struct {
	finder LatestFinder
	logger *zap.Logger
}

func NewContextChain(finder LatestFinder, log *zap.Logger) *ContextChain {
	return &ContextChain{finder: finder, logger: logger.OrNop(log)}
}

// ResolvePreviousOutput returns explicit when the caller sent one, even if
// empty. Otherwise, for an identified requester, it returns the newest
// assistant message of their latest conversation. Lookup failures yield nil.
func (c *ContextChain) ResolvePreviousOutput(ctx context.Context, explicit *string, requester *uint) *string {
	if explicit != nil {
		return explicit
	}
	if requester == nil || c.finder == nil {
		return nil
	}

	conv, err := c.finder.LatestForOwner(ctx, *requester)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			c.logger.Warn("failed to fetch previous output", zap.Uint("user_id", *requester), zap.Error(err))
		}
		return nil
	}
	content, ok := conv.LastAssistantMessage()
	if !ok {
		return nil
	}
	c.logger.Debug("previous output resolved from history",
		zap.Uint("user_id", *requester),
		zap.String("conversation_id", conv.ID),
	)
	return &content
}
