package cmd

import (
	"context"
	"fmt"

	"NeuraFlow/pkg/config"
	svc "NeuraFlow/pkg/services"
	"NeuraFlow/pkg/store"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newRequester(ctx context.Context, cfg *config.Config, logger *zap.Logger) (svc.Requester, error) {
	switch cfg.AIBackend {
	case config.BackendHTTP:
		return svc.NewHTTPRequester(cfg.AIServiceURL, cfg.AITimeout, logger), nil
	case config.BackendGemini:
		return svc.NewGeminiRequester(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	case config.BackendMock:
		return svc.MockRequester{}, nil
	default:
		return nil, fmt.Errorf("unknown ai backend %q", cfg.AIBackend)
	}
}

// newSession opens the database and assembles the analysis session on top of it.
func newSession(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*svc.Session, *gorm.DB, error) {
	db, err := store.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := store.Migrate(db); err != nil {
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	requester, err := newRequester(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	stager := svc.NewUploadStager(cfg.UploadDir, cfg.MaxUploadBytes, logger)
	normalizer := svc.NewNormalizer(stager, svc.LimitedDecoders(cfg.MaxTextBytes), logger)
	conversations := store.NewConversations(db, logger)
	return svc.NewSession(normalizer, requester, conversations, logger), db, nil
}
