package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"NeuraFlow/models"
	"NeuraFlow/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("conversation not found")
	ErrUnauthorized = errors.New("not authorized")
)

// Open connects to the database selected by driver ("sqlite" or "mysql").
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Conversation{}, &models.Message{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// NewConversation is the input of Create.
type NewConversation struct {
	Owner          uint
	Messages       []models.Message
	ResumeText     string
	JobDescription string
	Title          string
}

// Conversations is the conversation store. Every id-scoped operation checks
// the requester against the stored owner.
type Conversations struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

func NewConversations(db *gorm.DB, log *zap.Logger) *Conversations {
	return &Conversations{db: db, logger: logger.OrNop(log), now: time.Now}
}

func orderedMessages(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Create always inserts a new conversation.
func (s *Conversations) Create(ctx context.Context, in NewConversation) (*models.Conversation, error) {
	now := s.now()
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = models.DefaultTitle
	}
	conv := models.Conversation{
		ID:             uuid.NewString(),
		OwnerID:        in.Owner,
		Title:          title,
		ResumeText:     in.ResumeText,
		JobDescription: in.JobDescription,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	msgs, err := s.prepareMessages(conv.ID, in.Messages, now)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Messages").Create(&conv).Error; err != nil {
			return err
		}
		if len(msgs) > 0 {
			if err := tx.Create(&msgs).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	conv.Messages = msgs
	s.logger.Debug("conversation created",
		zap.String("conversation_id", conv.ID),
		zap.Uint("owner", conv.OwnerID),
		zap.Int("messages", len(msgs)),
	)
	return &conv, nil
}

// ReplaceMessages overwrites the whole message list of a conversation owned by
// requester and bumps its updated time. Resume text and job description are
// left as they were at creation.
func (s *Conversations) ReplaceMessages(ctx context.Context, id string, requester uint, messages []models.Message) (*models.Conversation, error) {
	var conv models.Conversation
	now := s.now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.loadOwned(tx, id, requester, &conv); err != nil {
			return err
		}
		msgs, err := s.prepareMessages(conv.ID, messages, now)
		if err != nil {
			return err
		}
		if err := tx.Where("conversation_id = ?", conv.ID).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if len(msgs) > 0 {
			if err := tx.Create(&msgs).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&models.Conversation{}).Where("id = ?", conv.ID).Update("updated_at", now).Error; err != nil {
			return err
		}
		conv.Messages = msgs
		conv.UpdatedAt = now
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrInvalidMessage) {
			return nil, err
		}
		return nil, fmt.Errorf("replace messages: %w", err)
	}
	s.logger.Debug("conversation messages replaced",
		zap.String("conversation_id", conv.ID),
		zap.Int("messages", len(conv.Messages)),
	)
	return &conv, nil
}

// ListForOwner returns every conversation of owner, most recently updated first.
func (s *Conversations) ListForOwner(ctx context.Context, owner uint) ([]models.Conversation, error) {
	convs := []models.Conversation{}
	err := s.db.WithContext(ctx).
		Preload("Messages", orderedMessages).
		Where("owner_id = ?", owner).
		Order("updated_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return convs, nil
}

// LatestForOwner returns the most recently updated conversation of owner, or
// ErrNotFound when the owner has none.
func (s *Conversations) LatestForOwner(ctx context.Context, owner uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.db.WithContext(ctx).
		Preload("Messages", orderedMessages).
		Where("owner_id = ?", owner).
		Order("updated_at DESC").
		First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest conversation: %w", err)
	}
	return &conv, nil
}

// GetOne loads a conversation owned by requester.
func (s *Conversations) GetOne(ctx context.Context, id string, requester uint) (*models.Conversation, error) {
	var conv models.Conversation
	if err := s.loadOwned(s.db.WithContext(ctx).Preload("Messages", orderedMessages), id, requester, &conv); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnauthorized) {
			return nil, err
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return &conv, nil
}

// loadOwned distinguishes a missing record from one owned by someone else.
func (s *Conversations) loadOwned(db *gorm.DB, id string, requester uint, conv *models.Conversation) error {
	err := db.Where("id = ?", id).First(conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if conv.OwnerID != requester {
		s.logger.Warn("conversation ownership mismatch",
			zap.String("conversation_id", id),
			zap.Uint("requester", requester),
		)
		return ErrUnauthorized
	}
	return nil
}
