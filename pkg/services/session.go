package services

import (
	"context"
	"errors"
	"strings"

	"NeuraFlow/models"
	"NeuraFlow/pkg/logger"
	"NeuraFlow/pkg/store"

	"go.uber.org/zap"
)

var ErrInvalidInput = errors.New("invalid input")

// ConversationStore is what the session layer needs from persistence.
type ConversationStore interface {
	LatestFinder
	Create(ctx context.Context, in store.NewConversation) (*models.Conversation, error)
	ReplaceMessages(ctx context.Context, id string, requester uint, messages []models.Message) (*models.Conversation, error)
	ListForOwner(ctx context.Context, owner uint) ([]models.Conversation, error)
	GetOne(ctx context.Context, id string, requester uint) (*models.Conversation, error)
}

// AnalyzeInput is one analysis request. PreviousOutput is nil when the
// caller did not send one; Requester is nil for anonymous callers.
type AnalyzeInput struct {
	Resume         ResumeInput
	JobDescription string
	PreviousOutput *string
	Requester      *uint
}

// AnalyzeResult carries the AI output plus the resolved inputs, which the
// caller needs for a follow-up save.
type AnalyzeResult struct {
	AIOutput   string
	ResumeText string
}

// SaveInput is a client-assembled save. An empty ChatID creates a new conversation.
type SaveInput struct {
	ChatID         string
	Messages       []models.Message
	ResumeText     string
	JobDescription string
	Title          string
}

// Session composes normalization, context resolution, the AI query and the
// conversation store.
type Session struct {
	normalizer *Normalizer
	chain      *ContextChain
	requester  Requester
	store      ConversationStore
	logger     *zap.Logger
}

func NewSession(normalizer *Normalizer, requester Requester, st ConversationStore, log *zap.Logger) *Session {
	log = logger.OrNop(log)
	return &Session{
		normalizer: normalizer,
		chain:      NewContextChain(st, log),
		requester:  requester,
		store:      st,
		logger:     log,
	}
}

// Analyze normalizes the résumé, resolves the previous output and queries the
// AI service. It never persists anything.
func (s *Session) Analyze(ctx context.Context, in AnalyzeInput) (*AnalyzeResult, error) {
	if strings.TrimSpace(in.JobDescription) == "" {
		return nil, errors.Join(ErrInvalidInput, errors.New("job_description is required"))
	}

	resumeText, err := s.normalizer.Normalize(ctx, in.Resume)
	if err != nil {
		return nil, err
	}

	previous := s.chain.ResolvePreviousOutput(ctx, in.PreviousOutput, in.Requester)

	out, err := s.requester.Query(ctx, QueryRequest{
		ResumeText:     resumeText,
		JobDescription: in.JobDescription,
		PreviousOutput: previous,
	})
	if err != nil {
		s.logger.Error("ai query failed", zap.Error(err))
		return nil, err
	}
	return &AnalyzeResult{AIOutput: out, ResumeText: resumeText}, nil
}

// Save creates a conversation, or replaces the messages of chatID.
func (s *Session) Save(ctx context.Context, requester uint, in SaveInput) (*models.Conversation, error) {
	if chatID := strings.TrimSpace(in.ChatID); chatID != "" {
		return s.store.ReplaceMessages(ctx, chatID, requester, in.Messages)
	}
	return s.store.Create(ctx, store.NewConversation{
		Owner:          requester,
		Messages:       in.Messages,
		ResumeText:     in.ResumeText,
		JobDescription: in.JobDescription,
		Title:          in.Title,
	})
}

// SaveAnalysis persists an analyze turn on behalf of requester. A new
// conversation starts with the assistant answer; an existing one gets the
// question and the answer appended to its stored messages.
func (s *Session) SaveAnalysis(ctx context.Context, requester uint, chatID, resumeText, jobDescription, aiOutput string) (*models.Conversation, error) {
	answer := models.Message{Role: models.RoleAssistant, Content: aiOutput}
	if strings.TrimSpace(chatID) == "" {
		return s.Save(ctx, requester, SaveInput{
			Messages:       []models.Message{answer},
			ResumeText:     resumeText,
			JobDescription: jobDescription,
		})
	}

	conv, err := s.store.GetOne(ctx, chatID, requester)
	if err != nil {
		return nil, err
	}
	msgs := append(conv.Messages, models.Message{Role: models.RoleUser, Content: jobDescription}, answer)
	return s.Save(ctx, requester, SaveInput{ChatID: chatID, Messages: msgs})
}

// History lists requester's conversations, newest first.
func (s *Session) History(ctx context.Context, requester uint) ([]models.Conversation, error) {
	return s.store.ListForOwner(ctx, requester)
}

// Conversation returns one conversation owned by requester.
func (s *Session) Conversation(ctx context.Context, id string, requester uint) (*models.Conversation, error) {
	return s.store.GetOne(ctx, id, requester)
}
