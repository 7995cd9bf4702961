package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cindypham04/engrave/models"
	"github.com/cindypham04/engrave/pkg/logging"
	"github.com/cindypham04/engrave/platform/cache"
	"github.com/cindypham04/engrave/repository"
)

var ErrThreadNotFound = errors.New("thread not found")

// LifecyclePublisher broadcasts annotation and thread lifecycle events.
// platform/events implements it over redis pub/sub.
type LifecyclePublisher interface {
	PublishLifecycleEvent(event *models.LifecycleEvent) error
}

type ChatService struct {
	threadRepo     repository.ThreadRepository
	messageRepo    repository.MessageRepository
	annotationRepo repository.AnnotationRepository
	fileRepo       repository.FileRepository
	cacheService   cache.CacheService
	msgCache       *cache.TypedCache[[]*models.ChatMessage]
	answerer       Answerer
	publisher      LifecyclePublisher
}

func NewChatService(
	threadRepo repository.ThreadRepository,
	messageRepo repository.MessageRepository,
	annotationRepo repository.AnnotationRepository,
	fileRepo repository.FileRepository,
	cacheService cache.CacheService,
	answerer Answerer,
	publisher LifecyclePublisher,
) *ChatService {
	return &ChatService{
		threadRepo:     threadRepo,
		messageRepo:    messageRepo,
		annotationRepo: annotationRepo,
		fileRepo:       fileRepo,
		cacheService:   cacheService,
		msgCache:       cache.NewTypedCache[[]*models.ChatMessage](cacheService),
		answerer:       answerer,
		publisher:      publisher,
	}
}

// EnsureDocumentThread returns the file's document thread, creating it on
// first touch. Every file has exactly one.
func (s *ChatService) EnsureDocumentThread(ctx context.Context, fileID string) (*models.ChatThread, error) {
	thread, err := s.threadRepo.DocumentThread(ctx, fileID)
	if err == nil {
		return thread, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logging.Logger.Error("fail EnsureDocumentThread", "error", err, "fileID", fileID)
		return nil, err
	}

	thread = &models.ChatThread{
		ID:        uuid.New().String(),
		FileID:    fileID,
		CreatedAt: time.Now(),
	}
	if err := s.threadRepo.Create(ctx, thread); err != nil {
		return nil, err
	}
	return thread, nil
}

// CreateThread creates the thread derived from an annotation. Calling it
// again for the same annotation returns the existing thread.
func (s *ChatService) CreateThread(ctx context.Context, req models.CreateThreadRequest) (*models.ChatThread, error) {
	if req.SourceAnnotationID == "" {
		return s.EnsureDocumentThread(ctx, req.FileID)
	}

	if existing, err := s.threadRepo.GetByAnnotation(ctx, req.SourceAnnotationID); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	thread := &models.ChatThread{
		ID:                 uuid.New().String(),
		FileID:             req.FileID,
		SourceAnnotationID: req.SourceAnnotationID,
		CreatedAt:          time.Now(),
	}
	if err := s.threadRepo.Create(ctx, thread); err != nil {
		logging.Logger.Error("fail CreateThread", "error", err)
		return nil, err
	}
	if err := s.annotationRepo.SetDerivedThread(ctx, req.SourceAnnotationID, thread.ID); err != nil {
		logging.Logger.Error("fail SetDerivedThread", "error", err)
		return nil, err
	}

	s.invalidateFileState(req.FileID)
	if err := s.publisher.PublishLifecycleEvent(&models.LifecycleEvent{
		Type:         models.EventThreadCreated,
		FileID:       req.FileID,
		AnnotationID: req.SourceAnnotationID,
		ThreadID:     thread.ID,
	}); err != nil {
		logging.Logger.Error("fail publish thread_created", "error", err)
	}
	return thread, nil
}

// CreateStandaloneChat creates a chat-kind file with its document thread,
// used when a branch from a reply grows into its own conversation.
func (s *ChatService) CreateStandaloneChat(ctx context.Context, req models.CreateStandaloneChatRequest) (*models.CreateStandaloneChatResponse, error) {
	title := req.Title
	if title == "" {
		title = "New Chat"
	}
	file := &models.FileMeta{
		ID:        uuid.New().String(),
		Title:     title,
		Kind:      models.FileChat,
		FolderID:  req.FolderID,
		CreatedAt: time.Now(),
	}
	if req.SourceAnnotationID != "" {
		if a, err := s.annotationRepo.GetByID(ctx, req.SourceAnnotationID); err == nil {
			file.ParentFileID = a.FileID
		}
	}
	if err := s.fileRepo.Create(ctx, file); err != nil {
		logging.Logger.Error("fail CreateStandaloneChat", "error", err)
		return nil, err
	}

	thread := &models.ChatThread{
		ID:        uuid.New().String(),
		FileID:    file.ID,
		CreatedAt: time.Now(),
	}
	if err := s.threadRepo.Create(ctx, thread); err != nil {
		return nil, err
	}

	if req.SourceAnnotationID != "" {
		if err := s.annotationRepo.SetDerivedThread(ctx, req.SourceAnnotationID, thread.ID); err != nil {
			logging.Logger.Error("fail SetDerivedThread", "error", err)
		}
	}

	return &models.CreateStandaloneChatResponse{
		FileID:   file.ID,
		ThreadID: thread.ID,
		Title:    title,
	}, nil
}

func (s *ChatService) ThreadByAnnotation(ctx context.Context, annotationID string) (*models.ChatThread, error) {
	thread, err := s.threadRepo.GetByAnnotation(ctx, annotationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrThreadNotFound
		}
		return nil, err
	}
	return thread, nil
}

func (s *ChatService) ListThreads(ctx context.Context, fileID string) ([]*models.ChatThread, error) {
	return s.threadRepo.ListByFile(ctx, fileID)
}

// ThreadMessages loads a thread's messages, cache first.
func (s *ChatService) ThreadMessages(ctx context.Context, threadID string) ([]*models.ChatMessage, error) {
	cacheKey := fmt.Sprintf("thread_msgs:%s", threadID)
	if msgs, ok, err := s.msgCache.Get(cacheKey); ok && err == nil {
		return msgs, nil
	}

	if _, err := s.threadRepo.GetByID(ctx, threadID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrThreadNotFound
		}
		return nil, err
	}
	msgs, err := s.messageRepo.ListByThread(ctx, threadID)
	if err != nil {
		return nil, err
	}

	go func() {
		if err := s.msgCache.Set(cacheKey, msgs, 30*time.Minute); err != nil {
			logging.Logger.Error("fail to set cache", "error", err)
		}
	}()
	return msgs, nil
}

// Ask persists the user message, asks the answer service with the thread
// history and the annotation's source text, persists the reply and
// returns both assigned ids.
func (s *ChatService) Ask(ctx context.Context, req models.AskRequest) (*models.AskResponse, error) {
	threadID := req.ChatThreadID
	if threadID == "" {
		if req.FileID == "" {
			return nil, fmt.Errorf("ask needs a thread or a file")
		}
		thread, err := s.EnsureDocumentThread(ctx, req.FileID)
		if err != nil {
			return nil, err
		}
		threadID = thread.ID
	}

	history, err := s.messageRepo.ListByThread(ctx, threadID)
	if err != nil {
		logging.Logger.Error("fail Ask history", "error", err)
		return nil, err
	}

	var sourceText string
	if req.AnnotationID != "" {
		if a, err := s.annotationRepo.GetByID(ctx, req.AnnotationID); err == nil {
			sourceText = a.SourceText
		}
	}

	userMsg := &models.ChatMessage{
		ID:           uuid.New().String(),
		ThreadID:     threadID,
		Role:         models.RoleUser,
		Content:      req.Question,
		AnnotationID: req.AnnotationID,
		CreatedAt:    time.Now(),
	}
	if err := s.messageRepo.Create(ctx, userMsg); err != nil {
		return nil, err
	}

	answerHistory := make([]models.ChatMessage, 0, len(history))
	for _, m := range history {
		answerHistory = append(answerHistory, *m)
	}
	answer, err := s.answerer.Answer(ctx, &AnswerRequest{
		Question:   req.Question,
		SourceText: sourceText,
		History:    answerHistory,
	})
	if err != nil {
		logging.Logger.Error("fail Ask", "error", err)
		return nil, err
	}

	assistantMsg := &models.ChatMessage{
		ID:           uuid.New().String(),
		ThreadID:     threadID,
		Role:         models.RoleAssistant,
		Content:      answer,
		AnnotationID: req.AnnotationID,
		CreatedAt:    time.Now(),
	}
	if err := s.messageRepo.Create(ctx, assistantMsg); err != nil {
		return nil, err
	}

	if err := s.cacheService.DelCache(fmt.Sprintf("thread_msgs:%s", threadID)); err != nil {
		logging.Logger.Error("fail invalidate thread messages", "error", err)
	}
	if req.FileID != "" {
		s.invalidateFileState(req.FileID)
	}

	return &models.AskResponse{
		Answer:             answer,
		AssistantMessageID: assistantMsg.ID,
		UserMessageID:      userMsg.ID,
	}, nil
}

func (s *ChatService) invalidateFileState(fileID string) {
	if err := s.cacheService.DelCache(fmt.Sprintf("file_state:%s", fileID)); err != nil {
		logging.Logger.Error("fail invalidate file state", "error", err, "fileID", fileID)
	}
}
