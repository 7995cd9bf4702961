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

// ErrAnnotationNotFound maps a missing record to a 404 at the handler.
var ErrAnnotationNotFound = errors.New("annotation not found")

type AnnotationService struct {
	annotationRepo repository.AnnotationRepository
	threadRepo     repository.ThreadRepository
	messageRepo    repository.MessageRepository
	cacheService   cache.CacheService
	publisher      LifecyclePublisher
}

func NewAnnotationService(
	annotationRepo repository.AnnotationRepository,
	threadRepo repository.ThreadRepository,
	messageRepo repository.MessageRepository,
	cacheService cache.CacheService,
	publisher LifecyclePublisher,
) *AnnotationService {
	return &AnnotationService{
		annotationRepo: annotationRepo,
		threadRepo:     threadRepo,
		messageRepo:    messageRepo,
		cacheService:   cacheService,
		publisher:      publisher,
	}
}

func (s *AnnotationService) Create(ctx context.Context, req models.CreateAnnotationRequest) (*models.Annotation, error) {
	a := &models.Annotation{
		ID:          uuid.New().String(),
		FileID:      req.FileID,
		Kind:        req.Kind,
		PageNumber:  req.PageNumber,
		Geometry:    req.Geometry,
		MessageID:   req.MessageID,
		StartOffset: req.Start,
		EndOffset:   req.End,
		SourceText:  req.Text,
		CreatedAt:   time.Now(),
	}
	if err := a.ValidateAnchor(); err != nil {
		return nil, err
	}
	if err := s.annotationRepo.Create(ctx, a); err != nil {
		logging.Logger.Error("fail Create annotation", "error", err)
		return nil, err
	}

	s.invalidateFileState(a.FileID)
	if err := s.publisher.PublishLifecycleEvent(&models.LifecycleEvent{
		Type:         models.EventAnnotationCreated,
		FileID:       a.FileID,
		AnnotationID: a.ID,
	}); err != nil {
		logging.Logger.Error("fail publish annotation_created", "error", err)
	}
	return a, nil
}

func (s *AnnotationService) Get(ctx context.Context, annotationID string) (*models.Annotation, error) {
	a, err := s.annotationRepo.GetByID(ctx, annotationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnnotationNotFound
		}
		return nil, err
	}
	if a.DerivedThreadID == "" {
		if thread, err := s.threadRepo.GetByAnnotation(ctx, annotationID); err == nil {
			a.DerivedThreadID = thread.ID
		}
	}
	return a, nil
}

// Delete removes the annotation and cascades to its derived thread and
// that thread's messages. Messages in other threads that referenced the
// annotation keep their rows; only the highlight disappears.
func (s *AnnotationService) Delete(ctx context.Context, annotationID string) error {
	a, err := s.annotationRepo.GetByID(ctx, annotationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnnotationNotFound
		}
		return err
	}

	thread, err := s.threadRepo.GetByAnnotation(ctx, annotationID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logging.Logger.Error("fail Delete annotation, thread lookup", "error", err)
		return err
	}
	if thread != nil {
		if err := s.messageRepo.DeleteByThread(ctx, thread.ID); err != nil {
			return err
		}
		if err := s.threadRepo.Delete(ctx, thread.ID); err != nil {
			return err
		}
		if err := s.publisher.PublishLifecycleEvent(&models.LifecycleEvent{
			Type:     models.EventThreadDeleted,
			FileID:   a.FileID,
			ThreadID: thread.ID,
		}); err != nil {
			logging.Logger.Error("fail publish thread_deleted", "error", err)
		}
	}

	if err := s.annotationRepo.Delete(ctx, annotationID); err != nil {
		logging.Logger.Error("fail Delete annotation", "error", err)
		return err
	}

	s.invalidateFileState(a.FileID)
	if err := s.publisher.PublishLifecycleEvent(&models.LifecycleEvent{
		Type:         models.EventAnnotationDeleted,
		FileID:       a.FileID,
		AnnotationID: annotationID,
	}); err != nil {
		logging.Logger.Error("fail publish annotation_deleted", "error", err)
	}
	return nil
}

func (s *AnnotationService) ListByFile(ctx context.Context, fileID string) ([]*models.Annotation, error) {
	return s.annotationRepo.ListByFile(ctx, fileID)
}

func (s *AnnotationService) invalidateFileState(fileID string) {
	if err := s.cacheService.DelCache(fmt.Sprintf("file_state:%s", fileID)); err != nil {
		logging.Logger.Error("fail invalidate file state", "error", err, "fileID", fileID)
	}
}
