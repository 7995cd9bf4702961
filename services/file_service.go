package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cindypham04/engrave/config"
	"github.com/cindypham04/engrave/models"
	"github.com/cindypham04/engrave/pkg/logging"
	"github.com/cindypham04/engrave/platform/cache"
	"github.com/cindypham04/engrave/platform/storage"
	"github.com/cindypham04/engrave/repository"
)

var ErrFileNotFound = errors.New("file not found")

type FileService struct {
	fileRepo       repository.FileRepository
	threadRepo     repository.ThreadRepository
	messageRepo    repository.MessageRepository
	annotationRepo repository.AnnotationRepository
	storageService *storage.Service
	cacheService   cache.CacheService
	stateCache     *cache.TypedCache[*models.FileState]
	publisher      LifecyclePublisher
	chatService    *ChatService
	maxFileSize    int64
}

func NewFileService(
	cfg *config.Config,
	fileRepo repository.FileRepository,
	threadRepo repository.ThreadRepository,
	messageRepo repository.MessageRepository,
	annotationRepo repository.AnnotationRepository,
	storageService *storage.Service,
	cacheService cache.CacheService,
	publisher LifecyclePublisher,
	chatService *ChatService,
) *FileService {
	return &FileService{
		fileRepo:       fileRepo,
		threadRepo:     threadRepo,
		messageRepo:    messageRepo,
		annotationRepo: annotationRepo,
		storageService: storageService,
		cacheService:   cacheService,
		stateCache:     cache.NewTypedCache[*models.FileState](cacheService),
		publisher:      publisher,
		chatService:    chatService,
		maxFileSize:    cfg.MaxFileSize,
	}
}

// RequestPDFUpload registers the file record and hands the caller a
// presigned POST policy to upload the PDF with.
func (s *FileService) RequestPDFUpload(ctx context.Context, filename, title, folderID string) (*models.UploadResp, error) {
	fileID := uuid.New().String()
	upload, err := s.storageService.GeneratePresignedPostUpload(filename, s.maxFileSize, fileID)
	if err != nil {
		logging.Logger.Error("fail RequestPDFUpload", "error", err)
		return nil, err
	}

	if title == "" {
		title = filename
	}
	file := &models.FileMeta{
		ID:        fileID,
		Title:     title,
		Kind:      models.FilePDF,
		FolderID:  folderID,
		ObjectKey: upload.FileKey,
		CreatedAt: time.Now(),
	}
	if err := s.fileRepo.Create(ctx, file); err != nil {
		logging.Logger.Error("fail RequestPDFUpload", "error", err)
		return nil, err
	}
	if _, err := s.chatService.EnsureDocumentThread(ctx, fileID); err != nil {
		return nil, err
	}
	return upload, nil
}

// FileState composes everything a panel needs when a file becomes
// active: metadata, threads, the document thread's messages, annotations
// and their chat-highlight projections, plus a presigned PDF URL for
// pdf-kind files. Cached until something in the file changes.
func (s *FileService) FileState(ctx context.Context, fileID string) (*models.FileState, error) {
	cacheKey := fmt.Sprintf("file_state:%s", fileID)
	return s.stateCache.Load(cacheKey, 10*time.Minute, func() (*models.FileState, error) {
		return s.buildFileState(ctx, fileID)
	})
}

func (s *FileService) buildFileState(ctx context.Context, fileID string) (*models.FileState, error) {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}

	docThread, err := s.chatService.EnsureDocumentThread(ctx, fileID)
	if err != nil {
		return nil, err
	}
	threads, err := s.threadRepo.ListByFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	msgs, err := s.messageRepo.ListByThread(ctx, docThread.ID)
	if err != nil {
		return nil, err
	}
	annotations, err := s.annotationRepo.ListByFile(ctx, fileID)
	if err != nil {
		return nil, err
	}

	state := &models.FileState{
		File:           *file,
		Kind:           file.Kind,
		ActiveThreadID: docThread.ID,
	}
	for _, t := range threads {
		state.Threads = append(state.Threads, *t)
	}
	for _, m := range msgs {
		state.Messages = append(state.Messages, *m)
	}
	for _, a := range annotations {
		state.Annotations = append(state.Annotations, *a)
		if a.IsChatAnchor() {
			state.ChatHighlights = append(state.ChatHighlights, models.ChatHighlight{
				AnnotationID: a.ID,
				MessageID:    a.MessageID,
				Start:        a.StartOffset,
				End:          a.EndOffset,
			})
		}
	}

	if file.Kind == models.FilePDF && file.ObjectKey != "" {
		url, err := s.storageService.GeneratePresignedGetDownload(file.ObjectKey, time.Now().Add(time.Hour))
		if err != nil {
			logging.Logger.Error("fail FileState presign", "error", err, "fileID", fileID)
		} else {
			state.PDFURL = url
		}
	}

	return state, nil
}

// DeleteFile destroys a file and everything hanging off it: threads,
// messages, annotations and the stored PDF.
func (s *FileService) DeleteFile(ctx context.Context, fileID string) error {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFileNotFound
		}
		return err
	}

	threads, err := s.threadRepo.ListByFile(ctx, fileID)
	if err != nil {
		return err
	}
	for _, t := range threads {
		if err := s.messageRepo.DeleteByThread(ctx, t.ID); err != nil {
			return err
		}
		if err := s.cacheService.DelCache(fmt.Sprintf("thread_msgs:%s", t.ID)); err != nil {
			logging.Logger.Error("fail invalidate thread messages", "error", err)
		}
	}
	if err := s.threadRepo.DeleteByFile(ctx, fileID); err != nil {
		return err
	}
	if err := s.annotationRepo.DeleteByFile(ctx, fileID); err != nil {
		return err
	}
	if err := s.fileRepo.Delete(ctx, fileID); err != nil {
		return err
	}
	if file.Kind == models.FilePDF {
		if err := s.storageService.RemoveObject(file.ObjectKey); err != nil {
			logging.Logger.Error("fail DeleteFile object", "error", err, "fileID", fileID)
		}
	}

	if err := s.cacheService.DelCache(fmt.Sprintf("file_state:%s", fileID)); err != nil {
		logging.Logger.Error("fail invalidate file state", "error", err)
	}
	if err := s.publisher.PublishLifecycleEvent(&models.LifecycleEvent{
		Type:   models.EventFileDeleted,
		FileID: fileID,
	}); err != nil {
		logging.Logger.Error("fail publish file_deleted", "error", err)
	}
	return nil
}

func (s *FileService) ListFiles(ctx context.Context, folderID string) ([]*models.FileMeta, error) {
	return s.fileRepo.ListByFolder(ctx, folderID)
}

func (s *FileService) CreateFolder(ctx context.Context, name, parentID string) (*models.Folder, error) {
	folder := &models.Folder{
		ID:        uuid.New().String(),
		Name:      name,
		ParentID:  parentID,
		CreatedAt: time.Now(),
	}
	if err := s.fileRepo.CreateFolder(ctx, folder); err != nil {
		logging.Logger.Error("fail CreateFolder", "error", err)
		return nil, err
	}
	return folder, nil
}

func (s *FileService) ListFolders(ctx context.Context, parentID string) ([]*models.Folder, error) {
	return s.fileRepo.ListFolders(ctx, parentID)
}
