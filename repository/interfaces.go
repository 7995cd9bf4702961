package repository

import (
	"context"

	"github.com/cindypham04/engrave/models"
)

type FileRepository interface {
	Create(ctx context.Context, file *models.FileMeta) error
	GetByID(ctx context.Context, fileID string) (*models.FileMeta, error)
	ListByFolder(ctx context.Context, folderID string) ([]*models.FileMeta, error)
	Delete(ctx context.Context, fileID string) error

	CreateFolder(ctx context.Context, folder *models.Folder) error
	ListFolders(ctx context.Context, parentID string) ([]*models.Folder, error)
}

type ThreadRepository interface {
	Create(ctx context.Context, thread *models.ChatThread) error
	GetByID(ctx context.Context, threadID string) (*models.ChatThread, error)
	GetByAnnotation(ctx context.Context, annotationID string) (*models.ChatThread, error)
	ListByFile(ctx context.Context, fileID string) ([]*models.ChatThread, error)
	DocumentThread(ctx context.Context, fileID string) (*models.ChatThread, error)
	Delete(ctx context.Context, threadID string) error
	DeleteByFile(ctx context.Context, fileID string) error
}

type MessageRepository interface {
	Create(ctx context.Context, msg *models.ChatMessage) error
	ListByThread(ctx context.Context, threadID string) ([]*models.ChatMessage, error)
	ListByFile(ctx context.Context, fileID string) ([]*models.ChatMessage, error)
	DeleteByThread(ctx context.Context, threadID string) error
}

type AnnotationRepository interface {
	Create(ctx context.Context, a *models.Annotation) error
	GetByID(ctx context.Context, annotationID string) (*models.Annotation, error)
	ListByFile(ctx context.Context, fileID string) ([]*models.Annotation, error)
	SetDerivedThread(ctx context.Context, annotationID, threadID string) error
	Delete(ctx context.Context, annotationID string) error
	DeleteByFile(ctx context.Context, fileID string) error
}
