// Package client defines the backend surface the engine consumes and an
// HTTP implementation of it. Everything the engine knows about transport
// and persistence lives behind the Backend interface.
package client

import (
	"context"
	"errors"

	"github.com/cindypham04/engrave/models"
)

var (
	// ErrPersistence wraps any backend call that failed or returned a
	// non-success status.
	ErrPersistence = errors.New("backend persistence error")
	// ErrNotFound reports a reference to something legitimately deleted
	// since the reference was recorded.
	ErrNotFound = errors.New("not found")
)

// Backend is the remote service owning files, folders, annotations,
// threads and messages.
type Backend interface {
	LoadFileState(ctx context.Context, fileID string) (*models.FileState, error)
	LoadThreadMessages(ctx context.Context, threadID string) ([]models.ChatMessage, error)
	ListThreads(ctx context.Context, fileID string) ([]models.ChatThread, error)
	ThreadByAnnotation(ctx context.Context, annotationID string) (*models.ChatThread, error)

	CreateAnnotation(ctx context.Context, req models.CreateAnnotationRequest) (string, error)
	FetchAnnotation(ctx context.Context, annotationID string) (*models.Annotation, error)
	DeleteAnnotation(ctx context.Context, annotationID string) error

	CreateThread(ctx context.Context, req models.CreateThreadRequest) (*models.ChatThread, error)
	CreateStandaloneChat(ctx context.Context, req models.CreateStandaloneChatRequest) (*models.CreateStandaloneChatResponse, error)

	Ask(ctx context.Context, req models.AskRequest) (*models.AskResponse, error)
}
