package session

import (
	"context"
	"fmt"

	"github.com/cindypham04/engrave/client"
	"github.com/cindypham04/engrave/models"
)

// fakeBackend is an in-memory client.Backend with per-call overrides.
type fakeBackend struct {
	states      map[string]*models.FileState
	threadMsgs  map[string][]models.ChatMessage
	annotations map[string]*models.Annotation
	annThreads  map[string]*models.ChatThread

	created   []models.CreateAnnotationRequest
	deleted   []string
	createErr error
	deleteErr error

	loadStateFn  func(fileID string) (*models.FileState, error)
	askFn        func(req models.AskRequest) (*models.AskResponse, error)
	standaloneFn func(req models.CreateStandaloneChatRequest) (*models.CreateStandaloneChatResponse, error)
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		states:      make(map[string]*models.FileState),
		threadMsgs:  make(map[string][]models.ChatMessage),
		annotations: make(map[string]*models.Annotation),
		annThreads:  make(map[string]*models.ChatThread),
	}
}

func (f *fakeBackend) LoadFileState(_ context.Context, fileID string) (*models.FileState, error) {
	if f.loadStateFn != nil {
		return f.loadStateFn(fileID)
	}
	state, ok := f.states[fileID]
	if !ok {
		return nil, client.ErrNotFound
	}
	return state, nil
}

func (f *fakeBackend) LoadThreadMessages(_ context.Context, threadID string) ([]models.ChatMessage, error) {
	return f.threadMsgs[threadID], nil
}

func (f *fakeBackend) ListThreads(_ context.Context, fileID string) ([]models.ChatThread, error) {
	state, ok := f.states[fileID]
	if !ok {
		return nil, nil
	}
	return state.Threads, nil
}

func (f *fakeBackend) ThreadByAnnotation(_ context.Context, annotationID string) (*models.ChatThread, error) {
	thread, ok := f.annThreads[annotationID]
	if !ok {
		return nil, client.ErrNotFound
	}
	return thread, nil
}

func (f *fakeBackend) CreateAnnotation(_ context.Context, req models.CreateAnnotationRequest) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, req)
	id := fmt.Sprintf("ann-%d", len(f.created))
	f.annotations[id] = &models.Annotation{
		ID:          id,
		FileID:      req.FileID,
		Kind:        req.Kind,
		PageNumber:  req.PageNumber,
		Geometry:    req.Geometry,
		MessageID:   req.MessageID,
		StartOffset: req.Start,
		EndOffset:   req.End,
		SourceText:  req.Text,
	}
	return id, nil
}

func (f *fakeBackend) FetchAnnotation(_ context.Context, annotationID string) (*models.Annotation, error) {
	a, ok := f.annotations[annotationID]
	if !ok {
		return nil, client.ErrNotFound
	}
	return a, nil
}

func (f *fakeBackend) DeleteAnnotation(_ context.Context, annotationID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, annotationID)
	delete(f.annotations, annotationID)
	return nil
}

func (f *fakeBackend) CreateThread(_ context.Context, req models.CreateThreadRequest) (*models.ChatThread, error) {
	thread := &models.ChatThread{
		ID:                 "thread-" + req.SourceAnnotationID,
		FileID:             req.FileID,
		SourceAnnotationID: req.SourceAnnotationID,
	}
	if req.SourceAnnotationID != "" {
		f.annThreads[req.SourceAnnotationID] = thread
	}
	return thread, nil
}

func (f *fakeBackend) CreateStandaloneChat(_ context.Context, req models.CreateStandaloneChatRequest) (*models.CreateStandaloneChatResponse, error) {
	if f.standaloneFn != nil {
		return f.standaloneFn(req)
	}
	title := req.Title
	if title == "" {
		title = "New Chat"
	}
	return &models.CreateStandaloneChatResponse{
		FileID:   "chat-file",
		ThreadID: "chat-thread",
		Title:    title,
	}, nil
}

func (f *fakeBackend) Ask(_ context.Context, req models.AskRequest) (*models.AskResponse, error) {
	if f.askFn != nil {
		return f.askFn(req)
	}
	return &models.AskResponse{
		Answer:             "answer to: " + req.Question,
		AssistantMessageID: "assistant-1",
		UserMessageID:      "user-1",
	}, nil
}

func acceptAll() Confirmer { return ConfirmerFunc(func(string) bool { return true }) }

func declineAll() Confirmer { return ConfirmerFunc(func(string) bool { return false }) }
