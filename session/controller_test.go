package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cindypham04/engrave/models"
)

func seedFileState(backend *fakeBackend, fileID string) *models.FileState {
	state := &models.FileState{
		File:           models.FileMeta{ID: fileID, Title: "Paper", Kind: models.FilePDF, FolderID: "folder1"},
		Kind:           models.FilePDF,
		ActiveThreadID: "doc-thread",
		Threads: []models.ChatThread{
			{ID: "doc-thread", FileID: fileID},
		},
		Messages: []models.ChatMessage{
			{ID: "m1", ThreadID: "doc-thread", Role: models.RoleUser, Content: "hi"},
			{ID: "m2", ThreadID: "doc-thread", Role: models.RoleAssistant, Content: "hello"},
			{ID: "m3", ThreadID: "doc-thread", Role: models.RoleUser, Content: "about that", AnnotationID: "ann-9"},
		},
	}
	backend.states[fileID] = state
	backend.threadMsgs["doc-thread"] = state.Messages
	return state
}

func newTestController(backend *fakeBackend) (*Controller, *Epoch) {
	epoch := &Epoch{}
	store := NewAnnotationStore(backend, acceptAll())
	return NewController(PanelPrimary, backend, store, epoch), epoch
}

func TestControllerLoadFile(t *testing.T) {
	backend := newFakeBackend()
	seedFileState(backend, "f1")
	c, _ := newTestController(backend)

	state, err := c.LoadFile(context.Background(), "f1")
	require.NoError(t, err)
	require.NotNil(t, state)

	assert.Equal(t, DocumentView, c.State())
	s := c.Session()
	assert.Equal(t, "f1", s.FileID)
	assert.Equal(t, "folder1", s.FolderID)
	assert.Equal(t, "doc-thread", s.ActiveThreadID)
	assert.Len(t, s.AllMessages, 3)
	assert.Len(t, s.VisibleMessages, 3)
	assert.False(t, s.Loading)
}

func TestControllerLoadFileDropsStaleResponse(t *testing.T) {
	backend := newFakeBackend()
	state := seedFileState(backend, "f1")
	c, epoch := newTestController(backend)

	backend.loadStateFn = func(string) (*models.FileState, error) {
		epoch.Advance() // file switched while the request was in flight
		return state, nil
	}

	got, err := c.LoadFile(context.Background(), "f1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, Unbound, c.State())
	assert.Empty(t, c.Session().FileID)
	assert.False(t, c.Session().Loading)
}

func TestControllerActivateAnnotationFilters(t *testing.T) {
	backend := newFakeBackend()
	seedFileState(backend, "f1")
	c, _ := newTestController(backend)
	_, err := c.LoadFile(context.Background(), "f1")
	require.NoError(t, err)

	a := &models.Annotation{ID: "ann-9", FileID: "f1"}
	require.NoError(t, c.ActivateAnnotation(context.Background(), a, 420))

	assert.Equal(t, AnnotationView, c.State())
	s := c.Session()
	assert.Equal(t, "ann-9", s.ActiveAnnotationID)
	require.Len(t, s.VisibleMessages, 1)
	assert.Equal(t, "m3", s.VisibleMessages[0].ID)
	assert.Len(t, s.AllMessages, 3)
}

func TestControllerActivateLoadsDerivedThread(t *testing.T) {
	backend := newFakeBackend()
	seedFileState(backend, "f1")
	backend.threadMsgs["derived-1"] = []models.ChatMessage{
		{ID: "d1", ThreadID: "derived-1", Role: models.RoleUser, Content: "branch", AnnotationID: "ann-9"},
	}
	c, _ := newTestController(backend)
	_, err := c.LoadFile(context.Background(), "f1")
	require.NoError(t, err)

	a := &models.Annotation{ID: "ann-9", FileID: "f1", DerivedThreadID: "derived-1"}
	require.NoError(t, c.ActivateAnnotation(context.Background(), a, 0))

	s := c.Session()
	assert.Equal(t, "derived-1", s.ActiveThreadID)
	require.Len(t, s.VisibleMessages, 1)
	assert.Equal(t, "d1", s.VisibleMessages[0].ID)
}

func TestControllerBackToFullRestoresScroll(t *testing.T) {
	backend := newFakeBackend()
	seedFileState(backend, "f1")
	c, _ := newTestController(backend)
	_, err := c.LoadFile(context.Background(), "f1")
	require.NoError(t, err)

	a := &models.Annotation{ID: "ann-9", FileID: "f1"}
	require.NoError(t, c.ActivateAnnotation(context.Background(), a, 420))

	offset, ok, err := c.BackToFull(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 420.0, offset)
	assert.Equal(t, DocumentView, c.State())
	assert.Empty(t, c.Session().ActiveAnnotationID)
	assert.Len(t, c.Session().VisibleMessages, 3)

	// the saved offset is consumed
	_, ok, err = c.BackToFull(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestControllerAskOptimisticReconcile(t *testing.T) {
	backend := newFakeBackend()
	seedFileState(backend, "f1")
	c, _ := newTestController(backend)
	_, err := c.LoadFile(context.Background(), "f1")
	require.NoError(t, err)

	require.NoError(t, c.Ask(context.Background(), "what is this?"))

	s := c.Session()
	require.Len(t, s.AllMessages, 5)

	user := s.AllMessages[3]
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, "what is this?", user.Content)
	assert.Equal(t, "user-1", user.ID) // reconciled with the backend id
	assert.Equal(t, models.MessageStateSent, user.State)

	assistant := s.AllMessages[4]
	assert.Equal(t, models.RoleAssistant, assistant.Role)
	assert.Equal(t, "assistant-1", assistant.ID)
	assert.Equal(t, "answer to: what is this?", assistant.Content)
}

func TestControllerAskEmptyQuestionUsesDefault(t *testing.T) {
	backend := newFakeBackend()
	seedFileState(backend, "f1")
	var asked models.AskRequest
	backend.askFn = func(req models.AskRequest) (*models.AskResponse, error) {
		asked = req
		return &models.AskResponse{Answer: "ok", AssistantMessageID: "a1", UserMessageID: "u1"}, nil
	}
	c, _ := newTestController(backend)
	_, err := c.LoadFile(context.Background(), "f1")
	require.NoError(t, err)

	require.NoError(t, c.Ask(context.Background(), ""))
	assert.Equal(t, DefaultQuestion, asked.Question)
}

func TestControllerAskFailureKeepsMessageForRetry(t *testing.T) {
	backend := newFakeBackend()
	seedFileState(backend, "f1")
	backend.askFn = func(models.AskRequest) (*models.AskResponse, error) {
		return nil, errors.New("network down")
	}
	c, _ := newTestController(backend)
	_, err := c.LoadFile(context.Background(), "f1")
	require.NoError(t, err)

	require.Error(t, c.Ask(context.Background(), "still there?"))

	s := c.Session()
	require.Len(t, s.AllMessages, 4)
	failed := s.AllMessages[3]
	assert.Equal(t, models.MessageStateFailed, failed.State)
	assert.Empty(t, failed.ID)

	// backend recovers, retry re-sends the same message
	backend.askFn = nil
	require.NoError(t, c.RetryAsk(context.Background()))

	s = c.Session()
	require.Len(t, s.AllMessages, 5)
	assert.Equal(t, "user-1", s.AllMessages[3].ID)
	assert.Equal(t, models.MessageStateSent, s.AllMessages[3].State)
	assert.Equal(t, models.RoleAssistant, s.AllMessages[4].Role)
}

func TestControllerRetryKeepsOriginalAnnotationTags(t *testing.T) {
	backend := newFakeBackend()
	seedFileState(backend, "f1")
	backend.askFn = func(models.AskRequest) (*models.AskResponse, error) {
		return nil, errors.New("network down")
	}
	c, _ := newTestController(backend)
	_, err := c.LoadFile(context.Background(), "f1")
	require.NoError(t, err)

	orig := &models.Annotation{ID: "ann-9", FileID: "f1"}
	require.NoError(t, c.ActivateAnnotation(context.Background(), orig, 0))
	require.Error(t, c.Ask(context.Background(), "why though?"))

	// the user moves to another highlight before retrying
	other := &models.Annotation{ID: "ann-5", FileID: "f1"}
	require.NoError(t, c.ActivateAnnotation(context.Background(), other, 0))

	var sent models.AskRequest
	backend.askFn = func(req models.AskRequest) (*models.AskResponse, error) {
		sent = req
		return &models.AskResponse{Answer: "late answer", AssistantMessageID: "assistant-9", UserMessageID: "user-9"}, nil
	}
	require.NoError(t, c.RetryAsk(context.Background()))

	// the retry carries the tags captured when the message was authored
	assert.Equal(t, "ann-9", sent.AnnotationID)
	assert.Equal(t, "doc-thread", sent.ChatThreadID)

	s := c.Session()
	last := s.AllMessages[len(s.AllMessages)-1]
	assert.Equal(t, models.RoleAssistant, last.Role)
	assert.Equal(t, "ann-9", last.AnnotationID)

	var retried *models.ChatMessage
	for i := range s.AllMessages {
		if s.AllMessages[i].ID == "user-9" {
			retried = &s.AllMessages[i]
		}
	}
	require.NotNil(t, retried)
	assert.Equal(t, models.MessageStateSent, retried.State)
	assert.Equal(t, "ann-9", retried.AnnotationID)

	// the reply belongs to the old highlight, not the one now filtered
	for _, m := range s.VisibleMessages {
		assert.NotEqual(t, "assistant-9", m.ID)
	}
}

func TestControllerHandleAnnotationDeletedUnbindsDerivedThread(t *testing.T) {
	backend := newFakeBackend()
	seedFileState(backend, "f1")
	backend.threadMsgs["derived-1"] = []models.ChatMessage{
		{ID: "d1", ThreadID: "derived-1", AnnotationID: "ann-9", Role: models.RoleUser, Content: "q"},
	}
	c, _ := newTestController(backend)
	_, err := c.LoadFile(context.Background(), "f1")
	require.NoError(t, err)

	a := &models.Annotation{ID: "ann-9", FileID: "f1", DerivedThreadID: "derived-1"}
	require.NoError(t, c.ActivateAnnotation(context.Background(), a, 0))

	unbound := c.HandleAnnotationDeleted(a)
	assert.True(t, unbound)
	assert.Equal(t, DocumentView, c.State())
	assert.Empty(t, c.Session().ActiveThreadID)
	assert.Empty(t, c.Session().AllMessages)
}

func TestControllerHandleAnnotationDeletedClearsFilter(t *testing.T) {
	backend := newFakeBackend()
	seedFileState(backend, "f1")
	c, _ := newTestController(backend)
	_, err := c.LoadFile(context.Background(), "f1")
	require.NoError(t, err)

	a := &models.Annotation{ID: "ann-9", FileID: "f1"}
	require.NoError(t, c.ActivateAnnotation(context.Background(), a, 0))
	require.Equal(t, AnnotationView, c.State())

	unbound := c.HandleAnnotationDeleted(a)
	assert.False(t, unbound)
	assert.Equal(t, DocumentView, c.State())
	assert.Len(t, c.Session().VisibleMessages, 3)
}
