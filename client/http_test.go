package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cindypham04/engrave/models"
)

func TestHTTPBackendLoadFileState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/files/f1/state", r.URL.Path)
		_ = json.NewEncoder(w).Encode(models.FileState{
			File:           models.FileMeta{ID: "f1", Title: "Paper"},
			Kind:           models.FilePDF,
			ActiveThreadID: "t1",
			Annotations: []models.Annotation{
				{ID: "a1", FileID: "f1", Kind: models.AnchorPDFText, PageNumber: 2},
			},
		})
	}))
	defer srv.Close()

	b := NewHTTPBackend(srv.URL, nil)
	state, err := b.LoadFileState(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, "Paper", state.File.Title)
	assert.Equal(t, "t1", state.ActiveThreadID)
	require.Len(t, state.Annotations, 1)
	assert.Equal(t, models.AnchorPDFText, state.Annotations[0].Kind)
}

func TestHTTPBackendCreateAnnotation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/annotations", r.URL.Path)

		var req models.CreateAnnotationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, models.AnchorChatText, req.Kind)
		assert.Equal(t, "m1", req.MessageID)
		assert.Equal(t, 3, req.Start)

		_ = json.NewEncoder(w).Encode(models.CreateAnnotationResponse{AnnotationID: "ann-42"})
	}))
	defer srv.Close()

	b := NewHTTPBackend(srv.URL, nil)
	id, err := b.CreateAnnotation(context.Background(), models.CreateAnnotationRequest{
		FileID:     "f1",
		PageNumber: models.ChatPageNumber,
		Kind:       models.AnchorChatText,
		MessageID:  "m1",
		Start:      3,
		End:        9,
		Text:       "excerpt",
	})
	require.NoError(t, err)
	assert.Equal(t, "ann-42", id)
}

func TestHTTPBackendNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	b := NewHTTPBackend(srv.URL, nil)
	_, err := b.FetchAnnotation(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = b.ThreadByAnnotation(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPBackendServerErrorWrapsPersistence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	b := NewHTTPBackend(srv.URL, nil)
	_, err := b.Ask(context.Background(), models.AskRequest{ChatThreadID: "t1", Question: "q"})
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestHTTPBackendDeleteAnnotation(t *testing.T) {
	success := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/annotations/a1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(models.DeleteResponse{Success: success})
	}))
	defer srv.Close()

	b := NewHTTPBackend(srv.URL, nil)
	require.NoError(t, b.DeleteAnnotation(context.Background(), "a1"))

	// a 200 with success=false is still a failed delete
	success = false
	err := b.DeleteAnnotation(context.Background(), "a1")
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestHTTPBackendAsk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/ask", r.URL.Path)
		var req models.AskRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "t1", req.ChatThreadID)
		_ = json.NewEncoder(w).Encode(models.AskResponse{
			Answer:             "because",
			AssistantMessageID: "am1",
			UserMessageID:      "um1",
		})
	}))
	defer srv.Close()

	b := NewHTTPBackend(srv.URL, nil)
	res, err := b.Ask(context.Background(), models.AskRequest{ChatThreadID: "t1", Question: "why?"})
	require.NoError(t, err)
	assert.Equal(t, "because", res.Answer)
	assert.Equal(t, "um1", res.UserMessageID)
}

func TestHTTPBackendListThreadsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/threads", r.URL.Path)
		assert.Equal(t, "f1", r.URL.Query().Get("file_id"))
		_ = json.NewEncoder(w).Encode(models.ThreadList{Threads: []models.ChatThread{{ID: "t1", FileID: "f1"}}})
	}))
	defer srv.Close()

	b := NewHTTPBackend(srv.URL, nil)
	threads, err := b.ListThreads(context.Background(), "f1")
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Equal(t, "t1", threads[0].ID)
}
