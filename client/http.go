package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cindypham04/engrave/models"
	"github.com/cindypham04/engrave/pkg/logging"
)

// HTTPBackend talks to the engrave API server over plain HTTP/JSON.
type HTTPBackend struct {
	baseURL string
	http    *http.Client
}

var _ Backend = (*HTTPBackend)(nil)

// NewHTTPBackend returns a backend client for the given base URL. A nil
// httpClient gets a default with a 30s timeout; a hung backend should not
// hang the caller forever.
func NewHTTPBackend(baseURL string, httpClient *http.Client) *HTTPBackend {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (b *HTTPBackend) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode %s %s: %v", ErrPersistence, method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrPersistence, method, path, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logging.Logger.Error("fail closing response body", "error", cerr)
		}
	}()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s %s: status %d", ErrPersistence, method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", ErrPersistence, method, path, err)
	}
	return nil
}

func (b *HTTPBackend) LoadFileState(ctx context.Context, fileID string) (*models.FileState, error) {
	var state models.FileState
	if err := b.do(ctx, http.MethodGet, "/files/"+url.PathEscape(fileID)+"/state", nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (b *HTTPBackend) LoadThreadMessages(ctx context.Context, threadID string) ([]models.ChatMessage, error) {
	var res models.ThreadMessages
	if err := b.do(ctx, http.MethodGet, "/chat/thread/"+url.PathEscape(threadID), nil, &res); err != nil {
		return nil, err
	}
	return res.Messages, nil
}

func (b *HTTPBackend) ListThreads(ctx context.Context, fileID string) ([]models.ChatThread, error) {
	var res models.ThreadList
	if err := b.do(ctx, http.MethodGet, "/chat/threads?file_id="+url.QueryEscape(fileID), nil, &res); err != nil {
		return nil, err
	}
	return res.Threads, nil
}

func (b *HTTPBackend) ThreadByAnnotation(ctx context.Context, annotationID string) (*models.ChatThread, error) {
	var thread models.ChatThread
	err := b.do(ctx, http.MethodGet, "/chat/thread/by-annotation/"+url.PathEscape(annotationID), nil, &thread)
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

func (b *HTTPBackend) CreateAnnotation(ctx context.Context, req models.CreateAnnotationRequest) (string, error) {
	var res models.CreateAnnotationResponse
	if err := b.do(ctx, http.MethodPost, "/annotations", req, &res); err != nil {
		return "", err
	}
	return res.AnnotationID, nil
}

func (b *HTTPBackend) FetchAnnotation(ctx context.Context, annotationID string) (*models.Annotation, error) {
	var a models.Annotation
	if err := b.do(ctx, http.MethodGet, "/annotations/"+url.PathEscape(annotationID), nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (b *HTTPBackend) DeleteAnnotation(ctx context.Context, annotationID string) error {
	var res models.DeleteResponse
	if err := b.do(ctx, http.MethodDelete, "/annotations/"+url.PathEscape(annotationID), nil, &res); err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("%w: delete annotation %s rejected", ErrPersistence, annotationID)
	}
	return nil
}

func (b *HTTPBackend) CreateThread(ctx context.Context, req models.CreateThreadRequest) (*models.ChatThread, error) {
	var thread models.ChatThread
	if err := b.do(ctx, http.MethodPost, "/chat/threads", req, &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

func (b *HTTPBackend) CreateStandaloneChat(ctx context.Context, req models.CreateStandaloneChatRequest) (*models.CreateStandaloneChatResponse, error) {
	var res models.CreateStandaloneChatResponse
	if err := b.do(ctx, http.MethodPost, "/chat/standalone", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (b *HTTPBackend) Ask(ctx context.Context, req models.AskRequest) (*models.AskResponse, error) {
	var res models.AskResponse
	if err := b.do(ctx, http.MethodPost, "/chat/ask", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
