package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cindypham04/engrave/config"
	"github.com/cindypham04/engrave/models"
	"github.com/cindypham04/engrave/pkg/logging"
)

// Answerer produces the assistant reply for a question. The real
// implementation calls the external answer service; tests swap in a stub.
type Answerer interface {
	Answer(ctx context.Context, req *AnswerRequest) (string, error)
}

// AnswerRequest carries everything the answer service needs: the
// question, the highlighted source text it is about (if any) and the
// thread history.
type AnswerRequest struct {
	Question   string               `json:"question"`
	SourceText string               `json:"source_text,omitempty"`
	History    []models.ChatMessage `json:"history,omitempty"`
}

type answerAPI struct {
	baseURL string
	client  *http.Client
}

func NewAnswerAPI(cfg *config.Config) Answerer {
	timeout := cfg.AnswerAPITimeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &answerAPI{
		baseURL: cfg.AnswerAPIURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (a *answerAPI) Answer(ctx context.Context, req *AnswerRequest) (string, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/answer", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			logging.Logger.Error("Error closing response body", "error", err)
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("answer service returned status %d", resp.StatusCode)
	}

	var parsed struct {
		Answer string `json:"answer"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	return parsed.Answer, nil
}
