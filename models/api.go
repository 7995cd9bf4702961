package models

import "time"

// Wire payloads shared by the HTTP handlers and the backend client. The
// engine only depends on these shapes, not on the transport.

type CreateAnnotationRequest struct {
	FileID     string     `json:"file_id"`
	PageNumber int        `json:"page_number"`
	Kind       AnchorKind `json:"type"`
	Geometry   []Rect     `json:"geometry,omitempty"`
	Text       string     `json:"text"`
	MessageID  string     `json:"message_id,omitempty"`
	Start      int        `json:"start,omitempty"`
	End        int        `json:"end,omitempty"`
}

type CreateAnnotationResponse struct {
	AnnotationID string `json:"annotation_id"`
}

type CreateThreadRequest struct {
	FileID             string `json:"file_id"`
	SourceAnnotationID string `json:"source_annotation_id,omitempty"`
}

type CreateStandaloneChatRequest struct {
	FolderID           string `json:"folder_id,omitempty"`
	Title              string `json:"title"`
	SourceAnnotationID string `json:"source_annotation_id,omitempty"`
}

type CreateStandaloneChatResponse struct {
	FileID   string `json:"file_id"`
	ThreadID string `json:"thread_id"`
	Title    string `json:"title"`
}

// FileState is everything a panel needs when a file becomes active.
type FileState struct {
	File           FileMeta        `json:"file"`
	Kind           FileKind        `json:"type"`
	PDFURL         string          `json:"pdf_url,omitempty"`
	ActiveThreadID string          `json:"active_thread_id"`
	Threads        []ChatThread    `json:"threads"`
	Messages       []ChatMessage   `json:"messages"`
	Annotations    []Annotation    `json:"annotations"`
	ChatHighlights []ChatHighlight `json:"chat_highlights"`
}

type ThreadMessages struct {
	Messages []ChatMessage `json:"messages"`
}

type ThreadList struct {
	Threads []ChatThread `json:"threads"`
}

type AskRequest struct {
	FileID       string `json:"file_id,omitempty"`
	ChatThreadID string `json:"chat_thread_id"`
	AnnotationID string `json:"annotation_id,omitempty"`
	Question     string `json:"question"`
}

type AskResponse struct {
	Answer             string `json:"answer"`
	AssistantMessageID string `json:"assistant_message_id"`
	UserMessageID      string `json:"user_message_id,omitempty"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}

// UploadResp carries a presigned POST policy the browser uploads the PDF
// with, plus the key the backend will serve it back under.
type UploadResp struct {
	FileID    string            `json:"file_id"`
	UploadURL string            `json:"upload_url"`
	FileKey   string            `json:"file_key"`
	Fields    map[string]string `json:"fields"`
	Expires   time.Time         `json:"expires"`
	Provider  string            `json:"provider"`
}
