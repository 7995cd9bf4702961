package models

import "time"

type ChatThread struct {
	ID                 string    `gorm:"primaryKey" json:"id"`
	FileID             string    `gorm:"index" json:"file_id"`
	SourceAnnotationID string    `gorm:"index" json:"source_annotation_id,omitempty"`
	Title              string    `json:"title,omitempty"`
	CreatedAt          time.Time `json:"-"`
}

// IsDocumentThread reports whether this is the file's single thread not
// derived from any annotation.
func (t *ChatThread) IsDocumentThread() bool {
	return t.SourceAnnotationID == ""
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MessageState tracks the client-side delivery state of an optimistic
// message. The backend never persists it.
type MessageState string

const (
	MessageStatePending MessageState = "pending"
	MessageStateSent    MessageState = "sent"
	MessageStateFailed  MessageState = "failed"
)

type ChatMessage struct {
	ID           string       `gorm:"primaryKey" json:"id,omitempty"` // empty locally until the backend assigns one
	ThreadID     string       `gorm:"index" json:"thread_id"`
	Role         Role         `json:"role"`
	Content      string       `json:"content"`
	AnnotationID string       `gorm:"index" json:"annotation_id,omitempty"`
	State        MessageState `gorm:"-" json:"-"`
	CreatedAt    time.Time    `json:"-"`
}

// ChatHighlight is the per-message projection of a chat_text annotation,
// used to re-inject highlight markup into rendered messages.
type ChatHighlight struct {
	AnnotationID string `json:"annotation_id"`
	MessageID    string `json:"message_id"`
	Start        int    `json:"start"`
	End          int    `json:"end"`
}
