package models

import (
	"errors"
	"time"
)

// AnchorKind says what an annotation's anchor points at.
type AnchorKind string

const (
	AnchorPDFText      AnchorKind = "pdf_text"
	AnchorPDFRegion    AnchorKind = "pdf_region"
	AnchorPDFHighlight AnchorKind = "pdf_highlight" // decorative, never owns a thread
	AnchorChatText     AnchorKind = "chat_text"
)

// ChatPageNumber is the sentinel page number for chat-anchored annotations.
const ChatPageNumber = -1

var ErrInvalidAnchor = errors.New("invalid annotation anchor")

// Rect is a page-relative fractional rectangle; every field is in [0,1]
// of the page width/height.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Annotation struct {
	ID              string     `gorm:"primaryKey" json:"id"`
	FileID          string     `gorm:"index" json:"file_id"`
	Kind            AnchorKind `json:"type"`
	PageNumber      int        `json:"page_number"`
	Geometry        []Rect     `gorm:"serializer:json" json:"geometry,omitempty"`
	MessageID       string     `gorm:"index" json:"message_id,omitempty"`
	StartOffset     int        `json:"start"`
	EndOffset       int        `json:"end"`
	SourceText      string     `json:"text"`
	DerivedThreadID string     `json:"derived_thread_id,omitempty"`
	CreatedAt       time.Time  `json:"-"`
}

// IsChatAnchor reports whether the annotation anchors into a chat message
// rather than a page.
func (a *Annotation) IsChatAnchor() bool {
	return a.Kind == AnchorChatText
}

// ValidateAnchor enforces the anchor invariant: exactly one of
// (geometry, pageNumber>=1) or (messageId, startOffset<endOffset) is
// populated, never both.
func (a *Annotation) ValidateAnchor() error {
	if a.IsChatAnchor() {
		if a.PageNumber != ChatPageNumber {
			return ErrInvalidAnchor
		}
		if a.MessageID == "" || a.StartOffset < 0 || a.EndOffset <= a.StartOffset {
			return ErrInvalidAnchor
		}
		if len(a.Geometry) != 0 {
			return ErrInvalidAnchor
		}
		return nil
	}

	switch a.Kind {
	case AnchorPDFText, AnchorPDFRegion, AnchorPDFHighlight:
	default:
		return ErrInvalidAnchor
	}
	if a.PageNumber < 1 || len(a.Geometry) == 0 {
		return ErrInvalidAnchor
	}
	if a.MessageID != "" || a.StartOffset != 0 || a.EndOffset != 0 {
		return ErrInvalidAnchor
	}
	return nil
}
