package models

import "time"

type LifecycleEventType string

const (
	EventAnnotationCreated LifecycleEventType = "annotation_created"
	EventAnnotationDeleted LifecycleEventType = "annotation_deleted"
	EventThreadCreated     LifecycleEventType = "thread_created"
	EventThreadDeleted     LifecycleEventType = "thread_deleted"
	EventFileDeleted       LifecycleEventType = "file_deleted"
)

// LifecycleEvent is broadcast whenever an annotation or thread is created
// or destroyed, so connected views can drop stale highlights.
type LifecycleEvent struct {
	Type         LifecycleEventType `json:"type"`
	FileID       string             `json:"file_id"`
	AnnotationID string             `json:"annotation_id,omitempty"`
	ThreadID     string             `json:"thread_id,omitempty"`
	Timestamp    time.Time          `json:"timestamp"`
}
