package models

import "time"

// FileKind discriminates PDF-backed files from standalone chat files.
type FileKind string

const (
	FilePDF  FileKind = "pdf"
	FileChat FileKind = "chat"
)

type FileMeta struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Title        string    `json:"title"`
	Kind         FileKind  `json:"type"`
	FolderID     string    `gorm:"index" json:"folder_id,omitempty"`
	ParentFileID string    `json:"parent_file_id,omitempty"`
	ObjectKey    string    `json:"-"` // storage key, pdf files only
	CreatedAt    time.Time `json:"-"`
}

type Folder struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	ParentID  string    `gorm:"index" json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"-"`
}
