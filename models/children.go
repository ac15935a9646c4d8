package models

import (
	"database/sql"
	"time"
)

// CommentVisibility scopes who can read a discussion comment.
type CommentVisibility string

const (
	CommentInternal CommentVisibility = "internal"
	CommentExternal CommentVisibility = "external"
)

// ComplaintComment is a discussion comment on a complaint.
type ComplaintComment struct {
	CommentID   int64             `db:"comment_id" json:"comment_id"`
	ComplaintID int64             `db:"complaint_id" json:"complaint_id"`
	AuthorID    int64             `db:"author_id" json:"author_id"`
	Body        string            `db:"body" json:"body"`
	Visibility  CommentVisibility `db:"visibility" json:"visibility"`
	IsPrivate   bool              `db:"is_private" json:"is_private"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt   sql.NullTime      `db:"updated_at" json:"updated_at"`
}

// DocumentType classifies an evidence document.
type DocumentType string

const (
	DocumentEvidence   DocumentType = "evidence"
	DocumentResolution DocumentType = "resolution"
	DocumentSupporting DocumentType = "supporting"
	DocumentOther      DocumentType = "other"
)

// ComplaintDocument is an evidence/supporting file attached to a complaint.
// FileRef is an opaque reference into the file store.
type ComplaintDocument struct {
	DocumentID   int64          `db:"document_id" json:"document_id"`
	ComplaintID  int64          `db:"complaint_id" json:"complaint_id"`
	DocumentType DocumentType   `db:"document_type" json:"document_type"`
	Title        string         `db:"title" json:"title"`
	Description  sql.NullString `db:"description" json:"description"`
	FileRef      string         `db:"file_ref" json:"file_ref"`
	UploadedByID int64          `db:"uploaded_by_id" json:"uploaded_by_id"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    sql.NullTime   `db:"updated_at" json:"updated_at"`
}
