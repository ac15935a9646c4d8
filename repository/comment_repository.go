package repository

import (
	"database/sql"
	"fmt"

	"github.com/SagorIslamOfficial/hrm-sub003/models"
)

// CommentRepository handles database operations for discussion comments.
type CommentRepository struct {
	db execer
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *CommentRepository) WithTx(tx *sql.Tx) *CommentRepository {
	return &CommentRepository{db: tx}
}

// CreateComment inserts a comment scoped to its complaint.
func (r *CommentRepository) CreateComment(comment *models.ComplaintComment) error {
	query := `
		INSERT INTO complaint_comments (complaint_id, author_id, body, visibility, is_private)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := r.db.Exec(
		query,
		comment.ComplaintID,
		comment.AuthorID,
		comment.Body,
		comment.Visibility,
		comment.IsPrivate,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	commentID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get comment ID: %w", err)
	}
	comment.CommentID = commentID
	return nil
}

// UpdateComment updates an existing comment by identifier.
func (r *CommentRepository) UpdateComment(commentID int64, comment *models.ComplaintComment) error {
	query := `
		UPDATE complaint_comments SET
			body = ?, visibility = ?, is_private = ?, updated_at = CURRENT_TIMESTAMP
		WHERE comment_id = ? AND complaint_id = ?
	`
	_, err := r.db.Exec(
		query,
		comment.Body,
		comment.Visibility,
		comment.IsPrivate,
		commentID,
		comment.ComplaintID,
	)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return nil
}

// DeleteComment removes a comment. A missing identifier is a no-op.
func (r *CommentRepository) DeleteComment(commentID, complaintID int64) error {
	_, err := r.db.Exec(
		`DELETE FROM complaint_comments WHERE comment_id = ? AND complaint_id = ?`,
		commentID, complaintID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// DeleteByComplaintID removes all comments for a complaint (force delete).
func (r *CommentRepository) DeleteByComplaintID(complaintID int64) error {
	if _, err := r.db.Exec(`DELETE FROM complaint_comments WHERE complaint_id = ?`, complaintID); err != nil {
		return fmt.Errorf("failed to delete comments: %w", err)
	}
	return nil
}

// GetCommentsByComplaintID returns the discussion thread, oldest first.
func (r *CommentRepository) GetCommentsByComplaintID(complaintID int64) ([]models.ComplaintComment, error) {
	query := `
		SELECT comment_id, complaint_id, author_id, body, visibility, is_private, created_at, updated_at
		FROM complaint_comments
		WHERE complaint_id = ?
		ORDER BY created_at ASC, comment_id ASC
	`
	rows, err := r.db.Query(query, complaintID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []models.ComplaintComment
	for rows.Next() {
		var c models.ComplaintComment
		err := rows.Scan(
			&c.CommentID, &c.ComplaintID, &c.AuthorID, &c.Body,
			&c.Visibility, &c.IsPrivate, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return comments, nil
}
