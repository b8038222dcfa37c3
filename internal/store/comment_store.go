package store

import (
	"context"
	"fmt"

	"github.com/nhle/taskgenius/internal/model"
)

// ReplaceComments stores comments as the full comment list of taskID.
// The task must already be cached.
func (s *SQLiteStore) ReplaceComments(ctx context.Context, taskID int64, comments []model.Comment) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM comments WHERE task_id = ?", taskID); err != nil {
		return fmt.Errorf("clearing comments of task %d: %w", taskID, err)
	}

	for _, c := range comments {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO comments (id, task_id, comment_text, user_name, is_alert, media_attachments, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.ID, taskID, c.Text, c.UserName, boolToInt(c.IsAlert), c.Media, c.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("caching comment %d: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// GetComments returns the cached comments of taskID, oldest first.
func (s *SQLiteStore) GetComments(ctx context.Context, taskID int64) ([]model.Comment, error) {
	var comments []model.Comment
	err := s.db.SelectContext(ctx, &comments, `
		SELECT id, task_id, comment_text, user_name, is_alert, media_attachments, created_at
		FROM comments WHERE task_id = ? ORDER BY created_at, id`, taskID)
	if err != nil {
		return nil, fmt.Errorf("querying comments of task %d: %w", taskID, err)
	}
	return comments, nil
}
