package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/taskgenius/internal/model"
)

// taskRow is a cached task plus its position in the server's ordering.
type taskRow struct {
	model.Task
	Position int `db:"position"`
}

const taskColumns = `id, project_id, title, description, status, is_completed,
	priority, due_date, creator_id, assignee_id, assignee_name, created_at`

// ReplaceTasks stores tasks as the full collection of projectID, removing
// cached tasks that are no longer present. It returns the new snapshot id.
func (s *SQLiteStore) ReplaceTasks(
	ctx context.Context,
	projectID string,
	tasks []model.Task,
	fetchedAt time.Time,
) (string, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteMissingTasks(ctx, tx, projectID, tasks); err != nil {
		return "", err
	}

	const upsert = `
		INSERT INTO tasks (
			id, project_id, title, description, status, is_completed,
			priority, due_date, creator_id, assignee_id, assignee_name,
			created_at, position
		) VALUES (
			:id, :project_id, :title, :description, :status, :is_completed,
			:priority, :due_date, :creator_id, :assignee_id, :assignee_name,
			:created_at, :position
		)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			title = excluded.title,
			description = excluded.description,
			status = excluded.status,
			is_completed = excluded.is_completed,
			priority = excluded.priority,
			due_date = excluded.due_date,
			creator_id = excluded.creator_id,
			assignee_id = excluded.assignee_id,
			assignee_name = excluded.assignee_name,
			created_at = excluded.created_at,
			position = excluded.position`

	for i, t := range tasks {
		t.ProjectID = projectID
		t.Completed = t.IsCompleted()
		if t.Status == "" {
			t.Status = model.StatusToDo
		}
		if t.Priority == "" {
			t.Priority = model.PriorityMedium
		}
		if _, err := tx.NamedExecContext(ctx, upsert, taskRow{Task: t, Position: i}); err != nil {
			return "", fmt.Errorf("caching task %d: %w", t.ID, err)
		}
	}

	snapshotID := uuid.New().String()
	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO sync_state (project_id, snapshot_id, task_count, fetched_at)
		VALUES (?, ?, ?, ?)`,
		projectID, snapshotID, len(tasks), fetchedAt.UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("recording snapshot for %s: %w", projectID, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing snapshot for %s: %w", projectID, err)
	}
	return snapshotID, nil
}

// deleteMissingTasks removes cached tasks of projectID that are not in
// keep. Their comments go with them.
func deleteMissingTasks(ctx context.Context, tx *sqlx.Tx, projectID string, keep []model.Task) error {
	if len(keep) == 0 {
		if _, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE project_id = ?", projectID); err != nil {
			return fmt.Errorf("clearing tasks of %s: %w", projectID, err)
		}
		return nil
	}

	ids := make([]int64, len(keep))
	for i, t := range keep {
		ids[i] = t.ID
	}
	query, args, err := sqlx.In("DELETE FROM tasks WHERE project_id = ? AND id NOT IN (?)", projectID, ids)
	if err != nil {
		return fmt.Errorf("building delete query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
		return fmt.Errorf("pruning tasks of %s: %w", projectID, err)
	}
	return nil
}

// GetTasks returns the cached snapshot of projectID in server order, or
// ErrNotCached when the project has never been fetched.
func (s *SQLiteStore) GetTasks(ctx context.Context, projectID string) (TaskSnapshot, error) {
	var state struct {
		SnapshotID string    `db:"snapshot_id"`
		FetchedAt  time.Time `db:"fetched_at"`
	}
	err := s.db.GetContext(ctx, &state,
		"SELECT snapshot_id, fetched_at FROM sync_state WHERE project_id = ?", projectID)
	if errors.Is(err, sql.ErrNoRows) {
		return TaskSnapshot{}, ErrNotCached
	}
	if err != nil {
		return TaskSnapshot{}, fmt.Errorf("reading sync state of %s: %w", projectID, err)
	}

	var tasks []model.Task
	err = s.db.SelectContext(ctx, &tasks,
		"SELECT "+taskColumns+" FROM tasks WHERE project_id = ? ORDER BY position", projectID)
	if err != nil {
		return TaskSnapshot{}, fmt.Errorf("querying tasks of %s: %w", projectID, err)
	}

	return TaskSnapshot{
		ProjectID:  projectID,
		SnapshotID: state.SnapshotID,
		FetchedAt:  state.FetchedAt,
		Tasks:      tasks,
	}, nil
}
