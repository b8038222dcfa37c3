package store

import (
	"context"
	"fmt"
	"time"

	"github.com/nhle/taskgenius/internal/model"
)

// ReplaceProjects stores projects as the full project list.
func (s *SQLiteStore) ReplaceProjects(ctx context.Context, projects []model.Project, fetchedAt time.Time) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM projects"); err != nil {
		return fmt.Errorf("clearing projects: %w", err)
	}

	for _, p := range projects {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO projects (id, name, description, fetched_at)
			VALUES (?, ?, ?, ?)`,
			p.ID, p.Name, p.Description, fetchedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("caching project %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// GetProjects returns the cached projects ordered by name.
func (s *SQLiteStore) GetProjects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	err := s.db.SelectContext(ctx, &projects,
		"SELECT id, name, description, fetched_at FROM projects ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	return projects, nil
}
