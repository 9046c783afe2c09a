// Package project persists projects and their committed timeline snapshots.
// The timeline is stored as a single JSON document per project; the editing
// engine has no serialization opinions beyond the entity shapes, so this
// package owns the round trip.
package project

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cutroom/cutroom-agent/internal/timeline"
)

type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Repository interface {
	CreateProject(ctx context.Context, name string) (*Project, error)
	GetProject(ctx context.Context, id string) (*Project, error)
	ListProjects(ctx context.Context) ([]*Project, error)
	DeleteProject(ctx context.Context, id string) error

	SaveTimeline(ctx context.Context, projectID string, t *timeline.Timeline) error
	LoadTimeline(ctx context.Context, projectID string) (*timeline.Timeline, error)

	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) CreateProject(ctx context.Context, name string) (*Project, error) {
	if name == "" {
		return nil, fmt.Errorf("project name is required")
	}
	now := time.Now()
	p := &Project{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, p.ID, p.Name, p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *SQLiteRepository) GetProject(ctx context.Context, id string) (*Project, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at FROM projects WHERE id = ?
	`, id)

	var p Project
	var createdAt, updatedAt string
	err := row.Scan(&p.ID, &p.Name, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &p, nil
}

func (r *SQLiteRepository) ListProjects(ctx context.Context) ([]*Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, created_at, updated_at FROM projects ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		var p Project
		var createdAt, updatedAt string
		if err := rows.Scan(&p.ID, &p.Name, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

func (r *SQLiteRepository) DeleteProject(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	return err
}

func (r *SQLiteRepository) SaveTimeline(ctx context.Context, projectID string, t *timeline.Timeline) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal timeline: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO timelines (project_id, data, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(project_id) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`, projectID, string(data))
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE projects SET updated_at = datetime('now') WHERE id = ?
	`, projectID)
	return err
}

func (r *SQLiteRepository) LoadTimeline(ctx context.Context, projectID string) (*timeline.Timeline, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		"SELECT data FROM timelines WHERE project_id = ?", projectID,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var t timeline.Timeline
	if err := json.Unmarshal([]byte(data), &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal timeline: %w", err)
	}
	return &t, nil
}

func (r *SQLiteRepository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (r *SQLiteRepository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
