// Package session hosts the live timeline editors, one per project, behind a
// single logical writer. Every committed transition is persisted through the
// project repository, so the durable snapshot always reflects post-command
// state.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cutroom/cutroom-agent/internal/project"
	"github.com/cutroom/cutroom-agent/internal/timeline"
)

// Result is the committed state returned to callers after a command.
type Result struct {
	Changed      bool               `json:"changed"`
	Timeline     *timeline.Timeline `json:"timeline"`
	Selection    []string           `json:"selection"`
	HistoryLen   int                `json:"history_len"`
	HistoryIndex int                `json:"history_index"`
}

type Manager struct {
	mu            sync.Mutex
	editors       map[string]*timeline.Editor
	repo          project.Repository
	defaultOutput timeline.Output
	logger        *slog.Logger
}

func NewManager(repo project.Repository, defaultOutput timeline.Output, logger *slog.Logger) *Manager {
	return &Manager{
		editors:       make(map[string]*timeline.Editor),
		repo:          repo,
		defaultOutput: defaultOutput,
		logger:        logger,
	}
}

// Apply runs one command against the project's editor under the writer lock.
// When the command commits a change, the post-command snapshot is persisted
// before the result is returned.
func (m *Manager) Apply(ctx context.Context, projectID string, cmd func(*timeline.Editor) bool) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.editorLocked(ctx, projectID)
	if err != nil {
		return nil, err
	}

	changed := cmd(e)
	if changed {
		if err := m.repo.SaveTimeline(ctx, projectID, e.Timeline()); err != nil {
			return nil, fmt.Errorf("failed to persist timeline: %w", err)
		}
	}
	return m.resultLocked(e, changed), nil
}

// State returns the committed state without running a command.
func (m *Manager) State(ctx context.Context, projectID string) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.editorLocked(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return m.resultLocked(e, false), nil
}

// SetTimeline seeds or replaces the project's timeline. A nil timeline
// discards the live editor state; the last persisted snapshot is kept so the
// project can be reopened.
func (m *Manager) SetTimeline(ctx context.Context, projectID string, t *timeline.Timeline) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t == nil {
		delete(m.editors, projectID)
		return &Result{HistoryIndex: -1}, nil
	}

	if p, err := m.repo.GetProject(ctx, projectID); err != nil {
		return nil, err
	} else if p == nil {
		return nil, ErrProjectNotFound
	}

	t.ProjectID = projectID
	e := timeline.NewEditor()
	e.SetTimeline(t)

	if err := m.repo.SaveTimeline(ctx, projectID, e.Timeline()); err != nil {
		return nil, fmt.Errorf("failed to persist timeline: %w", err)
	}

	m.editors[projectID] = e
	if m.logger != nil {
		m.logger.Info("timeline loaded", "project_id", projectID, "clips", len(t.Clips))
	}
	return m.resultLocked(e, true), nil
}

// Evict drops the live editor for a project, e.g. after project deletion.
func (m *Manager) Evict(projectID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.editors, projectID)
}

// editorLocked returns the project's editor, seeding it from the persisted
// snapshot (or an empty timeline) on first use. Caller holds the lock.
func (m *Manager) editorLocked(ctx context.Context, projectID string) (*timeline.Editor, error) {
	if e, ok := m.editors[projectID]; ok {
		return e, nil
	}

	p, err := m.repo.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProjectNotFound
	}

	t, err := m.repo.LoadTimeline(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		t = timeline.New(projectID, m.defaultOutput)
	}

	e := timeline.NewEditor()
	e.SetTimeline(t)
	m.editors[projectID] = e

	if m.logger != nil {
		m.logger.Info("editor session opened", "project_id", projectID, "clips", len(t.Clips))
	}
	return e, nil
}

func (m *Manager) resultLocked(e *timeline.Editor, changed bool) *Result {
	return &Result{
		Changed:      changed,
		Timeline:     e.Timeline(),
		Selection:    e.Selection(),
		HistoryLen:   e.HistoryLen(),
		HistoryIndex: e.HistoryIndex(),
	}
}
