package project

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cutroom/cutroom-agent/internal/db"
	"github.com/cutroom/cutroom-agent/internal/timeline"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	database, err := db.New(dbPath, nil)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return NewRepository(database.Conn())
}

func TestRepository_ProjectLifecycle(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	p, err := repo.CreateProject(ctx, "Launch Teaser")
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	if p.ID == "" {
		t.Fatal("project id is empty")
	}

	got, err := repo.GetProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProject() error = %v", err)
	}
	if got == nil || got.Name != "Launch Teaser" {
		t.Fatalf("GetProject() = %+v, want name Launch Teaser", got)
	}

	list, err := repo.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len(projects) = %d, want 1", len(list))
	}

	if err := repo.DeleteProject(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProject() error = %v", err)
	}
	got, _ = repo.GetProject(ctx, p.ID)
	if got != nil {
		t.Error("project still present after delete")
	}
}

func TestRepository_CreateProject_EmptyName(t *testing.T) {
	repo := setupRepo(t)
	if _, err := repo.CreateProject(context.Background(), ""); err == nil {
		t.Error("empty name should be rejected")
	}
}

func TestRepository_TimelineRoundTrip(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	p, err := repo.CreateProject(ctx, "Round Trip")
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}

	sd := 20.0
	tl := timeline.New(p.ID, timeline.Output{Width: 1920, Height: 1080, FPS: 30, Bitrate: 8000, Format: "mp4"})
	tl.Clips = []timeline.Clip{
		{
			ID: "c1", AssetID: "a1", Start: 1.5, End: 9.25, SourceDuration: &sd,
			Position: 0, Track: 0, Color: "teal",
			Transition: timeline.Transition{Type: timeline.TransitionFade, Duration: 0.5},
			Crop:       []byte(`{"x":0,"y":0,"w":0.5,"h":0.5}`),
		},
		{ID: "c2", AssetID: "a2", Start: 0, End: 3, Position: 7.75, Track: 1,
			Transition: timeline.NoTransition()},
	}

	if err := repo.SaveTimeline(ctx, p.ID, tl); err != nil {
		t.Fatalf("SaveTimeline() error = %v", err)
	}

	loaded, err := repo.LoadTimeline(ctx, p.ID)
	if err != nil {
		t.Fatalf("LoadTimeline() error = %v", err)
	}
	if loaded == nil {
		t.Fatal("LoadTimeline() = nil, want timeline")
	}
	if !loaded.Equal(tl) {
		t.Errorf("loaded timeline differs from saved:\n got %+v\nwant %+v", loaded, tl)
	}
}

func TestRepository_SaveTimeline_Overwrites(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	p, _ := repo.CreateProject(ctx, "Overwrite")
	tl := timeline.New(p.ID, timeline.Output{})

	if err := repo.SaveTimeline(ctx, p.ID, tl); err != nil {
		t.Fatalf("SaveTimeline() error = %v", err)
	}

	tl.Clips = append(tl.Clips, timeline.Clip{ID: "c1", Start: 0, End: 2})
	if err := repo.SaveTimeline(ctx, p.ID, tl); err != nil {
		t.Fatalf("second SaveTimeline() error = %v", err)
	}

	loaded, _ := repo.LoadTimeline(ctx, p.ID)
	if len(loaded.Clips) != 1 {
		t.Errorf("len(Clips) = %d, want 1", len(loaded.Clips))
	}
}

func TestRepository_LoadTimeline_Missing(t *testing.T) {
	repo := setupRepo(t)

	loaded, err := repo.LoadTimeline(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("LoadTimeline() error = %v", err)
	}
	if loaded != nil {
		t.Error("missing timeline should load as nil")
	}
}

func TestRepository_Settings(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	got, err := repo.GetSetting(ctx, "auth_token")
	if err != nil || got != "" {
		t.Fatalf("GetSetting() = (%q, %v), want empty", got, err)
	}

	if err := repo.SetSetting(ctx, "auth_token", "abc"); err != nil {
		t.Fatalf("SetSetting() error = %v", err)
	}
	if err := repo.SetSetting(ctx, "auth_token", "def"); err != nil {
		t.Fatalf("SetSetting() overwrite error = %v", err)
	}

	got, _ = repo.GetSetting(ctx, "auth_token")
	if got != "def" {
		t.Errorf("GetSetting() = %q, want def", got)
	}
}
