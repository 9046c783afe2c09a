package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cutroom/cutroom-agent/internal/catalog"
	"github.com/cutroom/cutroom-agent/internal/db"
	"github.com/cutroom/cutroom-agent/internal/project"
	"github.com/cutroom/cutroom-agent/internal/session"
	"github.com/cutroom/cutroom-agent/internal/timeline"
)

const testToken = "test-token"

type testEnv struct {
	router   http.Handler
	projects project.Repository
	assets   catalog.Service
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	database, err := db.New(filepath.Join(t.TempDir(), "test.db"), logger)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	projects := project.NewRepository(database.Conn())
	assets := catalog.NewService(catalog.NewRepository(database.Conn()), logger)
	sessions := session.NewManager(projects, timeline.Output{
		Width: 1920, Height: 1080, FPS: 30, Bitrate: 8000, Format: "mp4",
	}, logger)

	if err := projects.SetSetting(context.Background(), "auth_token", testToken); err != nil {
		t.Fatalf("failed to set auth token: %v", err)
	}

	router := NewRouter(ServerConfig{
		Sessions:      sessions,
		Projects:      projects,
		Assets:        assets,
		DefaultPreset: "1080p",
		Logger:        logger,
		StartTime:     time.Now().Add(-5 * time.Second),
		DeviceID:      "test-device",
		Version:       "test",
	})

	return &testEnv{router: router, projects: projects, assets: assets}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) createProject(t *testing.T, name string) string {
	t.Helper()

	rr := e.do(t, http.MethodPost, "/projects", CreateProjectRequest{Name: name})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create project status = %d, want %d: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	var resp ProjectResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode project response: %v", err)
	}
	return resp.ID
}

func decodeEdit(t *testing.T, rr *httptest.ResponseRecorder) EditResponse {
	t.Helper()

	var resp EditResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode edit response: %v", err)
	}
	return resp
}

func decodeJSONBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

func writeVideoFixture(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("fixture "+name), 0o644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
}

func TestHealthRoute_NoAuth(t *testing.T) {
	env := setupTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	body := decodeJSONBody(t, rr)
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
	if body["device_id"] != "test-device" {
		t.Errorf("device_id = %v, want test-device", body["device_id"])
	}
}

func TestStatusRoute(t *testing.T) {
	env := setupTestEnv(t)
	env.createProject(t, "demo")

	rr := env.do(t, http.MethodGet, "/status", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	body := decodeJSONBody(t, rr)
	if got := body["projects_count"].(float64); got != 1 {
		t.Errorf("projects_count = %v, want 1", got)
	}
}

func TestPresetsRoute(t *testing.T) {
	env := setupTestEnv(t)

	rr := env.do(t, http.MethodGet, "/presets", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp PresetsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode presets: %v", err)
	}
	if len(resp.Presets) == 0 {
		t.Fatal("expected at least one preset")
	}
	found := false
	for _, p := range resp.Presets {
		if p.Name == "1080p" {
			found = true
			if p.Width != 1920 || p.Height != 1080 {
				t.Errorf("1080p preset = %dx%d, want 1920x1080", p.Width, p.Height)
			}
		}
	}
	if !found {
		t.Error("1080p preset missing from response")
	}
}

func TestCreateProject_SeedsTimeline(t *testing.T) {
	env := setupTestEnv(t)
	projectID := env.createProject(t, "my cut")

	rr := env.do(t, http.MethodGet, "/projects/"+projectID+"/timeline", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	resp := decodeEdit(t, rr)
	if resp.Timeline == nil {
		t.Fatal("timeline missing from response")
	}
	if resp.Timeline.ProjectID != projectID {
		t.Errorf("project_id = %q, want %q", resp.Timeline.ProjectID, projectID)
	}
	if len(resp.Timeline.Clips) != 0 {
		t.Errorf("new project has %d clips, want 0", len(resp.Timeline.Clips))
	}
	if resp.Timeline.Output.Width != 1920 {
		t.Errorf("output width = %d, want 1920 from default preset", resp.Timeline.Output.Width)
	}
	if resp.HistoryLen != 1 || resp.HistoryIndex != 0 {
		t.Errorf("history = (%d, %d), want (1, 0)", resp.HistoryLen, resp.HistoryIndex)
	}
}

func TestCreateProject_EmptyName(t *testing.T) {
	env := setupTestEnv(t)

	rr := env.do(t, http.MethodPost, "/projects", CreateProjectRequest{Name: ""})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestCreateProject_UnknownPreset(t *testing.T) {
	env := setupTestEnv(t)

	rr := env.do(t, http.MethodPost, "/projects", CreateProjectRequest{Name: "x", Preset: "8k-imax"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestTimelineRoute_UnknownProject(t *testing.T) {
	env := setupTestEnv(t)

	rr := env.do(t, http.MethodGet, "/projects/nope/timeline", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestClipLifecycle_OverHTTP(t *testing.T) {
	env := setupTestEnv(t)
	projectID := env.createProject(t, "lifecycle")

	rr := env.do(t, http.MethodPost, "/projects/"+projectID+"/clips", AddClipRequest{
		Clip: timeline.Clip{AssetID: "asset-1", Start: 0, End: 4, Position: 0},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("add clip status = %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeEdit(t, rr)
	if !resp.Changed {
		t.Fatal("add clip reported changed = false")
	}
	if len(resp.Timeline.Clips) != 1 {
		t.Fatalf("clips = %d, want 1", len(resp.Timeline.Clips))
	}
	clipID := resp.Timeline.Clips[0].ID
	if clipID == "" {
		t.Fatal("added clip has no generated id")
	}

	// Trim via patch.
	end := 2.5
	rr = env.do(t, http.MethodPatch, "/projects/"+projectID+"/clips/"+clipID, map[string]interface{}{"end": end})
	resp = decodeEdit(t, rr)
	if !resp.Changed {
		t.Fatal("patch reported changed = false")
	}
	if got := resp.Timeline.Clips[0].End; got != end {
		t.Errorf("end = %v, want %v", got, end)
	}

	// Split at the midpoint.
	rr = env.do(t, http.MethodPost, "/projects/"+projectID+"/clips/"+clipID+"/split", SplitClipRequest{At: 1.25})
	resp = decodeEdit(t, rr)
	if !resp.Changed {
		t.Fatal("split reported changed = false")
	}
	if len(resp.Timeline.Clips) != 2 {
		t.Fatalf("clips after split = %d, want 2", len(resp.Timeline.Clips))
	}

	// Remove the second segment.
	secondID := resp.Timeline.Clips[1].ID
	rr = env.do(t, http.MethodDelete, "/projects/"+projectID+"/clips/"+secondID, nil)
	resp = decodeEdit(t, rr)
	if len(resp.Timeline.Clips) != 1 {
		t.Fatalf("clips after remove = %d, want 1", len(resp.Timeline.Clips))
	}

	// Undo brings it back.
	rr = env.do(t, http.MethodPost, "/projects/"+projectID+"/undo", nil)
	resp = decodeEdit(t, rr)
	if !resp.Changed {
		t.Fatal("undo reported changed = false")
	}
	if len(resp.Timeline.Clips) != 2 {
		t.Fatalf("clips after undo = %d, want 2", len(resp.Timeline.Clips))
	}
}

func TestAddClip_ResolvesSourceDurationFromCatalog(t *testing.T) {
	env := setupTestEnv(t)
	projectID := env.createProject(t, "durations")

	dir := t.TempDir()
	writeVideoFixture(t, dir, "take.mp4")

	folder, err := env.assets.AddFolder(context.Background(), dir, "")
	if err != nil {
		t.Fatalf("AddFolder() error = %v", err)
	}
	if _, err := env.assets.ScanFolder(context.Background(), folder.ID); err != nil {
		t.Fatalf("ScanFolder() error = %v", err)
	}
	all, err := env.assets.GetAssets(context.Background())
	if err != nil || len(all) != 1 {
		t.Fatalf("GetAssets() = %d assets, err %v, want 1", len(all), err)
	}
	if _, err := env.assets.SetAssetDuration(context.Background(), all[0].ID, 7.5); err != nil {
		t.Fatalf("SetAssetDuration() error = %v", err)
	}

	rr := env.do(t, http.MethodPost, "/projects/"+projectID+"/clips", AddClipRequest{
		Clip: timeline.Clip{AssetID: all[0].ID, Start: 0, End: 99},
	})
	resp := decodeEdit(t, rr)
	if len(resp.Timeline.Clips) != 1 {
		t.Fatalf("clips = %d, want 1", len(resp.Timeline.Clips))
	}

	c := resp.Timeline.Clips[0]
	if c.SourceDuration == nil || *c.SourceDuration != 7.5 {
		t.Fatalf("source_duration = %v, want 7.5 from catalog", c.SourceDuration)
	}
	if c.End != 7.5 {
		t.Errorf("end = %v, want clamped to 7.5", c.End)
	}
}

func TestUpdateClipColor_SetAndClear(t *testing.T) {
	env := setupTestEnv(t)
	projectID := env.createProject(t, "colors")

	rr := env.do(t, http.MethodPost, "/projects/"+projectID+"/clips", AddClipRequest{
		Clip: timeline.Clip{AssetID: "a", Start: 0, End: 2},
	})
	clipID := decodeEdit(t, rr).Timeline.Clips[0].ID

	color := "#ff8800"
	rr = env.do(t, http.MethodPut, "/projects/"+projectID+"/clips/"+clipID+"/color", UpdateClipColorRequest{Color: &color})
	resp := decodeEdit(t, rr)
	if got := resp.Timeline.Clips[0].Color; got != color {
		t.Errorf("color = %q, want %q", got, color)
	}

	rr = env.do(t, http.MethodPut, "/projects/"+projectID+"/clips/"+clipID+"/color", UpdateClipColorRequest{Color: nil})
	resp = decodeEdit(t, rr)
	if got := resp.Timeline.Clips[0].Color; got != "" {
		t.Errorf("color after clear = %q, want empty", got)
	}
}

func TestReorderClips_OverHTTP(t *testing.T) {
	env := setupTestEnv(t)
	projectID := env.createProject(t, "ordering")

	var ids []string
	for i := 0; i < 3; i++ {
		rr := env.do(t, http.MethodPost, "/projects/"+projectID+"/clips", AddClipRequest{
			Clip: timeline.Clip{AssetID: "a", Start: 0, End: 1, Position: float64(i)},
		})
		resp := decodeEdit(t, rr)
		ids = append(ids, resp.Timeline.Clips[len(resp.Timeline.Clips)-1].ID)
	}

	rr := env.do(t, http.MethodPut, "/projects/"+projectID+"/clips/order", ReorderClipsRequest{
		IDs: []string{ids[2], ids[0], ids[1]},
	})
	resp := decodeEdit(t, rr)
	if !resp.Changed {
		t.Fatal("reorder reported changed = false")
	}
	got := []string{resp.Timeline.Clips[0].ID, resp.Timeline.Clips[1].ID, resp.Timeline.Clips[2].ID}
	want := []string{ids[2], ids[0], ids[1]}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReorderClips_MissingIDs(t *testing.T) {
	env := setupTestEnv(t)
	projectID := env.createProject(t, "ordering")

	rr := env.do(t, http.MethodPut, "/projects/"+projectID+"/clips/order", map[string]interface{}{})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestDuplicateAndSelection_OverHTTP(t *testing.T) {
	env := setupTestEnv(t)
	projectID := env.createProject(t, "selection")

	rr := env.do(t, http.MethodPost, "/projects/"+projectID+"/clips", AddClipRequest{
		Clip: timeline.Clip{AssetID: "a", Start: 0, End: 2},
	})
	clipID := decodeEdit(t, rr).Timeline.Clips[0].ID

	rr = env.do(t, http.MethodPost, "/projects/"+projectID+"/clips/"+clipID+"/duplicate", nil)
	resp := decodeEdit(t, rr)
	if len(resp.Timeline.Clips) != 2 {
		t.Fatalf("clips = %d, want 2", len(resp.Timeline.Clips))
	}
	dupID := resp.Timeline.Clips[1].ID
	if len(resp.Selection) != 1 || resp.Selection[0] != dupID {
		t.Fatalf("selection = %v, want [%s]", resp.Selection, dupID)
	}

	rr = env.do(t, http.MethodPost, "/projects/"+projectID+"/selection", SelectClipRequest{ID: clipID, Additive: true})
	resp = decodeEdit(t, rr)
	if len(resp.Selection) != 2 {
		t.Fatalf("selection = %v, want both clips", resp.Selection)
	}
}

func TestSetTimeline_RoundTrip(t *testing.T) {
	env := setupTestEnv(t)
	projectID := env.createProject(t, "roundtrip")

	t1 := timeline.New(projectID, timeline.Output{Width: 1280, Height: 720, FPS: 30, Format: "mp4"})
	t1.Clips = []timeline.Clip{{ID: "c1", AssetID: "a", Start: 0, End: 3}}

	rr := env.do(t, http.MethodPut, "/projects/"+projectID+"/timeline", SetTimelineRequest{Timeline: t1})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeEdit(t, rr)
	if len(resp.Timeline.Clips) != 1 || resp.Timeline.Clips[0].ID != "c1" {
		t.Fatalf("loaded timeline clips = %+v", resp.Timeline.Clips)
	}
	if resp.HistoryLen != 1 || resp.HistoryIndex != 0 {
		t.Errorf("history after load = (%d, %d), want (1, 0)", resp.HistoryLen, resp.HistoryIndex)
	}
}

func TestDeleteProject_EvictsSession(t *testing.T) {
	env := setupTestEnv(t)
	projectID := env.createProject(t, "doomed")

	rr := env.do(t, http.MethodDelete, "/projects/"+projectID, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want %d", rr.Code, http.StatusNoContent)
	}

	rr = env.do(t, http.MethodGet, "/projects/"+projectID+"/timeline", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("timeline after delete status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestFolderAndAssetRoutes(t *testing.T) {
	env := setupTestEnv(t)

	dir := t.TempDir()
	writeVideoFixture(t, dir, "a.mp4")
	writeVideoFixture(t, dir, "b.mov")

	rr := env.do(t, http.MethodPost, "/assets/folders", AddFolderRequest{Path: dir})
	if rr.Code != http.StatusCreated {
		t.Fatalf("add folder status = %d: %s", rr.Code, rr.Body.String())
	}
	var added AddFolderResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &added); err != nil {
		t.Fatalf("failed to decode add folder response: %v", err)
	}
	if added.Imported != 2 {
		t.Fatalf("imported = %d, want 2", added.Imported)
	}

	rr = env.do(t, http.MethodGet, "/assets", nil)
	var assets AssetsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &assets); err != nil {
		t.Fatalf("failed to decode assets: %v", err)
	}
	if len(assets.Assets) != 2 {
		t.Fatalf("assets = %d, want 2", len(assets.Assets))
	}

	rr = env.do(t, http.MethodPut, "/assets/"+assets.Assets[0].ID+"/duration", SetAssetDurationRequest{DurationS: 12.5})
	if rr.Code != http.StatusOK {
		t.Fatalf("set duration status = %d: %s", rr.Code, rr.Body.String())
	}
	var updated AssetResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &updated); err != nil {
		t.Fatalf("failed to decode asset: %v", err)
	}
	if updated.DurationS == nil || *updated.DurationS != 12.5 {
		t.Errorf("duration = %v, want 12.5", updated.DurationS)
	}

	rr = env.do(t, http.MethodPut, "/assets/"+assets.Assets[0].ID+"/duration", SetAssetDurationRequest{DurationS: -1})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("negative duration status = %d, want %d", rr.Code, http.StatusBadRequest)
	}

	rr = env.do(t, http.MethodDelete, "/assets/folders/"+added.FolderID, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete folder status = %d, want %d", rr.Code, http.StatusNoContent)
	}

	rr = env.do(t, http.MethodGet, "/assets", nil)
	if err := json.Unmarshal(rr.Body.Bytes(), &assets); err != nil {
		t.Fatalf("failed to decode assets: %v", err)
	}
	if len(assets.Assets) != 0 {
		t.Errorf("assets after folder removal = %d, want 0", len(assets.Assets))
	}
}
