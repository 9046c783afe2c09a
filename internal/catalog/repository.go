package catalog

import (
	"context"
	"database/sql"
	"time"
)

type Repository interface {
	CreateFolder(ctx context.Context, folder *Folder) error
	GetFolder(ctx context.Context, id string) (*Folder, error)
	GetFolderByPath(ctx context.Context, path string) (*Folder, error)
	ListFolders(ctx context.Context) ([]*Folder, error)
	DeleteFolder(ctx context.Context, id string) error
	UpdateFolderPresent(ctx context.Context, id string, present bool) error

	UpsertAsset(ctx context.Context, asset *Asset) error
	GetAsset(ctx context.Context, id string) (*Asset, error)
	ListAssets(ctx context.Context) ([]*Asset, error)
	GetAssetsByFolder(ctx context.Context, folderID string) ([]*Asset, error)
	DeleteAsset(ctx context.Context, id string) error
	DeleteAssetsByFolder(ctx context.Context, folderID string) error
	UpdateAssetDuration(ctx context.Context, id string, durationS *float64) error
	CountAssets(ctx context.Context) (int, error)
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) CreateFolder(ctx context.Context, f *Folder) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO folders (id, path, display_name, present, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, f.ID, f.Path, f.DisplayName, boolToInt(f.Present), f.CreatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) GetFolder(ctx context.Context, id string) (*Folder, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, path, display_name, present, created_at
		FROM folders WHERE id = ?
	`, id)
	return scanFolder(row)
}

func (r *SQLiteRepository) GetFolderByPath(ctx context.Context, path string) (*Folder, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, path, display_name, present, created_at
		FROM folders WHERE path = ?
	`, path)
	return scanFolder(row)
}

func scanFolder(row *sql.Row) (*Folder, error) {
	var f Folder
	var present int
	var createdAt string

	err := row.Scan(&f.ID, &f.Path, &f.DisplayName, &present, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	f.Present = present == 1
	f.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &f, nil
}

func (r *SQLiteRepository) ListFolders(ctx context.Context) ([]*Folder, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, path, display_name, present, created_at
		FROM folders ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var folders []*Folder
	for rows.Next() {
		var f Folder
		var present int
		var createdAt string

		if err := rows.Scan(&f.ID, &f.Path, &f.DisplayName, &present, &createdAt); err != nil {
			return nil, err
		}
		f.Present = present == 1
		f.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		folders = append(folders, &f)
	}
	return folders, rows.Err()
}

func (r *SQLiteRepository) DeleteFolder(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM folders WHERE id = ?", id)
	return err
}

func (r *SQLiteRepository) UpdateFolderPresent(ctx context.Context, id string, present bool) error {
	_, err := r.db.ExecContext(ctx, "UPDATE folders SET present = ? WHERE id = ?", boolToInt(present), id)
	return err
}

func (r *SQLiteRepository) UpsertAsset(ctx context.Context, a *Asset) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO assets (id, folder_id, path, filename, mime, size, duration_s, fingerprint, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(folder_id, path) DO UPDATE SET
			size = excluded.size,
			mime = excluded.mime,
			fingerprint = excluded.fingerprint
	`, a.ID, a.FolderID, a.Path, a.Filename, a.Mime, a.Size, nullFloat(a.DurationS), a.Fingerprint,
		a.CreatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) GetAsset(ctx context.Context, id string) (*Asset, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, folder_id, path, filename, mime, size, duration_s, fingerprint, created_at
		FROM assets WHERE id = ?
	`, id)

	var a Asset
	var durationS sql.NullFloat64
	var createdAt string
	err := row.Scan(&a.ID, &a.FolderID, &a.Path, &a.Filename, &a.Mime, &a.Size, &durationS, &a.Fingerprint, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if durationS.Valid {
		a.DurationS = &durationS.Float64
	}
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &a, nil
}

func (r *SQLiteRepository) ListAssets(ctx context.Context) ([]*Asset, error) {
	return r.queryAssets(ctx, `
		SELECT id, folder_id, path, filename, mime, size, duration_s, fingerprint, created_at
		FROM assets ORDER BY created_at DESC
	`)
}

func (r *SQLiteRepository) GetAssetsByFolder(ctx context.Context, folderID string) ([]*Asset, error) {
	return r.queryAssets(ctx, `
		SELECT id, folder_id, path, filename, mime, size, duration_s, fingerprint, created_at
		FROM assets WHERE folder_id = ? ORDER BY filename
	`, folderID)
}

func (r *SQLiteRepository) queryAssets(ctx context.Context, query string, args ...any) ([]*Asset, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []*Asset
	for rows.Next() {
		var a Asset
		var durationS sql.NullFloat64
		var createdAt string
		if err := rows.Scan(&a.ID, &a.FolderID, &a.Path, &a.Filename, &a.Mime, &a.Size, &durationS, &a.Fingerprint, &createdAt); err != nil {
			return nil, err
		}
		if durationS.Valid {
			d := durationS.Float64
			a.DurationS = &d
		}
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		assets = append(assets, &a)
	}
	return assets, rows.Err()
}

func (r *SQLiteRepository) DeleteAsset(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM assets WHERE id = ?", id)
	return err
}

func (r *SQLiteRepository) DeleteAssetsByFolder(ctx context.Context, folderID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM assets WHERE folder_id = ?", folderID)
	return err
}

func (r *SQLiteRepository) UpdateAssetDuration(ctx context.Context, id string, durationS *float64) error {
	_, err := r.db.ExecContext(ctx, "UPDATE assets SET duration_s = ? WHERE id = ?", nullFloat(durationS), id)
	return err
}

func (r *SQLiteRepository) CountAssets(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM assets").Scan(&count)
	return count, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
