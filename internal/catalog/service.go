package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cutroom/cutroom-agent/internal/logging"
)

const fingerprintSize = 64 * 1024

type Service interface {
	AddFolder(ctx context.Context, path, displayName string) (*Folder, error)
	RemoveFolder(ctx context.Context, id string) error
	GetFolders(ctx context.Context) ([]*Folder, error)
	ScanFolder(ctx context.Context, folderID string) (int, error)
	GetAsset(ctx context.Context, id string) (*Asset, error)
	GetAssets(ctx context.Context) ([]*Asset, error)
	RemoveAsset(ctx context.Context, id string) error
	SetAssetDuration(ctx context.Context, id string, durationS float64) (*Asset, error)
	CountAssets(ctx context.Context) (int, error)
}

type service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{repo: repo, logger: logger}
}

// AddFolder registers a directory as an asset source. Registering an already
// known path returns the existing folder.
func (s *service) AddFolder(ctx context.Context, path, displayName string) (*Folder, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory")
	}

	existing, err := s.repo.GetFolderByPath(ctx, absPath)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if displayName == "" {
		displayName = filepath.Base(absPath)
	}

	folder := &Folder{
		ID:          NewID(),
		Path:        absPath,
		DisplayName: displayName,
		Present:     true,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.CreateFolder(ctx, folder); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("asset folder added", "folder_id", folder.ID, "path", logging.SanitizePath(absPath))
	}
	return folder, nil
}

func (s *service) RemoveFolder(ctx context.Context, id string) error {
	if err := s.repo.DeleteAssetsByFolder(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteFolder(ctx, id)
}

func (s *service) GetFolders(ctx context.Context) ([]*Folder, error) {
	return s.repo.ListFolders(ctx)
}

// ScanFolder walks the folder tree and upserts every recognized video file as
// an asset. It returns the number of files imported. Individual file failures
// are logged and skipped, not fatal.
func (s *service) ScanFolder(ctx context.Context, folderID string) (int, error) {
	folder, err := s.repo.GetFolder(ctx, folderID)
	if err != nil {
		return 0, err
	}
	if folder == nil {
		return 0, fmt.Errorf("folder not found")
	}

	var files []string
	err = filepath.WalkDir(folder.Path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if !d.IsDir() && IsVideoFile(d.Name()) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	imported := 0
	for _, filePath := range files {
		select {
		case <-ctx.Done():
			return imported, ctx.Err()
		default:
		}

		if err := s.importFile(ctx, folder.ID, filePath); err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to import file", "path", filePath, "error", err)
			}
			continue
		}
		imported++
	}

	if s.logger != nil {
		s.logger.Info("folder scan completed", "folder_id", folderID, "imported", imported)
	}
	return imported, nil
}

func (s *service) importFile(ctx context.Context, folderID, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	fingerprint, err := computeFingerprint(path)
	if err != nil {
		return err
	}

	asset := &Asset{
		ID:          NewID(),
		FolderID:    folderID,
		Path:        path,
		Filename:    filepath.Base(path),
		Mime:        MimeForFile(path),
		Size:        info.Size(),
		Fingerprint: fingerprint,
		CreatedAt:   time.Now(),
	}
	return s.repo.UpsertAsset(ctx, asset)
}

func (s *service) GetAsset(ctx context.Context, id string) (*Asset, error) {
	return s.repo.GetAsset(ctx, id)
}

func (s *service) GetAssets(ctx context.Context) ([]*Asset, error) {
	return s.repo.ListAssets(ctx)
}

func (s *service) RemoveAsset(ctx context.Context, id string) error {
	return s.repo.DeleteAsset(ctx, id)
}

// SetAssetDuration records the probed source duration for an asset. The
// value must be a finite non-negative number of seconds; the timeline engine
// relies on this hint for trim clamping.
func (s *service) SetAssetDuration(ctx context.Context, id string, durationS float64) (*Asset, error) {
	if math.IsNaN(durationS) || math.IsInf(durationS, 0) || durationS < 0 {
		return nil, fmt.Errorf("duration must be a finite non-negative number of seconds")
	}

	asset, err := s.repo.GetAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, fmt.Errorf("asset not found")
	}

	if err := s.repo.UpdateAssetDuration(ctx, id, &durationS); err != nil {
		return nil, err
	}
	asset.DurationS = &durationS

	if s.logger != nil {
		s.logger.Info("asset duration set", "asset_id", id, "duration_s", durationS)
	}
	return asset, nil
}

func (s *service) CountAssets(ctx context.Context) (int, error) {
	return s.repo.CountAssets(ctx)
}

// computeFingerprint hashes the first 64KB of the file plus its size.
func computeFingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.CopyN(h, f, fingerprintSize); err != nil && err != io.EOF {
		return "", err
	}

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	fmt.Fprintf(h, "%d", info.Size())

	return hex.EncodeToString(h.Sum(nil)), nil
}
