package sync

import (
	"fmt"

	"drive-manager/feature/drive/models"
	"drive-manager/feature/drive/store"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service runs reconciliation passes for one owner. Every pass is stateless
// and convergent: re-running after any interruption levels metadata and
// store without needing persisted progress.
type Service struct {
	st      *store.Store
	db      *gorm.DB
	logger  *zap.Logger
	ownerID string
}

// NewService creates a reconciliation service scoped to one owner namespace.
func NewService(st *store.Store, db *gorm.DB, logger *zap.Logger, ownerID string) *Service {
	return &Service{st: st, db: db, logger: logger, ownerID: ownerID}
}

// EnsureFolderChain walks the path from the root down, upserting any missing
// folder records and bumping parent folder counts for each one created.
// The seen map deduplicates lookups within one pass; the (owner, path)
// unique index makes concurrent passes safe.
func EnsureFolderChain(db *gorm.DB, ownerID, path string, seen map[string]*models.FolderRecord) (int, *models.FolderRecord, error) {
	path = store.NormalizePath(path)
	if rec, hit := seen[path]; hit {
		return 0, rec, nil
	}

	if path == models.RootPath {
		root, _, err := models.EnsureRootFolder(db, ownerID)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to ensure root folder: %w", err)
		}
		seen[path] = root
		return 0, root, nil
	}

	createdCount, parent, err := EnsureFolderChain(db, ownerID, store.ParentPath(path), seen)
	if err != nil {
		return createdCount, nil, err
	}

	rec, err := models.FolderByPath(db, ownerID, path)
	if err != nil {
		return createdCount, nil, fmt.Errorf("failed to look up folder %s: %w", path, err)
	}
	if rec == nil {
		rec = &models.FolderRecord{
			Name:           store.BaseName(path),
			OwnerID:        ownerID,
			ParentFolderID: &parent.ID,
			Path:           path,
		}
		created, err := models.UpsertFolder(db, rec)
		if err != nil {
			return createdCount, nil, fmt.Errorf("failed to create folder %s: %w", path, err)
		}
		if created {
			createdCount++
			if err := models.AddFolderCounts(db, ownerID, parent.Path, 0, 1, 0); err != nil {
				return createdCount, nil, fmt.Errorf("failed to bump folder count for %s: %w", parent.Path, err)
			}
		} else {
			// Lost an upsert race; fetch the winner.
			rec, err = models.FolderByPath(db, ownerID, path)
			if err != nil || rec == nil {
				return createdCount, nil, fmt.Errorf("failed to reload folder %s: %w", path, err)
			}
		}
	}

	seen[path] = rec
	return createdCount, rec, nil
}
