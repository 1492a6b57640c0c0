package drive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"drive-manager/core/cache"
	"drive-manager/core/storage"
	"drive-manager/feature/drive/models"
	"drive-manager/feature/drive/store"
	"drive-manager/feature/drive/sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Service is the virtual-directory engine: folder emulation, cached listing
// and search, and metadata/store reconciliation over per-owner namespaces.
type Service struct {
	pool      *storage.Pool
	db        *gorm.DB
	cache     *cache.Cache
	logger    *zap.Logger
	listTTL   time.Duration
	searchTTL time.Duration
	flight    singleflight.Group
}

// Options tunes caching behavior.
type Options struct {
	// ListTTL is the cache TTL for directory listings.
	ListTTL time.Duration
	// SearchTTL is the cache TTL for search results.
	SearchTTL time.Duration
}

// NewService creates a new drive service. The db handle is optional; without
// it the engine still manages store objects but keeps no metadata records.
func NewService(pool *storage.Pool, db *gorm.DB, c *cache.Cache, logger *zap.Logger, opts Options) *Service {
	if opts.ListTTL <= 0 {
		opts.ListTTL = 2 * time.Minute
	}
	if opts.SearchTTL <= 0 {
		opts.SearchTTL = time.Minute
	}
	return &Service{
		pool:      pool,
		db:        db,
		cache:     c,
		logger:    logger,
		listTTL:   opts.ListTTL,
		searchTTL: opts.SearchTTL,
	}
}

// storeFor resolves the owner's storage client from the pool.
func (s *Service) storeFor(ctx context.Context, ownerID string) (*store.Store, error) {
	client, bucket, err := s.pool.ClientFor(ctx, ownerID)
	if err != nil {
		if errors.Is(err, storage.ErrNoCredentials) {
			return nil, fmt.Errorf("%w: owner %s", models.ErrConfigurationMissing, ownerID)
		}
		return nil, err
	}
	return store.New(client, bucket), nil
}

// syncFor builds a reconciliation service scoped to one owner.
func (s *Service) syncFor(ctx context.Context, ownerID string) (*sync.Service, error) {
	st, err := s.storeFor(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return sync.NewService(st, s.db, s.logger, ownerID), nil
}

// invalidateListings drops cached listings touching the given owner paths
// plus the owner's search results.
func (s *Service) invalidateListings(ownerID string, paths ...string) {
	for _, path := range paths {
		s.cache.Invalidate(cache.Fingerprint("list", ownerID, path))
	}
	s.cache.Invalidate(cache.Fingerprint("search", ownerID))
}

// ok wraps a successful outcome in the uniform operation result shape.
func ok(message string, data any) *models.OperationResult {
	return &models.OperationResult{Success: true, Message: message, Data: data}
}

// fail wraps an error in the uniform operation result shape.
func fail(message string, err error) *models.OperationResult {
	return &models.OperationResult{Success: false, Message: fmt.Sprintf("%s: %v", message, err)}
}

// syncOutcome converts reconciliation stats into an operation result:
// success requires zero errors across all phases, but partial results are
// always returned.
func syncOutcome(operation string, stats models.SyncStats) *models.OperationResult {
	res := &models.OperationResult{Stats: &stats}
	if len(stats.Errors) == 0 {
		res.Success = true
		res.Message = fmt.Sprintf("%s completed", operation)
	} else {
		res.Message = fmt.Sprintf("%s completed with %d errors", operation, len(stats.Errors))
	}
	return res
}

// CreateFolder creates a virtual folder under parentPath.
func (s *Service) CreateFolder(ctx context.Context, ownerID, name, parentPath string) *models.OperationResult {
	folder, err := s.createFolder(ctx, ownerID, name, parentPath)
	if err != nil {
		return fail("failed to create folder", err)
	}
	return ok(fmt.Sprintf("folder %s created", folder.Path), folder)
}

// DeleteFolder removes a virtual folder, everything under it, and the
// corresponding metadata records.
func (s *Service) DeleteFolder(ctx context.Context, ownerID, path string) *models.OperationResult {
	deleted, err := s.deleteFolder(ctx, ownerID, path)
	if err != nil {
		return fail("failed to delete folder", err)
	}
	return ok(fmt.Sprintf("deleted %d objects under %s", deleted, store.NormalizePath(path)),
		map[string]any{"deleted_count": deleted})
}

// RenameFolder renames a virtual folder via copy-then-delete.
func (s *Service) RenameFolder(ctx context.Context, ownerID, oldPath, newName string) *models.OperationResult {
	newPath, moved, err := s.renameFolder(ctx, ownerID, oldPath, newName)
	if err != nil {
		return fail("failed to rename folder", err)
	}
	return ok(fmt.Sprintf("renamed %s to %s", store.NormalizePath(oldPath), newPath),
		map[string]any{"new_path": newPath, "objects_moved": moved})
}

// ListFiles returns one page of the directory at path.
func (s *Service) ListFiles(ctx context.Context, ownerID, path string, opts ListOptions) *models.OperationResult {
	result, err := s.listFiles(ctx, ownerID, path, opts)
	if err != nil {
		return fail("failed to list files", err)
	}
	return ok(fmt.Sprintf("listed %s", result.Path), result)
}

// SearchFiles searches the owner's whole namespace by file name.
func (s *Service) SearchFiles(ctx context.Context, ownerID, query string, opts SearchOptions) *models.OperationResult {
	result, err := s.searchFiles(ctx, ownerID, query, opts)
	if err != nil {
		return fail("failed to search files", err)
	}
	return ok(fmt.Sprintf("found %d matches", len(result.Matches)), result)
}

// GetStorageStats aggregates true store usage for the owner.
func (s *Service) GetStorageStats(ctx context.Context, ownerID string) *models.OperationResult {
	stats, err := s.storageStats(ctx, ownerID)
	if err != nil {
		return fail("failed to compute storage stats", err)
	}
	return ok(fmt.Sprintf("%d objects, %d bytes", stats.TotalObjects, stats.TotalSize), stats)
}

// SyncUserFiles runs forward verification: every metadata record is probed
// against the store, and records whose backing object vanished are removed.
func (s *Service) SyncUserFiles(ctx context.Context, ownerID string) *models.OperationResult {
	svc, err := s.syncFor(ctx, ownerID)
	if err != nil {
		return fail("failed to start sync", err)
	}
	return syncOutcome("file verification", svc.VerifyFiles(ctx))
}

// ImportOrphanedS3Files runs reverse import: store objects unknown to the
// metadata database become records, with intermediate folders reconstructed.
func (s *Service) ImportOrphanedS3Files(ctx context.Context, ownerID string) *models.OperationResult {
	svc, err := s.syncFor(ctx, ownerID)
	if err != nil {
		return fail("failed to start import", err)
	}
	return syncOutcome("orphan import", svc.ImportFiles(ctx))
}

// SyncFoldersToStore creates a marker object for every folder record that
// lacks one.
func (s *Service) SyncFoldersToStore(ctx context.Context, ownerID string) *models.OperationResult {
	svc, err := s.syncFor(ctx, ownerID)
	if err != nil {
		return fail("failed to start folder push", err)
	}
	return syncOutcome("folder marker push", svc.PushFolderMarkers(ctx))
}

// SyncFoldersFromStore imports folder records for marker objects unknown to
// the metadata database.
func (s *Service) SyncFoldersFromStore(ctx context.Context, ownerID string) *models.OperationResult {
	svc, err := s.syncFor(ctx, ownerID)
	if err != nil {
		return fail("failed to start folder import", err)
	}
	return syncOutcome("folder marker import", svc.ImportFolderMarkers(ctx))
}

// PerformFullSync runs every reconciliation phase for the owner.
func (s *Service) PerformFullSync(ctx context.Context, ownerID string) *models.OperationResult {
	svc, err := s.syncFor(ctx, ownerID)
	if err != nil {
		return fail("failed to start full sync", err)
	}
	return syncOutcome("full sync", svc.FullSync(ctx))
}

// PerformConsistencyCheck runs the cheaper diagnostic variant: forward
// verification plus the orphan report.
func (s *Service) PerformConsistencyCheck(ctx context.Context, ownerID string) *models.OperationResult {
	svc, err := s.syncFor(ctx, ownerID)
	if err != nil {
		return fail("failed to start consistency check", err)
	}
	return syncOutcome("consistency check", svc.ConsistencyCheck(ctx))
}
