package sync

import (
	"context"
	"fmt"
	gosync "sync"
	"time"

	"drive-manager/feature/drive/models"
	"drive-manager/feature/drive/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// VerifyFiles is the forward pass: probe every file record's storage key and
// remove records whose backing object is gone, rolling the parent folder's
// counters back. Probe failures are tallied without touching the record, so a
// flaky store never causes metadata loss.
func (s *Service) VerifyFiles(ctx context.Context) models.SyncStats {
	var stats models.SyncStats
	if s.db == nil {
		stats.Errors = append(stats.Errors, "file verification requires the metadata database")
		return stats
	}

	files, err := models.ListFiles(s.db, s.ownerID)
	if err != nil {
		stats.Errors = append(stats.Errors, fmt.Sprintf("list file records: %v", err))
		return stats
	}

	for _, file := range files {
		exists, err := s.st.Exists(ctx, file.StorageKey)
		if err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("probe %s: %v", file.StorageKey, err))
			continue
		}
		if exists {
			stats.FilesVerified++
			continue
		}

		if err := models.DeleteFile(s.db, file.ID); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("remove record %s: %v", file.StorageKey, err))
			continue
		}
		stats.FilesRemoved++
		parent := store.ParentPath(file.Path)
		if err := models.AddFolderCounts(s.db, s.ownerID, parent, -1, 0, -file.Size); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("roll back counters for %s: %v", parent, err))
		}
		s.logger.Info("Removed stale file record",
			zap.String("owner", s.ownerID),
			zap.String("storage_key", file.StorageKey))
	}

	return stats
}

// ImportFiles is the reverse pass: every non-marker object in the namespace
// that no file record tracks becomes a record. Intermediate folder records
// are reconstructed from the object's key path and parent counters are bumped
// per import.
func (s *Service) ImportFiles(ctx context.Context) models.SyncStats {
	var stats models.SyncStats
	if s.db == nil {
		stats.Errors = append(stats.Errors, "file import requires the metadata database")
		return stats
	}

	objects, err := s.st.ListAll(ctx, store.OwnerPrefix(s.ownerID))
	if err != nil {
		stats.Errors = append(stats.Errors, fmt.Sprintf("enumerate namespace: %v", err))
		return stats
	}

	known, err := s.knownStorageKeys()
	if err != nil {
		stats.Errors = append(stats.Errors, err.Error())
		return stats
	}

	seen := map[string]*models.FolderRecord{}
	for _, obj := range objects {
		if store.IsMarker(obj.Key) {
			continue
		}
		if known[obj.Key] {
			continue
		}

		filePath := store.PathFromKey(s.ownerID, obj.Key)
		folderPath := store.ParentPath(filePath)

		created, parent, err := EnsureFolderChain(s.db, s.ownerID, folderPath, seen)
		stats.FoldersCreated += created
		if err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("rebuild folder chain for %s: %v", obj.Key, err))
			continue
		}

		name := store.RecoverName(obj.Key, nil)
		mimeType := obj.ContentType
		if info, found, statErr := s.st.Stat(ctx, obj.Key); statErr == nil && found {
			name = store.RecoverName(obj.Key, info.UserMetadata)
			if info.ContentType != "" {
				mimeType = info.ContentType
			}
		}

		record := &models.FileRecord{
			Name:           name,
			OriginalName:   name,
			Size:           obj.Size,
			MimeType:       mimeType,
			StorageKey:     obj.Key,
			OwnerID:        s.ownerID,
			ParentFolderID: &parent.ID,
			Path:           filePath,
		}
		inserted, err := models.CreateFileIfAbsent(s.db, record)
		if err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("import %s: %v", obj.Key, err))
			continue
		}
		if !inserted {
			continue // another pass won the upsert
		}

		stats.FilesImported++
		if err := models.AddFolderCounts(s.db, s.ownerID, folderPath, 1, 0, obj.Size); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("bump counters for %s: %v", folderPath, err))
		}
		s.logger.Info("Imported orphaned object",
			zap.String("owner", s.ownerID),
			zap.String("storage_key", obj.Key),
			zap.String("path", filePath))
	}

	return stats
}

// PushFolderMarkers walks every folder record and writes a marker object for
// each one whose marker is missing from the store.
func (s *Service) PushFolderMarkers(ctx context.Context) models.SyncStats {
	var stats models.SyncStats
	if s.db == nil {
		stats.Errors = append(stats.Errors, "folder marker push requires the metadata database")
		return stats
	}

	folders, err := models.ListFolders(s.db, s.ownerID)
	if err != nil {
		stats.Errors = append(stats.Errors, fmt.Sprintf("list folder records: %v", err))
		return stats
	}

	for _, folder := range folders {
		if folder.Path == models.RootPath {
			continue // the root has no marker, the owner prefix is implicit
		}

		marker := store.PrefixFor(s.ownerID, folder.Path)
		exists, err := s.st.Exists(ctx, marker)
		if err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("probe marker %s: %v", marker, err))
			continue
		}
		if exists {
			continue
		}

		err = s.st.PutMarker(ctx, marker, map[string]string{
			store.MetaFolderName: folder.Name,
			store.MetaOwner:      s.ownerID,
			store.MetaCreatedAt:  folder.CreatedAt.UTC().Format(time.RFC3339),
		})
		if err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("write marker %s: %v", marker, err))
			continue
		}
		stats.MarkersCreated++
		s.logger.Info("Created missing folder marker",
			zap.String("owner", s.ownerID),
			zap.String("path", folder.Path))
	}

	return stats
}

// ImportFolderMarkers scans the namespace for marker objects and materializes
// folder records for the ones metadata does not know, parent chains included.
func (s *Service) ImportFolderMarkers(ctx context.Context) models.SyncStats {
	var stats models.SyncStats
	if s.db == nil {
		stats.Errors = append(stats.Errors, "folder marker import requires the metadata database")
		return stats
	}

	ownerPrefix := store.OwnerPrefix(s.ownerID)
	objects, err := s.st.ListAll(ctx, ownerPrefix)
	if err != nil {
		stats.Errors = append(stats.Errors, fmt.Sprintf("enumerate namespace: %v", err))
		return stats
	}

	seen := map[string]*models.FolderRecord{}
	for _, obj := range objects {
		if !store.IsMarker(obj.Key) || obj.Key == ownerPrefix {
			continue
		}

		path := store.PathFromKey(s.ownerID, obj.Key)
		existing, err := models.FolderByPath(s.db, s.ownerID, path)
		if err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("look up folder %s: %v", path, err))
			continue
		}
		if existing != nil {
			seen[path] = existing
			continue
		}

		created, rec, err := EnsureFolderChain(s.db, s.ownerID, path, seen)
		stats.FoldersCreated += created
		if err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("import folder %s: %v", path, err))
			continue
		}
		if rec != nil {
			stats.FoldersImported++
			s.logger.Info("Imported folder marker",
				zap.String("owner", s.ownerID),
				zap.String("path", path))
		}
	}

	return stats
}

// FindOrphans reports store keys with no metadata counterpart: non-marker
// objects without a file record and markers without a folder record. It is
// diagnostic only and mutates nothing.
func (s *Service) FindOrphans(ctx context.Context) models.SyncStats {
	var stats models.SyncStats
	if s.db == nil {
		stats.Errors = append(stats.Errors, "orphan detection requires the metadata database")
		return stats
	}

	ownerPrefix := store.OwnerPrefix(s.ownerID)
	objects, err := s.st.ListAll(ctx, ownerPrefix)
	if err != nil {
		stats.Errors = append(stats.Errors, fmt.Sprintf("enumerate namespace: %v", err))
		return stats
	}

	knownFiles, err := s.knownStorageKeys()
	if err != nil {
		stats.Errors = append(stats.Errors, err.Error())
		return stats
	}

	knownFolders := map[string]bool{}
	folders, err := models.ListFolders(s.db, s.ownerID)
	if err != nil {
		stats.Errors = append(stats.Errors, fmt.Sprintf("list folder records: %v", err))
		return stats
	}
	for _, folder := range folders {
		knownFolders[folder.Path] = true
	}

	for _, obj := range objects {
		if store.IsMarker(obj.Key) {
			if obj.Key == ownerPrefix {
				continue
			}
			if !knownFolders[store.PathFromKey(s.ownerID, obj.Key)] {
				stats.OrphanKeys = append(stats.OrphanKeys, obj.Key)
			}
			continue
		}
		if !knownFiles[obj.Key] {
			stats.OrphanKeys = append(stats.OrphanKeys, obj.Key)
		}
	}

	return stats
}

// FullSync runs every reconciliation phase. Forward verification and marker
// push touch disjoint state and run concurrently; the import phases follow so
// reconstructed folders are visible before orphan detection runs last.
func (s *Service) FullSync(ctx context.Context) models.SyncStats {
	start := time.Now()

	var stats models.SyncStats
	var mu gosync.Mutex
	merge := func(phase models.SyncStats) {
		mu.Lock()
		stats.Merge(phase)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		merge(s.VerifyFiles(gctx))
		return nil
	})
	g.Go(func() error {
		merge(s.PushFolderMarkers(gctx))
		return nil
	})
	_ = g.Wait()

	merge(s.ImportFolderMarkers(ctx))
	merge(s.ImportFiles(ctx))
	merge(s.FindOrphans(ctx))

	stats.ExecutionTime = time.Since(start).String()
	s.logger.Info("Full sync finished",
		zap.String("owner", s.ownerID),
		zap.Int("files_verified", stats.FilesVerified),
		zap.Int("files_removed", stats.FilesRemoved),
		zap.Int("files_imported", stats.FilesImported),
		zap.Int("folders_imported", stats.FoldersImported),
		zap.Int("markers_created", stats.MarkersCreated),
		zap.Int("orphans", len(stats.OrphanKeys)),
		zap.Int("errors", len(stats.Errors)),
		zap.String("execution_time", stats.ExecutionTime))
	return stats
}

// ConsistencyCheck is the cheap diagnostic pass: forward verification plus
// the orphan report, concurrently. Nothing is imported or pushed.
func (s *Service) ConsistencyCheck(ctx context.Context) models.SyncStats {
	start := time.Now()

	var stats models.SyncStats
	var mu gosync.Mutex
	merge := func(phase models.SyncStats) {
		mu.Lock()
		stats.Merge(phase)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		merge(s.VerifyFiles(gctx))
		return nil
	})
	g.Go(func() error {
		merge(s.FindOrphans(gctx))
		return nil
	})
	_ = g.Wait()

	stats.ExecutionTime = time.Since(start).String()
	return stats
}

func (s *Service) knownStorageKeys() (map[string]bool, error) {
	files, err := models.ListFiles(s.db, s.ownerID)
	if err != nil {
		return nil, fmt.Errorf("list file records: %w", err)
	}
	known := make(map[string]bool, len(files))
	for _, file := range files {
		known[file.StorageKey] = true
	}
	return known, nil
}
