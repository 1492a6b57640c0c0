package drive

import (
	"context"
	"fmt"
	"time"

	"drive-manager/feature/drive/models"
	"drive-manager/feature/drive/store"
	"drive-manager/feature/drive/sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// deleteVerifyAttempts bounds the eventual-consistency re-check loop
	// after a folder delete.
	deleteVerifyAttempts = 5
	// deleteVerifyDelay is the fixed pause between re-checks.
	deleteVerifyDelay = 200 * time.Millisecond
	// renameCopyWorkers bounds parallel per-object copies during a rename.
	renameCopyWorkers = 8
)

// createFolder writes a marker object and the corresponding metadata record.
func (s *Service) createFolder(ctx context.Context, ownerID, name, parentPath string) (*models.FolderRecord, error) {
	sanitized := store.SanitizeName(name)
	if sanitized == "" {
		return nil, fmt.Errorf("%w: folder name %q", models.ErrNameInvalid, name)
	}

	parent := store.NormalizePath(parentPath)
	path := store.JoinPath(parent, sanitized)

	st, err := s.storeFor(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	marker := store.PrefixFor(ownerID, path)
	occupied, err := st.PrefixOccupied(ctx, marker)
	if err != nil {
		return nil, err
	}
	if occupied {
		return nil, fmt.Errorf("%w: folder %s", models.ErrAlreadyExists, path)
	}

	err = st.PutMarker(ctx, marker, map[string]string{
		store.MetaFolderName: sanitized,
		store.MetaOwner:      ownerID,
		store.MetaCreatedAt:  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	folder := &models.FolderRecord{
		Name:    sanitized,
		OwnerID: ownerID,
		Path:    path,
	}
	if s.db != nil {
		seen := map[string]*models.FolderRecord{}
		if _, parentRec, err := sync.EnsureFolderChain(s.db, ownerID, parent, seen); err == nil && parentRec != nil {
			folder.ParentFolderID = &parentRec.ID
			created, err := models.UpsertFolder(s.db, folder)
			if err != nil {
				return nil, fmt.Errorf("failed to record folder %s: %w", path, err)
			}
			if created {
				if err := models.AddFolderCounts(s.db, ownerID, parentRec.Path, 0, 1, 0); err != nil {
					s.logger.Warn("Folder counter update failed",
						zap.String("owner", ownerID), zap.String("path", parentRec.Path), zap.Error(err))
				}
			}
		} else if err != nil {
			return nil, fmt.Errorf("failed to record folder chain for %s: %w", path, err)
		}
	}

	s.invalidateListings(ownerID, parent, path)
	s.logger.Info("Folder created", zap.String("owner", ownerID), zap.String("path", path))
	return folder, nil
}

// deleteFolder removes every object under the folder prefix (marker
// included), purges the matching metadata subtree, and returns the number of
// objects removed. Per-item delete errors never abort the remaining batches.
func (s *Service) deleteFolder(ctx context.Context, ownerID, path string) (int, error) {
	path = store.NormalizePath(path)
	if path == store.Delimiter {
		return 0, fmt.Errorf("%w: cannot delete the root folder", models.ErrNameInvalid)
	}

	st, err := s.storeFor(ctx, ownerID)
	if err != nil {
		return 0, err
	}

	prefix := store.PrefixFor(ownerID, path)
	objects, err := st.ListAll(ctx, prefix)
	if err != nil {
		return 0, err
	}

	keys := make([]string, 0, len(objects))
	markerSeen := false
	for _, obj := range objects {
		keys = append(keys, obj.Key)
		if obj.Key == prefix {
			markerSeen = true
		}
	}
	if !markerSeen {
		// Marker may predate the listing's consistency window; delete it anyway.
		keys = append(keys, prefix)
	}

	removed, itemErrs := st.RemoveKeys(ctx, keys)
	for _, e := range itemErrs {
		s.logger.Warn("Folder delete item failed", zap.String("owner", ownerID), zap.String("detail", e))
	}

	// The store's list-after-delete is eventually consistent; re-check until
	// the prefix reads empty or attempts run out.
	if !s.verifyFolderGone(ctx, st, ownerID, path) {
		if err := st.Remove(ctx, prefix); err != nil {
			s.logger.Warn("Forced marker delete failed", zap.String("key", prefix), zap.Error(err))
		}
		s.logger.Warn("Folder deletion not yet visible, forced marker delete issued",
			zap.String("owner", ownerID),
			zap.String("path", path),
			zap.Error(models.ErrConsistencyTimeout))
	}

	if s.db != nil {
		folder, err := models.FolderByPath(s.db, ownerID, path)
		if err != nil {
			return removed, fmt.Errorf("failed to load folder record: %w", err)
		}
		filesDeleted, foldersDeleted, err := models.DeleteSubtree(s.db, ownerID, path)
		if err != nil {
			return removed, fmt.Errorf("failed to purge metadata subtree: %w", err)
		}
		if folder != nil {
			parent := store.ParentPath(path)
			if err := models.AddFolderCounts(s.db, ownerID, parent, 0, -1, 0); err != nil {
				s.logger.Warn("Folder counter update failed",
					zap.String("owner", ownerID), zap.String("path", parent), zap.Error(err))
			}
		}
		s.logger.Info("Metadata subtree purged",
			zap.String("owner", ownerID),
			zap.String("path", path),
			zap.Int64("files", filesDeleted),
			zap.Int64("folders", foldersDeleted))
	}

	s.invalidateListings(ownerID, path, store.ParentPath(path))
	s.logger.Info("Folder deleted",
		zap.String("owner", ownerID),
		zap.String("path", path),
		zap.Int("removed", removed),
		zap.Int("item_errors", len(itemErrs)))
	return removed, nil
}

// verifyFolderGone re-checks both the folder's own prefix listing and its
// presence in the parent's one-level listing, a fixed number of times.
func (s *Service) verifyFolderGone(ctx context.Context, st *store.Store, ownerID, path string) bool {
	prefix := store.PrefixFor(ownerID, path)
	parentPrefix := store.PrefixFor(ownerID, store.ParentPath(path))

	for attempt := 0; attempt < deleteVerifyAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(deleteVerifyDelay)
		}

		occupied, err := st.PrefixOccupied(ctx, prefix)
		if err != nil || occupied {
			continue
		}

		visible, err := folderVisibleInParent(ctx, st, parentPrefix, prefix)
		if err != nil || visible {
			continue
		}
		return true
	}
	return false
}

// folderVisibleInParent scans the parent's one-level listing for the child
// prefix entry.
func folderVisibleInParent(ctx context.Context, st *store.Store, parentPrefix, childPrefix string) (bool, error) {
	startAfter := ""
	for {
		entries, next, hasMore, err := st.ListPage(ctx, parentPrefix, startAfter, 1000, false)
		if err != nil {
			return false, err
		}
		for _, entry := range entries {
			if entry.Key == childPrefix {
				return true, nil
			}
		}
		if !hasMore {
			return false, nil
		}
		startAfter = next
	}
}

// renameFolder emulates a folder move on a store with no native rename:
// copy every object to the new prefix, batch-delete the old keys, write a
// fresh marker, then rewrite metadata paths. Interruption between the copy
// and delete phases can leave objects duplicated at both prefixes; a re-run
// of full sync converges the metadata afterwards.
func (s *Service) renameFolder(ctx context.Context, ownerID, oldPath, newName string) (string, int, error) {
	sanitized := store.SanitizeName(newName)
	if sanitized == "" {
		return "", 0, fmt.Errorf("%w: folder name %q", models.ErrNameInvalid, newName)
	}

	oldPath = store.NormalizePath(oldPath)
	if oldPath == store.Delimiter {
		return "", 0, fmt.Errorf("%w: cannot rename the root folder", models.ErrNameInvalid)
	}

	parent := store.ParentPath(oldPath)
	newPath := store.JoinPath(parent, sanitized)
	if newPath == oldPath {
		return newPath, 0, nil
	}

	st, err := s.storeFor(ctx, ownerID)
	if err != nil {
		return "", 0, err
	}

	oldPrefix := store.PrefixFor(ownerID, oldPath)
	newPrefix := store.PrefixFor(ownerID, newPath)

	occupied, err := st.PrefixOccupied(ctx, newPrefix)
	if err != nil {
		return "", 0, err
	}
	if occupied {
		return "", 0, fmt.Errorf("%w: folder %s", models.ErrAlreadyExists, newPath)
	}

	objects, err := st.ListAll(ctx, oldPrefix)
	if err != nil {
		return "", 0, err
	}

	// Copy phase: fan out per-object copies, fail before deleting anything.
	g, copyCtx := errgroup.WithContext(ctx)
	g.SetLimit(renameCopyWorkers)
	moved := 0
	oldKeys := make([]string, 0, len(objects))
	for _, obj := range objects {
		oldKeys = append(oldKeys, obj.Key)
		if obj.Key == oldPrefix {
			continue // fresh marker written below
		}
		srcKey := obj.Key
		dstKey := newPrefix + srcKey[len(oldPrefix):]
		moved++
		g.Go(func() error {
			return st.Copy(copyCtx, srcKey, dstKey)
		})
	}
	if err := g.Wait(); err != nil {
		return "", 0, fmt.Errorf("rename copy phase failed: %w", err)
	}

	// Delete phase: old keys including the old marker.
	_, itemErrs := st.RemoveKeys(ctx, oldKeys)
	for _, e := range itemErrs {
		s.logger.Warn("Rename delete item failed", zap.String("owner", ownerID), zap.String("detail", e))
	}

	err = st.PutMarker(ctx, newPrefix, map[string]string{
		store.MetaFolderName: sanitized,
		store.MetaOwner:      ownerID,
		store.MetaCreatedAt:  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", 0, err
	}

	if s.db != nil {
		if err := models.RewritePathPrefix(s.db, ownerID, oldPath, newPath, sanitized); err != nil {
			return "", 0, err
		}
	}

	s.invalidateListings(ownerID, oldPath, newPath, parent)
	s.logger.Info("Folder renamed",
		zap.String("owner", ownerID),
		zap.String("old_path", oldPath),
		zap.String("new_path", newPath),
		zap.Int("objects_moved", moved))
	return newPath, moved, nil
}
