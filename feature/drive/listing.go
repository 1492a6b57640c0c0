package drive

import (
	"context"
	"strconv"
	"strings"

	"drive-manager/core/cache"
	"drive-manager/feature/drive/models"
	"drive-manager/feature/drive/store"
)

// ListOptions controls one directory listing page.
type ListOptions struct {
	// MaxKeys bounds the page size (default 100, cap 1000).
	MaxKeys int
	// ContinuationToken resumes a previous page.
	ContinuationToken string
	// UseCache enables the short-TTL listing cache.
	UseCache bool
	// IncludeMetadata probes each file for its object metadata (original
	// name, content type) instead of relying on the naming convention.
	IncludeMetadata bool
}

// SearchOptions controls a namespace-wide search.
type SearchOptions struct {
	// MaxResults bounds the match count (default 50, cap 1000).
	MaxResults int
	// MimeTypeFilter keeps only files whose content type has this prefix.
	MimeTypeFilter string
	// UseCache enables the short-TTL search result cache.
	UseCache bool
}

// searchPageSize is the store page size used while walking a namespace.
const searchPageSize = 1000

func clampPageSize(n, def, max int) int {
	if n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// listFiles issues one delimiter-bounded listing of the directory at path:
// common prefixes become child folders, direct objects become files.
func (s *Service) listFiles(ctx context.Context, ownerID, path string, opts ListOptions) (*models.ListResult, error) {
	path = store.NormalizePath(path)
	maxKeys := clampPageSize(opts.MaxKeys, 100, 1000)

	key := cache.Fingerprint("list", ownerID, path,
		strconv.Itoa(maxKeys), opts.ContinuationToken, strconv.FormatBool(opts.IncludeMetadata))

	if opts.UseCache {
		if cached, hit := s.cache.Get(key); hit {
			return cached.(*models.ListResult), nil
		}
	}

	// Singleflight keeps a cache miss from stampeding the store.
	result, err, _ := s.flight.Do(key, func() (interface{}, error) {
		return s.buildListing(ctx, ownerID, path, maxKeys, opts)
	})
	if err != nil {
		return nil, err
	}

	listing := result.(*models.ListResult)
	if opts.UseCache {
		s.cache.Set(key, listing, s.listTTL)
	}
	return listing, nil
}

func (s *Service) buildListing(ctx context.Context, ownerID, path string, maxKeys int, opts ListOptions) (*models.ListResult, error) {
	st, err := s.storeFor(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	prefix := store.PrefixFor(ownerID, path)
	entries, nextToken, hasMore, err := st.ListPage(ctx, prefix, opts.ContinuationToken, maxKeys, false)
	if err != nil {
		return nil, err
	}

	result := &models.ListResult{
		Path:        path,
		Breadcrumbs: store.Breadcrumbs(path),
		Folders:     []models.FolderEntry{},
		Files:       []models.FileEntry{},
		HasMore:     hasMore,
		NextToken:   nextToken,
	}

	for _, entry := range entries {
		if entry.Key == prefix {
			continue // the folder's own marker
		}
		childPath := store.PathFromKey(ownerID, entry.Key)

		if store.IsMarker(entry.Key) {
			result.Folders = append(result.Folders, models.FolderEntry{
				Name: store.BaseName(childPath),
				Path: childPath,
			})
			continue
		}

		name := store.RecoverName(entry.Key, nil)
		mimeType := entry.ContentType
		if opts.IncludeMetadata {
			if info, found, statErr := st.Stat(ctx, entry.Key); statErr == nil && found {
				name = store.RecoverName(entry.Key, info.UserMetadata)
				mimeType = info.ContentType
			}
		}

		result.Files = append(result.Files, models.FileEntry{
			Name:         name,
			StorageKey:   entry.Key,
			Path:         store.JoinPath(path, name),
			Size:         entry.Size,
			MimeType:     mimeType,
			LastModified: entry.LastModified,
		})
	}

	return result, nil
}

// searchFiles walks the owner's whole namespace page by page, matching file
// names case-insensitively and exiting early at the result cap.
func (s *Service) searchFiles(ctx context.Context, ownerID, query string, opts SearchOptions) (*models.SearchResult, error) {
	maxResults := clampPageSize(opts.MaxResults, 50, 1000)
	needle := strings.ToLower(strings.TrimSpace(query))

	key := cache.Fingerprint("search", ownerID, needle,
		strconv.Itoa(maxResults), opts.MimeTypeFilter)
	if opts.UseCache {
		if cached, hit := s.cache.Get(key); hit {
			return cached.(*models.SearchResult), nil
		}
	}

	st, err := s.storeFor(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	result := &models.SearchResult{Query: query, Matches: []models.FileEntry{}}
	prefix := store.OwnerPrefix(ownerID)
	startAfter := ""

	for {
		entries, next, hasMore, err := st.ListPage(ctx, prefix, startAfter, searchPageSize, true)
		if err != nil {
			return nil, err
		}

		for _, entry := range entries {
			if store.IsMarker(entry.Key) {
				continue
			}
			name := store.RecoverName(entry.Key, nil)
			if needle != "" && !strings.Contains(strings.ToLower(name), needle) {
				continue
			}

			mimeType := entry.ContentType
			if opts.MimeTypeFilter != "" {
				info, found, statErr := st.Stat(ctx, entry.Key)
				if statErr != nil || !found {
					continue
				}
				mimeType = info.ContentType
				if !strings.HasPrefix(mimeType, opts.MimeTypeFilter) {
					continue
				}
			}

			filePath := store.PathFromKey(ownerID, entry.Key)
			result.Matches = append(result.Matches, models.FileEntry{
				Name:         name,
				StorageKey:   entry.Key,
				Path:         store.JoinPath(store.ParentPath(filePath), name),
				Size:         entry.Size,
				MimeType:     mimeType,
				LastModified: entry.LastModified,
			})
			if len(result.Matches) >= maxResults {
				result.Truncated = true
				break
			}
		}

		if result.Truncated || !hasMore {
			break
		}
		startAfter = next
	}

	if opts.UseCache {
		s.cache.Set(key, result, s.searchTTL)
	}
	return result, nil
}

// listAllFiles enumerates every file object in the owner's namespace across
// all pages. It bypasses the cache so reconciliation and statistics see true
// current state.
func (s *Service) listAllFiles(ctx context.Context, ownerID string) ([]models.FileEntry, error) {
	st, err := s.storeFor(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	objects, err := st.ListAll(ctx, store.OwnerPrefix(ownerID))
	if err != nil {
		return nil, err
	}

	files := make([]models.FileEntry, 0, len(objects))
	for _, obj := range objects {
		if store.IsMarker(obj.Key) {
			continue
		}
		name := store.RecoverName(obj.Key, nil)
		filePath := store.PathFromKey(ownerID, obj.Key)
		files = append(files, models.FileEntry{
			Name:         name,
			StorageKey:   obj.Key,
			Path:         store.JoinPath(store.ParentPath(filePath), name),
			Size:         obj.Size,
			MimeType:     obj.ContentType,
			LastModified: obj.LastModified,
		})
	}
	return files, nil
}

// storageStats aggregates object count and size per top-level folder.
func (s *Service) storageStats(ctx context.Context, ownerID string) (*models.StorageStats, error) {
	files, err := s.listAllFiles(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	stats := &models.StorageStats{
		OwnerID: ownerID,
		Folders: map[string]models.FolderUsage{},
	}
	for _, file := range files {
		stats.TotalObjects++
		stats.TotalSize += file.Size

		bucket := store.Delimiter
		trimmed := strings.TrimPrefix(file.Path, store.Delimiter)
		if idx := strings.Index(trimmed, store.Delimiter); idx > 0 {
			bucket = trimmed[:idx]
		}
		usage := stats.Folders[bucket]
		usage.Objects++
		usage.Size += file.Size
		stats.Folders[bucket] = usage
	}
	return stats, nil
}
