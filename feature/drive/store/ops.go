package store

import (
	"bytes"
	"context"
	"fmt"

	"drive-manager/core/storage"
	"drive-manager/feature/drive/models"

	"github.com/minio/minio-go/v7"
)

// batchDeleteLimit bounds one batch-delete call, matching the store's
// per-request object cap.
const batchDeleteLimit = 1000

// Store binds a storage client to one bucket and exposes the namespace-level
// primitives the drive engine is built from.
type Store struct {
	client storage.Client
	bucket string
}

// New creates a Store over the given client and bucket.
func New(client storage.Client, bucket string) *Store {
	return &Store{client: client, bucket: bucket}
}

// Bucket returns the bucket this store operates on.
func (s *Store) Bucket() string {
	return s.bucket
}

// ListPage returns one delimiter-aware page of up to max entries under
// prefix, starting after startAfter. Non-recursive listings surface direct
// child folders as delimiter-terminated keys. The extra return values carry
// the continuation token and whether more entries exist.
func (s *Store) ListPage(ctx context.Context, prefix, startAfter string, max int, recursive bool) ([]minio.ObjectInfo, string, bool, error) {
	if max <= 0 {
		max = 1000
	}

	// Cancel the listing goroutine once the page is full.
	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	objects := make([]minio.ObjectInfo, 0, max)
	ch := s.client.ListObjects(listCtx, s.bucket, minio.ListObjectsOptions{
		Prefix:     prefix,
		Recursive:  recursive,
		StartAfter: startAfter,
	})

	hasMore := false
	for info := range ch {
		if info.Err != nil {
			return nil, "", false, fmt.Errorf("failed to list prefix %s: %w", prefix, info.Err)
		}
		if len(objects) == max {
			hasMore = true
			break
		}
		objects = append(objects, info)
	}

	nextToken := ""
	if hasMore && len(objects) > 0 {
		nextToken = objects[len(objects)-1].Key
	}
	return objects, nextToken, hasMore, nil
}

// ListAll enumerates every object under prefix across all pages. It is used
// by reconciliation and statistics, which must see true current state.
func (s *Store) ListAll(ctx context.Context, prefix string) ([]minio.ObjectInfo, error) {
	var objects []minio.ObjectInfo
	ch := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})
	for info := range ch {
		if info.Err != nil {
			return nil, fmt.Errorf("failed to enumerate prefix %s: %w", prefix, info.Err)
		}
		objects = append(objects, info)
	}
	return objects, nil
}

// Stat probes a single key. The second return value reports existence;
// a missing key is not an error.
func (s *Store) Stat(ctx context.Context, key string) (minio.ObjectInfo, bool, error) {
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return minio.ObjectInfo{}, false, nil
		}
		if storage.IsAccessDenied(err) {
			return minio.ObjectInfo{}, false, fmt.Errorf("%w: stat %s", models.ErrAccessDenied, key)
		}
		return minio.ObjectInfo{}, false, fmt.Errorf("failed to stat %s: %w", key, err)
	}
	return info, true, nil
}

// Exists probes a single key for existence.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	_, ok, err := s.Stat(ctx, key)
	return ok, err
}

// PrefixOccupied reports whether any object lives under prefix. It issues a
// bounded listing (one key) rather than a full enumeration.
func (s *Store) PrefixOccupied(ctx context.Context, prefix string) (bool, error) {
	objects, _, _, err := s.ListPage(ctx, prefix, "", 1, true)
	if err != nil {
		return false, err
	}
	return len(objects) > 0, nil
}

// PutMarker writes the zero-byte, delimiter-terminated object representing a
// virtual folder.
func (s *Store) PutMarker(ctx context.Context, key string, meta map[string]string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(nil), 0, minio.PutObjectOptions{
		ContentType:  "application/x-directory",
		UserMetadata: meta,
	})
	if err != nil {
		return fmt.Errorf("failed to write folder marker %s: %w", key, err)
	}
	return nil
}

// Copy performs a same-store server-side copy from srcKey to dstKey.
func (s *Store) Copy(ctx context.Context, srcKey, dstKey string) error {
	_, err := s.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: s.bucket, Object: dstKey},
		minio.CopySrcOptions{Bucket: s.bucket, Object: srcKey},
	)
	if err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", srcKey, dstKey, err)
	}
	return nil
}

// Remove deletes a single key.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// RemoveKeys batch-deletes keys in store-limit-sized chunks, accumulating
// per-item errors without aborting remaining batches. It returns the number
// of keys removed and the per-item error descriptions.
func (s *Store) RemoveKeys(ctx context.Context, keys []string) (int, []string) {
	removed := 0
	var errs []string

	for start := 0; start < len(keys); start += batchDeleteLimit {
		end := start + batchDeleteLimit
		if end > len(keys) {
			end = len(keys)
		}
		chunk := keys[start:end]

		objectsCh := make(chan minio.ObjectInfo, len(chunk))
		for _, key := range chunk {
			objectsCh <- minio.ObjectInfo{Key: key}
		}
		close(objectsCh)

		failed := 0
		for removeErr := range s.client.RemoveObjects(ctx, s.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
			failed++
			errs = append(errs, fmt.Sprintf("delete %s: %v", removeErr.ObjectName, removeErr.Err))
		}
		removed += len(chunk) - failed
	}

	return removed, errs
}
