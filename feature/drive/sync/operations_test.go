package sync_test

import (
	"context"
	"testing"

	"drive-manager/core/database"
	"drive-manager/core/storage/mocks"
	"drive-manager/feature/drive/models"
	"drive-manager/feature/drive/store"
	"drive-manager/feature/drive/sync"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testBucket = "drive"

func setupSync(t *testing.T, owner string) (*sync.Service, *gorm.DB, *mocks.Client) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	client := new(mocks.Client)
	svc := sync.NewService(store.New(client, testBucket), db, zap.NewNop(), owner)
	return svc, db, client
}

func notFoundErr() minio.ErrorResponse {
	return minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404}
}

func TestEnsureFolderChain(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	seen := map[string]*models.FolderRecord{}
	created, rec, err := sync.EnsureFolderChain(db, "u1", "/a/b/c", seen)
	require.NoError(t, err)
	assert.Equal(t, 3, created)
	require.NotNil(t, rec)
	assert.Equal(t, "/a/b/c", rec.Path)
	assert.Equal(t, "c", rec.Name)

	// Each parent's folder count reflects its one new direct child.
	for _, parent := range []string{"/", "/a", "/a/b"} {
		folder, err := models.FolderByPath(db, "u1", parent)
		require.NoError(t, err)
		require.NotNil(t, folder)
		assert.Equal(t, int64(1), folder.FolderCount, "parent %s", parent)
	}

	// A second walk over the same chain creates nothing.
	created, rec2, err := sync.EnsureFolderChain(db, "u1", "/a/b/c", map[string]*models.FolderRecord{})
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Equal(t, rec.ID, rec2.ID)
}

func TestVerifyFiles(t *testing.T) {
	svc, db, client := setupSync(t, "u1")

	_, _, err := models.EnsureRootFolder(db, "u1")
	require.NoError(t, err)
	_, err = models.UpsertFolder(db, &models.FolderRecord{OwnerID: "u1", Name: "docs", Path: "/docs"})
	require.NoError(t, err)
	require.NoError(t, models.AddFolderCounts(db, "u1", "/docs", 2, 0, 30))

	for _, f := range []models.FileRecord{
		{OwnerID: "u1", Name: "kept.txt", Path: "/docs/kept.txt", StorageKey: "u1/docs/kept.txt", Size: 10},
		{OwnerID: "u1", Name: "gone.txt", Path: "/docs/gone.txt", StorageKey: "u1/docs/gone.txt", Size: 20},
	} {
		_, err := models.CreateFileIfAbsent(db, &f)
		require.NoError(t, err)
	}

	client.On("StatObject", mock.Anything, testBucket, "u1/docs/kept.txt", mock.Anything).
		Return(minio.ObjectInfo{Key: "u1/docs/kept.txt"}, nil)
	client.On("StatObject", mock.Anything, testBucket, "u1/docs/gone.txt", mock.Anything).
		Return(minio.ObjectInfo{}, notFoundErr())

	stats := svc.VerifyFiles(context.Background())
	assert.Equal(t, 1, stats.FilesVerified)
	assert.Equal(t, 1, stats.FilesRemoved)
	assert.Empty(t, stats.Errors)

	// The stale record is gone and the folder counters rolled back.
	rec, err := models.FileByStorageKey(db, "u1/docs/gone.txt")
	require.NoError(t, err)
	assert.Nil(t, rec)
	folder, err := models.FolderByPath(db, "u1", "/docs")
	require.NoError(t, err)
	assert.Equal(t, int64(1), folder.FileCount)
	assert.Equal(t, int64(10), folder.TotalSize)
}

func TestVerifyFilesProbeError(t *testing.T) {
	svc, db, client := setupSync(t, "u1")

	_, err := models.CreateFileIfAbsent(db, &models.FileRecord{
		OwnerID: "u1", Path: "/a.txt", StorageKey: "u1/a.txt",
	})
	require.NoError(t, err)

	client.On("StatObject", mock.Anything, testBucket, "u1/a.txt", mock.Anything).
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "SlowDown", StatusCode: 503})

	stats := svc.VerifyFiles(context.Background())
	assert.Zero(t, stats.FilesRemoved)
	assert.Len(t, stats.Errors, 1)

	// A flaky probe never costs the record.
	rec, err := models.FileByStorageKey(db, "u1/a.txt")
	require.NoError(t, err)
	assert.NotNil(t, rec)
}

func TestImportFiles(t *testing.T) {
	svc, db, client := setupSync(t, "u1")

	objects := []minio.ObjectInfo{
		{Key: "u1/photos/"},
		{Key: "u1/photos/img1.png", Size: 2048},
	}
	client.On("ListObjects", mock.Anything, testBucket, mock.Anything).
		Return(mocks.ObjectChannel(objects...)).Once()
	client.On("StatObject", mock.Anything, testBucket, "u1/photos/img1.png", mock.Anything).
		Return(minio.ObjectInfo{
			Key:          "u1/photos/img1.png",
			Size:         2048,
			ContentType:  "image/png",
			UserMetadata: map[string]string{store.MetaOriginalName: "img1.png"},
		}, nil).Once()

	stats := svc.ImportFiles(context.Background())
	assert.Equal(t, 1, stats.FilesImported)
	assert.Equal(t, 1, stats.FoldersCreated)
	assert.Empty(t, stats.Errors)

	rec, err := models.FileByStorageKey(db, "u1/photos/img1.png")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "img1.png", rec.Name)
	assert.Equal(t, "/photos/img1.png", rec.Path)
	assert.Equal(t, "image/png", rec.MimeType)
	require.NotNil(t, rec.ParentFolderID)

	folder, err := models.FolderByPath(db, "u1", "/photos")
	require.NoError(t, err)
	require.NotNil(t, folder)
	assert.Equal(t, folder.ID, *rec.ParentFolderID)
	assert.Equal(t, int64(1), folder.FileCount)
	assert.Equal(t, int64(2048), folder.TotalSize)

	// Root gained one direct child folder.
	root, err := models.FolderByPath(db, "u1", "/")
	require.NoError(t, err)
	assert.Equal(t, int64(1), root.FolderCount)

	// A second pass over the same namespace changes nothing.
	client.On("ListObjects", mock.Anything, testBucket, mock.Anything).
		Return(mocks.ObjectChannel(objects...)).Once()
	stats = svc.ImportFiles(context.Background())
	assert.Zero(t, stats.FilesImported)
	assert.Zero(t, stats.FoldersCreated)
}

func TestPushFolderMarkers(t *testing.T) {
	svc, db, client := setupSync(t, "u1")

	_, _, err := models.EnsureRootFolder(db, "u1")
	require.NoError(t, err)
	_, err = models.UpsertFolder(db, &models.FolderRecord{OwnerID: "u1", Name: "docs", Path: "/docs"})
	require.NoError(t, err)
	_, err = models.UpsertFolder(db, &models.FolderRecord{OwnerID: "u1", Name: "pics", Path: "/pics"})
	require.NoError(t, err)

	// /docs already has its marker, /pics does not.
	client.On("StatObject", mock.Anything, testBucket, "u1/docs/", mock.Anything).
		Return(minio.ObjectInfo{Key: "u1/docs/"}, nil)
	client.On("StatObject", mock.Anything, testBucket, "u1/pics/", mock.Anything).
		Return(minio.ObjectInfo{}, notFoundErr())
	client.On("PutObject", mock.Anything, testBucket, "u1/pics/", mock.Anything, int64(0), mock.Anything).
		Return(minio.UploadInfo{}, nil).Once()

	stats := svc.PushFolderMarkers(context.Background())
	assert.Equal(t, 1, stats.MarkersCreated)
	assert.Empty(t, stats.Errors)
	client.AssertExpectations(t)
}

func TestImportFolderMarkers(t *testing.T) {
	svc, db, client := setupSync(t, "u1")

	client.On("ListObjects", mock.Anything, testBucket, mock.Anything).
		Return(mocks.ObjectChannel(
			minio.ObjectInfo{Key: "u1/a/"},
			minio.ObjectInfo{Key: "u1/a/b/"},
			minio.ObjectInfo{Key: "u1/a/file.txt"},
		)).Once()

	stats := svc.ImportFolderMarkers(context.Background())
	assert.Equal(t, 2, stats.FoldersImported)
	assert.Empty(t, stats.Errors)

	for _, path := range []string{"/a", "/a/b"} {
		folder, err := models.FolderByPath(db, "u1", path)
		require.NoError(t, err)
		assert.NotNil(t, folder, "path %s", path)
	}
}

func TestFindOrphans(t *testing.T) {
	svc, db, client := setupSync(t, "u1")

	_, err := models.UpsertFolder(db, &models.FolderRecord{OwnerID: "u1", Name: "known", Path: "/known"})
	require.NoError(t, err)
	_, err = models.CreateFileIfAbsent(db, &models.FileRecord{
		OwnerID: "u1", Path: "/known/a.txt", StorageKey: "u1/known/a.txt",
	})
	require.NoError(t, err)

	client.On("ListObjects", mock.Anything, testBucket, mock.Anything).
		Return(mocks.ObjectChannel(
			minio.ObjectInfo{Key: "u1/known/"},
			minio.ObjectInfo{Key: "u1/known/a.txt"},
			minio.ObjectInfo{Key: "u1/stray/"},
			minio.ObjectInfo{Key: "u1/known/stray.txt"},
		)).Once()

	stats := svc.FindOrphans(context.Background())
	assert.ElementsMatch(t, []string{"u1/stray/", "u1/known/stray.txt"}, stats.OrphanKeys)
	assert.Empty(t, stats.Errors)

	// Diagnostic only: nothing was imported or removed.
	rec, err := models.FileByStorageKey(db, "u1/known/stray.txt")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestFullSyncEmptyNamespace(t *testing.T) {
	svc, _, client := setupSync(t, "u1")

	// A closed empty channel serves every enumeration in the pass.
	empty := make(chan minio.ObjectInfo)
	close(empty)
	client.On("ListObjects", mock.Anything, testBucket, mock.Anything).
		Return((<-chan minio.ObjectInfo)(empty))

	stats := svc.FullSync(context.Background())
	assert.Empty(t, stats.Errors)
	assert.Zero(t, stats.FilesImported)
	assert.Zero(t, stats.FoldersImported)
	assert.Empty(t, stats.OrphanKeys)
	assert.NotEmpty(t, stats.ExecutionTime)
}

func TestFullSyncIdempotent(t *testing.T) {
	svc, db, client := setupSync(t, "u1")

	// The namespace holds one folder marker and one file; metadata is empty.
	namespace := []minio.ObjectInfo{
		{Key: "u1/docs/"},
		{Key: "u1/docs/a.txt", Size: 64},
	}

	// Each pass enumerates the namespace three times (marker import, file
	// import, orphan report); two passes need six fresh channels.
	for i := 0; i < 6; i++ {
		client.On("ListObjects", mock.Anything, testBucket, mock.Anything).
			Return(mocks.ObjectChannel(namespace...)).Once()
	}
	client.On("StatObject", mock.Anything, testBucket, "u1/docs/a.txt", mock.Anything).
		Return(minio.ObjectInfo{Key: "u1/docs/a.txt", Size: 64, ContentType: "text/plain"}, nil)
	client.On("StatObject", mock.Anything, testBucket, "u1/docs/", mock.Anything).
		Return(minio.ObjectInfo{Key: "u1/docs/"}, nil)

	// First pass levels metadata with the store.
	first := svc.FullSync(context.Background())
	assert.Empty(t, first.Errors)
	assert.Equal(t, 1, first.FoldersImported)
	assert.Equal(t, 1, first.FilesImported)
	assert.Empty(t, first.OrphanKeys)

	// A second pass over a consistent system changes nothing.
	second := svc.FullSync(context.Background())
	assert.Empty(t, second.Errors)
	assert.Equal(t, 1, second.FilesVerified)
	assert.Zero(t, second.FilesRemoved)
	assert.Zero(t, second.FilesImported)
	assert.Zero(t, second.FoldersImported)
	assert.Zero(t, second.FoldersCreated)
	assert.Zero(t, second.MarkersCreated)
	assert.Empty(t, second.OrphanKeys)

	// Counters settled after the first pass and stayed put.
	folder, err := models.FolderByPath(db, "u1", "/docs")
	require.NoError(t, err)
	require.NotNil(t, folder)
	assert.Equal(t, int64(1), folder.FileCount)
	assert.Equal(t, int64(64), folder.TotalSize)
}

func TestSyncWithoutDatabase(t *testing.T) {
	client := new(mocks.Client)
	svc := sync.NewService(store.New(client, testBucket), nil, zap.NewNop(), "u1")

	stats := svc.VerifyFiles(context.Background())
	assert.NotEmpty(t, stats.Errors)
	stats = svc.FullSync(context.Background())
	assert.NotEmpty(t, stats.Errors)
}
