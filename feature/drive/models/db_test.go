package models_test

import (
	"testing"

	"drive-manager/core/database"
	"drive-manager/feature/drive/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	return db
}

func TestEnsureRootFolder(t *testing.T) {
	db := setupDB(t)

	root, created, err := models.EnsureRootFolder(db, "u1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.RootPath, root.Path)

	again, created, err := models.EnsureRootFolder(db, "u1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, root.ID, again.ID)

	// A different owner gets its own root.
	_, created, err = models.EnsureRootFolder(db, "u2")
	require.NoError(t, err)
	assert.True(t, created)
}

func TestUpsertFolder(t *testing.T) {
	db := setupDB(t)

	folder := &models.FolderRecord{Name: "docs", OwnerID: "u1", Path: "/docs"}
	created, err := models.UpsertFolder(db, folder)
	require.NoError(t, err)
	assert.True(t, created)

	// Same (owner, path) again is a no-op, not an error.
	dup := &models.FolderRecord{Name: "docs", OwnerID: "u1", Path: "/docs"}
	created, err = models.UpsertFolder(db, dup)
	require.NoError(t, err)
	assert.False(t, created)

	found, err := models.FolderByPath(db, "u1", "/docs")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, folder.ID, found.ID)

	missing, err := models.FolderByPath(db, "u1", "/nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCreateFileIfAbsent(t *testing.T) {
	db := setupDB(t)

	file := &models.FileRecord{
		Name:       "a.txt",
		OwnerID:    "u1",
		Path:       "/docs/a.txt",
		StorageKey: "u1/docs/a.txt",
		Size:       10,
	}
	created, err := models.CreateFileIfAbsent(db, file)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = models.CreateFileIfAbsent(db, &models.FileRecord{
		Name:       "a.txt",
		OwnerID:    "u1",
		Path:       "/docs/a.txt",
		StorageKey: "u1/docs/a.txt",
	})
	require.NoError(t, err)
	assert.False(t, created)

	found, err := models.FileByStorageKey(db, "u1/docs/a.txt")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, int64(10), found.Size)

	require.NoError(t, models.DeleteFile(db, found.ID))
	gone, err := models.FileByStorageKey(db, "u1/docs/a.txt")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestAddFolderCounts(t *testing.T) {
	db := setupDB(t)

	_, _, err := models.EnsureRootFolder(db, "u1")
	require.NoError(t, err)

	require.NoError(t, models.AddFolderCounts(db, "u1", "/", 2, 1, 300))
	require.NoError(t, models.AddFolderCounts(db, "u1", "/", -1, 0, -100))

	root, err := models.FolderByPath(db, "u1", "/")
	require.NoError(t, err)
	assert.Equal(t, int64(1), root.FileCount)
	assert.Equal(t, int64(1), root.FolderCount)
	assert.Equal(t, int64(200), root.TotalSize)

	// Zero deltas never touch the row.
	require.NoError(t, models.AddFolderCounts(db, "u1", "/", 0, 0, 0))
}

func TestDeleteSubtree(t *testing.T) {
	db := setupDB(t)

	for _, path := range []string{"/docs", "/docs/2024", "/docs-other"} {
		_, err := models.UpsertFolder(db, &models.FolderRecord{OwnerID: "u1", Path: path})
		require.NoError(t, err)
	}
	for _, key := range []string{"u1/docs/a.txt", "u1/docs/2024/b.txt", "u1/docs-other/c.txt"} {
		_, err := models.CreateFileIfAbsent(db, &models.FileRecord{
			OwnerID:    "u1",
			Path:       "/" + key[len("u1/"):],
			StorageKey: key,
		})
		require.NoError(t, err)
	}

	files, folders, err := models.DeleteSubtree(db, "u1", "/docs")
	require.NoError(t, err)
	assert.Equal(t, int64(2), files)
	assert.Equal(t, int64(2), folders)

	// The sibling with the shared name prefix survives.
	other, err := models.FolderByPath(db, "u1", "/docs-other")
	require.NoError(t, err)
	assert.NotNil(t, other)
	survivor, err := models.FileByStorageKey(db, "u1/docs-other/c.txt")
	require.NoError(t, err)
	assert.NotNil(t, survivor)
}

func TestRewritePathPrefix(t *testing.T) {
	db := setupDB(t)

	for _, path := range []string{"/docs", "/docs/2024"} {
		_, err := models.UpsertFolder(db, &models.FolderRecord{OwnerID: "u1", Name: "x", Path: path})
		require.NoError(t, err)
	}
	_, err := models.CreateFileIfAbsent(db, &models.FileRecord{
		OwnerID:    "u1",
		Path:       "/docs/2024/a.txt",
		StorageKey: "u1/docs/2024/a.txt",
	})
	require.NoError(t, err)

	require.NoError(t, models.RewritePathPrefix(db, "u1", "/docs", "/archive", "archive"))

	renamed, err := models.FolderByPath(db, "u1", "/archive")
	require.NoError(t, err)
	require.NotNil(t, renamed)
	assert.Equal(t, "archive", renamed.Name)

	child, err := models.FolderByPath(db, "u1", "/archive/2024")
	require.NoError(t, err)
	assert.NotNil(t, child)

	file, err := models.FileByStorageKey(db, "u1/archive/2024/a.txt")
	require.NoError(t, err)
	require.NotNil(t, file)
	assert.Equal(t, "/archive/2024/a.txt", file.Path)

	// The old prefix is fully vacated.
	old, err := models.FolderByPath(db, "u1", "/docs")
	require.NoError(t, err)
	assert.Nil(t, old)
}

func TestRewritePathPrefixMultibyte(t *testing.T) {
	db := setupDB(t)

	// Folder names may carry multibyte runes; the descendant splice must
	// stay aligned on character boundaries.
	_, err := models.UpsertFolder(db, &models.FolderRecord{OwnerID: "u1", Name: "日docs", Path: "/日docs"})
	require.NoError(t, err)
	_, err = models.CreateFileIfAbsent(db, &models.FileRecord{
		OwnerID:    "u1",
		Path:       "/日docs/a.txt",
		StorageKey: "u1/日docs/a.txt",
	})
	require.NoError(t, err)

	require.NoError(t, models.RewritePathPrefix(db, "u1", "/日docs", "/archive", "archive"))

	file, err := models.FileByStorageKey(db, "u1/archive/a.txt")
	require.NoError(t, err)
	require.NotNil(t, file)
	assert.Equal(t, "/archive/a.txt", file.Path)

	// And the other direction: an ASCII source renamed to a multibyte name.
	require.NoError(t, models.RewritePathPrefix(db, "u1", "/archive", "/архив", "архив"))

	file, err = models.FileByStorageKey(db, "u1/архив/a.txt")
	require.NoError(t, err)
	require.NotNil(t, file)
	assert.Equal(t, "/архив/a.txt", file.Path)
}
