package models

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RootPath is the path of the implicit per-owner root folder record.
// Root-level aggregate counters (how many folders/files sit directly under
// "/") live on this record.
const RootPath = "/"

// EnsureRootFolder returns the owner's root folder record, creating it if
// missing. The second return value reports whether it was created.
func EnsureRootFolder(db *gorm.DB, ownerID string) (*FolderRecord, bool, error) {
	root := &FolderRecord{
		ID:      uuid.NewString(),
		Name:    "",
		OwnerID: ownerID,
		Path:    RootPath,
	}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}, {Name: "path"}},
		DoNothing: true,
	}).Create(root)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return root, true, nil
	}
	existing, err := FolderByPath(db, ownerID, RootPath)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// UpsertFolder inserts a folder record keyed on (owner, path), doing nothing
// if a record already exists. This makes concurrent reverse imports safe:
// two passes inferring the same path cannot double-create.
func UpsertFolder(db *gorm.DB, folder *FolderRecord) (bool, error) {
	if folder.ID == "" {
		folder.ID = uuid.NewString()
	}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}, {Name: "path"}},
		DoNothing: true,
	}).Create(folder)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FolderByPath fetches a folder record by (owner, path). Absence is not an
// error; it returns (nil, nil).
func FolderByPath(db *gorm.DB, ownerID, path string) (*FolderRecord, error) {
	var folder FolderRecord
	err := db.Where("owner_id = ? AND path = ?", ownerID, path).First(&folder).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

// ListFolders returns every folder record for the owner, root included.
func ListFolders(db *gorm.DB, ownerID string) ([]FolderRecord, error) {
	var folders []FolderRecord
	if err := db.Where("owner_id = ?", ownerID).Find(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}

// ListFiles returns every file record for the owner.
func ListFiles(db *gorm.DB, ownerID string) ([]FileRecord, error) {
	var files []FileRecord
	if err := db.Where("owner_id = ?", ownerID).Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

// FileByStorageKey fetches a file record by its unique storage key.
// Absence returns (nil, nil).
func FileByStorageKey(db *gorm.DB, storageKey string) (*FileRecord, error) {
	var file FileRecord
	err := db.Where("storage_key = ?", storageKey).First(&file).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// CreateFileIfAbsent inserts a file record unless its storage key is already
// tracked. Returns whether a row was created.
func CreateFileIfAbsent(db *gorm.DB, file *FileRecord) (bool, error) {
	if file.ID == "" {
		file.ID = uuid.NewString()
	}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoNothing: true,
	}).Create(file)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteFile removes a file record by id.
func DeleteFile(db *gorm.DB, id string) error {
	return db.Delete(&FileRecord{}, "id = ?", id).Error
}

// AddFolderCounts applies deltas to a folder's direct-children aggregates.
// Counters use atomic column expressions so concurrent mutations never lose
// increments.
func AddFolderCounts(db *gorm.DB, ownerID, path string, fileDelta, folderDelta, sizeDelta int64) error {
	updates := map[string]any{}
	if fileDelta != 0 {
		updates["file_count"] = gorm.Expr("file_count + ?", fileDelta)
	}
	if folderDelta != 0 {
		updates["folder_count"] = gorm.Expr("folder_count + ?", folderDelta)
	}
	if sizeDelta != 0 {
		updates["total_size"] = gorm.Expr("total_size + ?", sizeDelta)
	}
	if len(updates) == 0 {
		return nil
	}
	return db.Model(&FolderRecord{}).
		Where("owner_id = ? AND path = ?", ownerID, path).
		UpdateColumns(updates).Error
}

// DeleteSubtree bulk-removes the folder record at path and every file and
// folder record scoped under it. Returns the number of file and folder rows
// removed.
func DeleteSubtree(db *gorm.DB, ownerID, path string) (filesDeleted, foldersDeleted int64, err error) {
	prefix := strings.TrimSuffix(path, "/") + "/%"

	res := db.Where("owner_id = ? AND path LIKE ?", ownerID, prefix).Delete(&FileRecord{})
	if res.Error != nil {
		return 0, 0, res.Error
	}
	filesDeleted = res.RowsAffected

	res = db.Where("owner_id = ? AND (path = ? OR path LIKE ?)", ownerID, path, prefix).Delete(&FolderRecord{})
	if res.Error != nil {
		return filesDeleted, 0, res.Error
	}
	foldersDeleted = res.RowsAffected

	return filesDeleted, foldersDeleted, nil
}

// RewritePathPrefix rewrites the path of the folder at oldPath (renaming it
// to newName) and of every record under it, substituting newPath for oldPath.
// GORM's builder has no portable prefix-splice, hence raw SQL.
func RewritePathPrefix(db *gorm.DB, ownerID, oldPath, newPath, newName string) error {
	oldPrefix := strings.TrimSuffix(oldPath, "/") + "/%"

	err := db.Exec(
		"UPDATE folder_records SET path = ?, name = ? WHERE owner_id = ? AND path = ?",
		newPath, newName, ownerID, oldPath,
	).Error
	if err != nil {
		return fmt.Errorf("failed to rename folder row: %w", err)
	}

	// SUBSTRING counts characters, not bytes, so the splice offsets must be
	// rune counts or multibyte folder names shift the cut point.
	err = db.Exec(
		"UPDATE folder_records SET path = CONCAT(?, SUBSTRING(path, ?)) WHERE owner_id = ? AND path LIKE ?",
		newPath, utf8.RuneCountInString(oldPath)+1, ownerID, oldPrefix,
	).Error
	if err != nil {
		return fmt.Errorf("failed to rewrite descendant folder paths: %w", err)
	}

	// Object keys are ownerID + path, so the key prefix splices the same way.
	oldKeyPrefix := ownerID + strings.TrimSuffix(oldPath, "/") + "/"
	newKeyPrefix := ownerID + strings.TrimSuffix(newPath, "/") + "/"
	err = db.Exec(
		"UPDATE file_records SET path = CONCAT(?, SUBSTRING(path, ?)), storage_key = CONCAT(?, SUBSTRING(storage_key, ?)) WHERE owner_id = ? AND path LIKE ?",
		newPath, utf8.RuneCountInString(oldPath)+1,
		newKeyPrefix, utf8.RuneCountInString(oldKeyPrefix)+1,
		ownerID, oldPrefix,
	).Error
	if err != nil {
		return fmt.Errorf("failed to rewrite descendant file paths: %w", err)
	}

	return nil
}

// Migrate creates or updates the drive tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&FolderRecord{}, &FileRecord{})
}
