package models

import "time"

// FileRecord is the metadata row for one stored object.
// Path always equals the parent folder's path plus "/" plus Name, and
// StorageKey maps 1:1 to an object in the store.
type FileRecord struct {
	ID             string `gorm:"primaryKey;size:36" json:"id"`
	Name           string `gorm:"size:255" json:"name"`
	OriginalName   string `gorm:"size:255" json:"original_name"`
	Size           int64  `json:"size"`
	MimeType       string `gorm:"size:127" json:"mime_type"`
	StorageKey     string `gorm:"size:768;uniqueIndex:uq_file_storage_key" json:"storage_key"`
	OwnerID        string `gorm:"size:64;index:idx_file_owner" json:"owner_id"`
	ParentFolderID *string `gorm:"size:36" json:"parent_folder_id,omitempty"`
	Path           string  `gorm:"size:768;index:idx_file_owner_path" json:"path"`
	Tags           string  `gorm:"size:512" json:"tags,omitempty"`
	DownloadCount  int64   `json:"download_count"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// FolderRecord is the metadata row for one virtual folder.
// The (OwnerID, Path) pair is unique, which makes reverse imports upserts
// instead of check-then-create. FileCount, FolderCount and TotalSize are
// denormalized direct-children aggregates maintained by every mutation.
type FolderRecord struct {
	ID             string  `gorm:"primaryKey;size:36" json:"id"`
	Name           string  `gorm:"size:255" json:"name"`
	OwnerID        string  `gorm:"size:64;uniqueIndex:uq_folder_owner_path" json:"owner_id"`
	ParentFolderID *string `gorm:"size:36" json:"parent_folder_id,omitempty"`
	Path           string  `gorm:"size:700;uniqueIndex:uq_folder_owner_path" json:"path"`
	Color          string  `gorm:"size:32" json:"color,omitempty"`
	Description    string  `gorm:"size:512" json:"description,omitempty"`
	FileCount      int64   `json:"file_count"`
	FolderCount    int64   `json:"folder_count"`
	TotalSize      int64   `json:"total_size"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Breadcrumb is one segment of the path chain above a listing.
type Breadcrumb struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// FolderEntry is a direct child folder in a listing.
type FolderEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// FileEntry is a direct child file in a listing or search result.
type FileEntry struct {
	Name         string    `json:"name"`
	StorageKey   string    `json:"storage_key"`
	Path         string    `json:"path"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mime_type,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// ListResult is one page of a directory listing.
type ListResult struct {
	Path        string       `json:"path"`
	Breadcrumbs []Breadcrumb `json:"breadcrumbs"`
	Folders     []FolderEntry `json:"folders"`
	Files       []FileEntry   `json:"files"`
	HasMore     bool          `json:"has_more"`
	NextToken   string        `json:"next_token,omitempty"`
}

// SearchResult holds the matches of a namespace-wide file search.
type SearchResult struct {
	Query     string      `json:"query"`
	Matches   []FileEntry `json:"matches"`
	Truncated bool        `json:"truncated"`
}

// SyncStats carries structured per-phase counts of a reconciliation pass,
// so outcomes can be diagnosed without log access.
type SyncStats struct {
	FilesVerified   int      `json:"files_verified"`
	FilesRemoved    int      `json:"files_removed"`
	FilesImported   int      `json:"files_imported"`
	FoldersImported int      `json:"folders_imported"`
	FoldersCreated  int      `json:"folders_created"`
	MarkersCreated  int      `json:"markers_created"`
	OrphanKeys      []string `json:"orphan_keys,omitempty"`
	Errors          []string `json:"errors,omitempty"`
	ExecutionTime   string   `json:"execution_time,omitempty"`
}

// Merge folds another phase's counts into s.
func (s *SyncStats) Merge(other SyncStats) {
	s.FilesVerified += other.FilesVerified
	s.FilesRemoved += other.FilesRemoved
	s.FilesImported += other.FilesImported
	s.FoldersImported += other.FoldersImported
	s.FoldersCreated += other.FoldersCreated
	s.MarkersCreated += other.MarkersCreated
	s.OrphanKeys = append(s.OrphanKeys, other.OrphanKeys...)
	s.Errors = append(s.Errors, other.Errors...)
}

// StorageStats aggregates true store usage per top-level folder.
type StorageStats struct {
	OwnerID      string                 `json:"owner_id"`
	TotalObjects int                    `json:"total_objects"`
	TotalSize    int64                  `json:"total_size"`
	Folders      map[string]FolderUsage `json:"folders"`
}

// FolderUsage is object count and byte size under one top-level folder.
type FolderUsage struct {
	Objects int   `json:"objects"`
	Size    int64 `json:"size"`
}

// OperationResult is the uniform shape every public drive operation returns.
// Callers (HTTP handlers, scheduled jobs, CLI) render outcomes from the
// success flag and message instead of handling per-call errors.
type OperationResult struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Stats   *SyncStats `json:"stats,omitempty"`
	Data    any        `json:"data,omitempty"`
}
