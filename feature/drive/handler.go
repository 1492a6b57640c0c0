package drive

import (
	"drive-manager/core/logger"
	"drive-manager/feature/drive/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the drive.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the drive routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/drive/:owner")

	group.Post("/folders", h.HandleCreateFolder)
	group.Delete("/folders", h.HandleDeleteFolder)
	group.Put("/folders/rename", h.HandleRenameFolder)

	group.Get("/files", h.HandleListFiles)
	group.Get("/search", h.HandleSearchFiles)
	group.Get("/stats", h.HandleStorageStats)

	group.Post("/sync/files", h.HandleSyncFiles)
	group.Post("/sync/import", h.HandleImportFiles)
	group.Post("/sync/folders/push", h.HandlePushFolders)
	group.Post("/sync/folders/import", h.HandleImportFolders)
	group.Post("/sync/full", h.HandleFullSync)
	group.Post("/sync/check", h.HandleConsistencyCheck)
}

type createFolderRequest struct {
	Name       string `json:"name"`
	ParentPath string `json:"parent_path"`
}

type renameFolderRequest struct {
	Path    string `json:"path"`
	NewName string `json:"new_name"`
}

// render writes the uniform operation result. Domain failures still answer
// 200; the success flag carries the outcome.
func (h *Handler) render(c *fiber.Ctx, operation string, res *models.OperationResult) error {
	l := logger.WithRayID(h.service.logger, c)
	if !res.Success {
		l.Warn("Drive operation failed",
			zap.String("operation", operation),
			zap.String("message", res.Message))
	}
	return c.JSON(res)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

// HandleCreateFolder creates a virtual folder.
// @Summary Create Folder
// @Description Create a virtual folder under a parent path.
// @Tags drive
// @Accept json
// @Produce json
// @Param owner path string true "Owner ID"
// @Param request body createFolderRequest true "Folder name and parent path"
// @Success 200 {object} models.OperationResult "Operation Result"
// @Failure 400 {object} map[string]string "Malformed Request"
// @Router /drive/{owner}/folders [post]
func (h *Handler) HandleCreateFolder(c *fiber.Ctx) error {
	var req createFolderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	res := h.service.CreateFolder(c.Context(), c.Params("owner"), req.Name, req.ParentPath)
	return h.render(c, "create_folder", res)
}

// HandleDeleteFolder deletes a virtual folder and everything under it.
// @Summary Delete Folder
// @Description Delete a virtual folder, its objects and its metadata subtree.
// @Tags drive
// @Produce json
// @Param owner path string true "Owner ID"
// @Param path query string true "Folder path"
// @Success 200 {object} models.OperationResult "Operation Result"
// @Failure 400 {object} map[string]string "Malformed Request"
// @Router /drive/{owner}/folders [delete]
func (h *Handler) HandleDeleteFolder(c *fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return badRequest(c, "path query parameter is required")
	}
	res := h.service.DeleteFolder(c.Context(), c.Params("owner"), path)
	return h.render(c, "delete_folder", res)
}

// HandleRenameFolder renames a virtual folder.
// @Summary Rename Folder
// @Description Rename a virtual folder via copy-then-delete.
// @Tags drive
// @Accept json
// @Produce json
// @Param owner path string true "Owner ID"
// @Param request body renameFolderRequest true "Folder path and new name"
// @Success 200 {object} models.OperationResult "Operation Result"
// @Failure 400 {object} map[string]string "Malformed Request"
// @Router /drive/{owner}/folders/rename [put]
func (h *Handler) HandleRenameFolder(c *fiber.Ctx) error {
	var req renameFolderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Path == "" {
		return badRequest(c, "path is required")
	}
	res := h.service.RenameFolder(c.Context(), c.Params("owner"), req.Path, req.NewName)
	return h.render(c, "rename_folder", res)
}

// HandleListFiles returns one page of a directory listing.
// @Summary List Files
// @Description List the folders and files directly under a path.
// @Tags drive
// @Produce json
// @Param owner path string true "Owner ID"
// @Param path query string false "Directory path (default /)"
// @Param max_keys query int false "Page size (default 100, max 1000)"
// @Param token query string false "Continuation token"
// @Param cache query bool false "Use the listing cache (default true)"
// @Param metadata query bool false "Probe object metadata per file"
// @Success 200 {object} models.OperationResult "Operation Result"
// @Router /drive/{owner}/files [get]
func (h *Handler) HandleListFiles(c *fiber.Ctx) error {
	opts := ListOptions{
		MaxKeys:           c.QueryInt("max_keys"),
		ContinuationToken: c.Query("token"),
		UseCache:          c.QueryBool("cache", true),
		IncludeMetadata:   c.QueryBool("metadata"),
	}
	res := h.service.ListFiles(c.Context(), c.Params("owner"), c.Query("path", "/"), opts)
	return h.render(c, "list_files", res)
}

// HandleSearchFiles searches the owner's namespace by file name.
// @Summary Search Files
// @Description Search every file in the namespace by name substring.
// @Tags drive
// @Produce json
// @Param owner path string true "Owner ID"
// @Param q query string true "Name substring (case-insensitive)"
// @Param max query int false "Result cap (default 50, max 1000)"
// @Param mime query string false "Content type prefix filter"
// @Param cache query bool false "Use the search cache (default true)"
// @Success 200 {object} models.OperationResult "Operation Result"
// @Failure 400 {object} map[string]string "Malformed Request"
// @Router /drive/{owner}/search [get]
func (h *Handler) HandleSearchFiles(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return badRequest(c, "q query parameter is required")
	}
	opts := SearchOptions{
		MaxResults:     c.QueryInt("max"),
		MimeTypeFilter: c.Query("mime"),
		UseCache:       c.QueryBool("cache", true),
	}
	res := h.service.SearchFiles(c.Context(), c.Params("owner"), query, opts)
	return h.render(c, "search_files", res)
}

// HandleStorageStats aggregates true store usage for the owner.
// @Summary Storage Stats
// @Description Aggregate object count and size per top-level folder.
// @Tags drive
// @Produce json
// @Param owner path string true "Owner ID"
// @Success 200 {object} models.OperationResult "Operation Result"
// @Router /drive/{owner}/stats [get]
func (h *Handler) HandleStorageStats(c *fiber.Ctx) error {
	res := h.service.GetStorageStats(c.Context(), c.Params("owner"))
	return h.render(c, "storage_stats", res)
}

// HandleSyncFiles verifies every file record against the store.
// @Summary Verify Files
// @Description Remove metadata records whose backing object is gone.
// @Tags sync
// @Produce json
// @Param owner path string true "Owner ID"
// @Success 200 {object} models.OperationResult "Operation Result"
// @Router /drive/{owner}/sync/files [post]
func (h *Handler) HandleSyncFiles(c *fiber.Ctx) error {
	res := h.service.SyncUserFiles(c.Context(), c.Params("owner"))
	return h.render(c, "sync_files", res)
}

// HandleImportFiles imports store objects unknown to the metadata database.
// @Summary Import Orphaned Files
// @Description Create metadata records for untracked store objects.
// @Tags sync
// @Produce json
// @Param owner path string true "Owner ID"
// @Success 200 {object} models.OperationResult "Operation Result"
// @Router /drive/{owner}/sync/import [post]
func (h *Handler) HandleImportFiles(c *fiber.Ctx) error {
	res := h.service.ImportOrphanedS3Files(c.Context(), c.Params("owner"))
	return h.render(c, "import_files", res)
}

// HandlePushFolders writes markers for folder records lacking one.
// @Summary Push Folder Markers
// @Description Create a marker object for every folder record missing one.
// @Tags sync
// @Produce json
// @Param owner path string true "Owner ID"
// @Success 200 {object} models.OperationResult "Operation Result"
// @Router /drive/{owner}/sync/folders/push [post]
func (h *Handler) HandlePushFolders(c *fiber.Ctx) error {
	res := h.service.SyncFoldersToStore(c.Context(), c.Params("owner"))
	return h.render(c, "push_folders", res)
}

// HandleImportFolders imports folder records for unknown markers.
// @Summary Import Folder Markers
// @Description Create folder records for marker objects missing from metadata.
// @Tags sync
// @Produce json
// @Param owner path string true "Owner ID"
// @Success 200 {object} models.OperationResult "Operation Result"
// @Router /drive/{owner}/sync/folders/import [post]
func (h *Handler) HandleImportFolders(c *fiber.Ctx) error {
	res := h.service.SyncFoldersFromStore(c.Context(), c.Params("owner"))
	return h.render(c, "import_folders", res)
}

// HandleFullSync runs every reconciliation phase for the owner.
// @Summary Full Sync
// @Description Run forward verification, marker push, both imports and the orphan report.
// @Tags sync
// @Produce json
// @Param owner path string true "Owner ID"
// @Success 200 {object} models.OperationResult "Operation Result"
// @Router /drive/{owner}/sync/full [post]
func (h *Handler) HandleFullSync(c *fiber.Ctx) error {
	res := h.service.PerformFullSync(c.Context(), c.Params("owner"))
	return h.render(c, "full_sync", res)
}

// HandleConsistencyCheck reports mismatches without mutating anything.
// @Summary Consistency Check
// @Description Run forward verification plus the orphan report.
// @Tags sync
// @Produce json
// @Param owner path string true "Owner ID"
// @Success 200 {object} models.OperationResult "Operation Result"
// @Router /drive/{owner}/sync/check [post]
func (h *Handler) HandleConsistencyCheck(c *fiber.Ctx) error {
	res := h.service.PerformConsistencyCheck(c.Context(), c.Params("owner"))
	return h.render(c, "consistency_check", res)
}
