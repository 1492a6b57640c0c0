// Package drive implements the virtual directory feature.
//
// It emulates a folder hierarchy on top of a flat S3-compatible object store
// and keeps an optional metadata database reconciled against it:
//  1. Storage (S3/MinIO): zero-byte marker objects represent folders, object
//     keys encode paths under a per-owner prefix.
//  2. Database: FileRecord and FolderRecord rows with denormalized
//     direct-children counters.
//
// # Components
//
//   - Service: folder mutations, cached listing and search, and the public
//     reconciliation operations. Every public operation returns a uniform
//     OperationResult instead of an error.
//   - Handler: exposes HTTP endpoints for all operations.
//   - Loader: registers the feature with the application.
//
// Subpackages: store (key conventions and namespace primitives), models
// (records, result shapes, query helpers), sync (reconciliation passes).
//
// # HTTP Endpoints
//
//   - POST   /drive/:owner/folders              : create a folder
//   - DELETE /drive/:owner/folders?path=        : delete a folder subtree
//   - PUT    /drive/:owner/folders/rename       : rename a folder
//   - GET    /drive/:owner/files                : list one directory page
//   - GET    /drive/:owner/search?q=            : search the namespace
//   - GET    /drive/:owner/stats                : aggregate store usage
//   - POST   /drive/:owner/sync/...             : reconciliation operations
package drive
