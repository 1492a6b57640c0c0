package models

import "errors"

// Sentinel errors for the drive engine. Callers classify with errors.Is;
// everything else wraps into generic store/database failures.
var (
	// ErrConfigurationMissing means no storage credentials resolve for the owner.
	ErrConfigurationMissing = errors.New("no storage configuration for owner")

	// ErrNotFound means a key or folder is absent. Distinguished explicitly
	// because absence drives orphan removal during reconciliation.
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied means the store rejected the caller's credentials.
	ErrAccessDenied = errors.New("access denied")

	// ErrNameInvalid means a name was empty or illegal after sanitization.
	ErrNameInvalid = errors.New("invalid name")

	// ErrAlreadyExists means a folder marker already occupies the target key.
	ErrAlreadyExists = errors.New("already exists")

	// ErrConsistencyTimeout means a deletion was still visible after bounded
	// retries. It is logged, not surfaced as an operation failure.
	ErrConsistencyTimeout = errors.New("deletion not yet visible after retries")
)
