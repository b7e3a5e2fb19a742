package service

import "errors"

// Publish/restore error taxonomy. Controllers map these onto HTTP status
// codes; none of them is retried automatically.
var (
	// Validation: surfaced, not retried.
	ErrInvalidTarget = errors.New("invalid page name, only specific pages can be edited")
	ErrEmptyContent  = errors.New("no content provided")

	// Authorization: always surfaced, never retried.
	ErrForbidden = errors.New("insufficient permissions")

	// Persistence: surfaced with a generic message, user must re-attempt.
	ErrBackupFailed       = errors.New("failed to create backup")
	ErrWriteFailed        = errors.New("failed to save page")
	ErrRestoreWriteFailed = errors.New("failed to restore backup")

	// Not found.
	ErrBackupNotFound = errors.New("backup file not found")
)
