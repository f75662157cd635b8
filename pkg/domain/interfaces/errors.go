package interfaces

import "errors"

// Sentinel errors shared by repository implementations
var (
	ErrNoteNotFound    = errors.New("note not found")
	ErrVersionNotFound = errors.New("version not found")
)
