package usecase

import "errors"

// Sentinel errors for use case layer
var (
	ErrSectionNotFound = errors.New("section not found in note")
	ErrDiagramNotFound = errors.New("diagram not found in note")
)
