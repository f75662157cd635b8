package interfaces

import (
	"context"

	"github.com/studynotes-lab/grimoire/pkg/domain/model"
	"github.com/studynotes-lab/grimoire/pkg/domain/types"
)

// Repository aggregates the data access interfaces
type Repository interface {
	Note() NoteRepository
	Version() VersionRepository

	// Close releases any resources held by the repository
	Close() error
}

// NoteRepository defines the interface for NoteDocument data access
type NoteRepository interface {
	// Put stores a note document, replacing any existing document with the
	// same ID
	Put(ctx context.Context, note *model.NoteDocument) error

	// Get retrieves a note document by ID
	Get(ctx context.Context, id types.NoteID) (*model.NoteDocument, error)

	// List retrieves all note documents ordered by GeneratedAt descending
	List(ctx context.Context) ([]*model.NoteDocument, error)

	// Delete removes a note document by ID
	Delete(ctx context.Context, id types.NoteID) error
}

// VersionRepository defines the interface for note version snapshots
type VersionRepository interface {
	// Create records a new version snapshot for a note
	Create(ctx context.Context, version *model.NoteVersion) (*model.NoteVersion, error)

	// List retrieves all versions of a note ordered by SavedAt descending
	List(ctx context.Context, noteID types.NoteID) ([]*model.NoteVersion, error)

	// Get retrieves a specific version snapshot
	Get(ctx context.Context, noteID types.NoteID, id types.VersionID) (*model.NoteVersion, error)
}
