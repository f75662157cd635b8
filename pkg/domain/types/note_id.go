package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// NoteID is a UUID-based identifier for a NoteDocument
type NoteID string

// NewNoteID generates a new UUID v4 NoteID
func NewNoteID() NoteID {
	return NoteID(uuid.New().String())
}

// Validate checks if the NoteID is valid
func (id NoteID) Validate() error {
	if id == "" {
		return goerr.New("note ID cannot be empty")
	}
	if _, err := uuid.Parse(string(id)); err != nil {
		return goerr.Wrap(err, "note ID must be a UUID", goerr.V("id", id))
	}
	return nil
}

// String returns the string representation of NoteID
func (id NoteID) String() string {
	return string(id)
}

// VersionID is a UUID-based identifier for a stored note version snapshot
type VersionID string

// NewVersionID generates a new UUID v4 VersionID
func NewVersionID() VersionID {
	return VersionID(uuid.New().String())
}

// Validate checks if the VersionID is valid
func (id VersionID) Validate() error {
	if id == "" {
		return goerr.New("version ID cannot be empty")
	}
	if _, err := uuid.Parse(string(id)); err != nil {
		return goerr.Wrap(err, "version ID must be a UUID", goerr.V("id", id))
	}
	return nil
}

// String returns the string representation of VersionID
func (id VersionID) String() string {
	return string(id)
}
