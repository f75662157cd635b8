package model

import (
	"time"

	"github.com/studynotes-lab/grimoire/pkg/domain/types"
)

// NoteVersion is a point-in-time snapshot of a note document, recorded
// before content edits and regenerations so the user can restore earlier
// states.
type NoteVersion struct {
	ID       types.VersionID
	NoteID   types.NoteID
	Label    string
	SavedAt  time.Time
	Document *NoteDocument
}
