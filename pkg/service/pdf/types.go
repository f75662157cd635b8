package pdf

import (
	"github.com/studynotes-lab/grimoire/pkg/domain/model"
)

// Service defines the interface for note document export
type Service interface {
	// Export lays out the note document into a paginated PDF. Images are
	// keyed by diagram ID; diagrams without an entry are skipped silently.
	Export(doc *model.NoteDocument, images map[string][]byte) (*Result, error)
}

// Result is the rendered export artifact
type Result struct {
	Data     []byte
	Filename string
}
