package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/studynotes-lab/grimoire/pkg/domain/interfaces"
	"github.com/studynotes-lab/grimoire/pkg/domain/model"
	"github.com/studynotes-lab/grimoire/pkg/domain/types"
)

type noteRepository struct {
	mu    sync.RWMutex
	notes map[types.NoteID]*model.NoteDocument
}

func newNoteRepository() *noteRepository {
	return &noteRepository{
		notes: make(map[types.NoteID]*model.NoteDocument),
	}
}

func (r *noteRepository) Put(ctx context.Context, note *model.NoteDocument) error {
	if note == nil {
		return goerr.New("note is required")
	}
	if err := note.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid note ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy so the caller cannot mutate repository state afterwards
	r.notes[note.ID] = note.Clone()
	return nil
}

func (r *noteRepository) Get(ctx context.Context, id types.NoteID) (*model.NoteDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	note, ok := r.notes[id]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrNoteNotFound, "no such note", goerr.V("id", id))
	}
	return note.Clone(), nil
}

func (r *noteRepository) List(ctx context.Context) ([]*model.NoteDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notes := make([]*model.NoteDocument, 0, len(r.notes))
	for _, note := range r.notes {
		notes = append(notes, note.Clone())
	}

	sort.Slice(notes, func(i, j int) bool {
		if notes[i].GeneratedAt.Equal(notes[j].GeneratedAt) {
			return notes[i].ID < notes[j].ID
		}
		return notes[i].GeneratedAt.After(notes[j].GeneratedAt)
	})

	return notes, nil
}

func (r *noteRepository) Delete(ctx context.Context, id types.NoteID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notes[id]; !ok {
		return goerr.Wrap(interfaces.ErrNoteNotFound, "no such note", goerr.V("id", id))
	}
	delete(r.notes, id)
	return nil
}
