package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/studynotes-lab/grimoire/pkg/domain/interfaces"
	"github.com/studynotes-lab/grimoire/pkg/domain/model"
	"github.com/studynotes-lab/grimoire/pkg/domain/types"
)

type versionRepository struct {
	mu       sync.RWMutex
	versions map[types.NoteID]map[types.VersionID]*model.NoteVersion
}

func newVersionRepository() *versionRepository {
	return &versionRepository{
		versions: make(map[types.NoteID]map[types.VersionID]*model.NoteVersion),
	}
}

func copyVersion(v *model.NoteVersion) *model.NoteVersion {
	copied := &model.NoteVersion{
		ID:      v.ID,
		NoteID:  v.NoteID,
		Label:   v.Label,
		SavedAt: v.SavedAt,
	}
	if v.Document != nil {
		copied.Document = v.Document.Clone()
	}
	return copied
}

func (r *versionRepository) Create(ctx context.Context, version *model.NoteVersion) (*model.NoteVersion, error) {
	if version == nil {
		return nil, goerr.New("version is required")
	}
	if version.NoteID == "" {
		return nil, goerr.New("version note ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyVersion(version)
	if stored.ID == "" {
		stored.ID = types.NewVersionID()
	}
	if stored.SavedAt.IsZero() {
		stored.SavedAt = time.Now().UTC()
	}

	if _, ok := r.versions[stored.NoteID]; !ok {
		r.versions[stored.NoteID] = make(map[types.VersionID]*model.NoteVersion)
	}
	r.versions[stored.NoteID][stored.ID] = stored

	return copyVersion(stored), nil
}

func (r *versionRepository) List(ctx context.Context, noteID types.NoteID) ([]*model.NoteVersion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*model.NoteVersion, 0, len(r.versions[noteID]))
	for _, v := range r.versions[noteID] {
		entries = append(entries, copyVersion(v))
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].SavedAt.Equal(entries[j].SavedAt) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].SavedAt.After(entries[j].SavedAt)
	})

	return entries, nil
}

func (r *versionRepository) Get(ctx context.Context, noteID types.NoteID, id types.VersionID) (*model.NoteVersion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.versions[noteID][id]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrVersionNotFound, "no such version",
			goerr.V("noteID", noteID), goerr.V("versionID", id))
	}
	return copyVersion(v), nil
}
