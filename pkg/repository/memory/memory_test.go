package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/studynotes-lab/grimoire/pkg/domain/interfaces"
	"github.com/studynotes-lab/grimoire/pkg/domain/model"
	"github.com/studynotes-lab/grimoire/pkg/domain/types"
	"github.com/studynotes-lab/grimoire/pkg/repository/memory"
)

func newStoredNote(topic string, generatedAt time.Time) *model.NoteDocument {
	return &model.NoteDocument{
		ID:             types.NewNoteID(),
		Topic:          topic,
		EducationLevel: types.LevelIntermediate,
		GeneratedAt:    generatedAt,
		UpdatedAt:      generatedAt,
		Sections: []model.Section{
			{Kind: types.SectionDefinition, Title: "Definition", Content: "body", Order: 1},
		},
		Diagrams: []model.Diagram{
			{ID: "diagram1", Title: "Overview", ImageData: []byte{1, 2, 3}},
		},
	}
}

func TestNoteRepository(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	defer repo.Close()

	note := newStoredNote("Photosynthesis", time.Now().UTC())
	gt.NoError(t, repo.Note().Put(ctx, note))

	got := gt.R1(repo.Note().Get(ctx, note.ID)).NoError(t)
	gt.Value(t, got.Topic).Equal("Photosynthesis")
	gt.Array(t, got.Sections).Length(1)

	// Mutating the returned note must not leak into the store.
	got.Sections[0].Content = "mutated"
	got.Diagrams[0].ImageData[0] = 0xff

	again := gt.R1(repo.Note().Get(ctx, note.ID)).NoError(t)
	gt.Value(t, again.Sections[0].Content).Equal("body")
	gt.Value(t, again.Diagrams[0].ImageData[0]).Equal(byte(1))

	// Mutating the input after Put must not change the stored copy either.
	note.Topic = "Something Else"
	stored := gt.R1(repo.Note().Get(ctx, note.ID)).NoError(t)
	gt.Value(t, stored.Topic).Equal("Photosynthesis")
}

func TestNoteRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	_, err := repo.Note().Get(ctx, types.NewNoteID())
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, interfaces.ErrNoteNotFound)).True()

	err = repo.Note().Delete(ctx, types.NewNoteID())
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, interfaces.ErrNoteNotFound)).True()
}

func TestNoteRepositoryList(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	oldest := newStoredNote("Gravity", base.Add(-2*time.Hour))
	middle := newStoredNote("Photosynthesis", base.Add(-time.Hour))
	newest := newStoredNote("Mitosis", base)

	for _, n := range []*model.NoteDocument{middle, newest, oldest} {
		gt.NoError(t, repo.Note().Put(ctx, n))
	}

	notes := gt.R1(repo.Note().List(ctx)).NoError(t)
	gt.Array(t, notes).Length(3)
	gt.Value(t, notes[0].Topic).Equal("Mitosis")
	gt.Value(t, notes[1].Topic).Equal("Photosynthesis")
	gt.Value(t, notes[2].Topic).Equal("Gravity")
}

func TestNoteRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	note := newStoredNote("Photosynthesis", time.Now().UTC())
	gt.NoError(t, repo.Note().Put(ctx, note))
	gt.NoError(t, repo.Note().Delete(ctx, note.ID))

	_, err := repo.Note().Get(ctx, note.ID)
	gt.Bool(t, errors.Is(err, interfaces.ErrNoteNotFound)).True()
}

func TestNoteRepositoryRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	gt.Error(t, repo.Note().Put(ctx, nil))

	bad := newStoredNote("Photosynthesis", time.Now().UTC())
	bad.ID = "not-a-uuid"
	gt.Error(t, repo.Note().Put(ctx, bad))
}

func TestVersionRepository(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	note := newStoredNote("Photosynthesis", time.Now().UTC())

	created := gt.R1(repo.Version().Create(ctx, &model.NoteVersion{
		NoteID:   note.ID,
		Label:    "Before editing definition",
		Document: note,
	})).NoError(t)

	// Missing ID and timestamp are filled in on create.
	gt.NoError(t, created.ID.Validate())
	gt.Bool(t, created.SavedAt.IsZero()).False()

	got := gt.R1(repo.Version().Get(ctx, note.ID, created.ID)).NoError(t)
	gt.Value(t, got.Label).Equal("Before editing definition")
	gt.Value(t, got.Document.Topic).Equal("Photosynthesis")

	// Snapshot isolation: mutating the source document later must not
	// change the stored version.
	note.Sections[0].Content = "mutated"
	snap := gt.R1(repo.Version().Get(ctx, note.ID, created.ID)).NoError(t)
	gt.Value(t, snap.Document.Sections[0].Content).Equal("body")
}

func TestVersionRepositoryList(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	noteID := types.NewNoteID()
	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	for i, label := range []string{"first", "second", "third"} {
		_, err := repo.Version().Create(ctx, &model.NoteVersion{
			NoteID:  noteID,
			Label:   label,
			SavedAt: base.Add(time.Duration(i) * time.Minute),
		})
		gt.NoError(t, err)
	}

	versions := gt.R1(repo.Version().List(ctx, noteID)).NoError(t)
	gt.Array(t, versions).Length(3)
	gt.Value(t, versions[0].Label).Equal("third")
	gt.Value(t, versions[2].Label).Equal("first")

	// Unrelated notes have no versions.
	other := gt.R1(repo.Version().List(ctx, types.NewNoteID())).NoError(t)
	gt.Array(t, other).Length(0)
}

func TestVersionRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	_, err := repo.Version().Get(ctx, types.NewNoteID(), types.NewVersionID())
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, interfaces.ErrVersionNotFound)).True()
}
