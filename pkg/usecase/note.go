package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/studynotes-lab/grimoire/pkg/domain/model"
	"github.com/studynotes-lab/grimoire/pkg/domain/types"
	"github.com/studynotes-lab/grimoire/pkg/service/notes"
	"github.com/studynotes-lab/grimoire/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// GenerateNote produces a full note document: one structured content
// request, then one independent image request per diagram descriptor. The
// structured request must succeed; diagram failures degrade to unresolved
// diagrams and never abort the operation.
func (uc *NoteUseCase) GenerateNote(ctx context.Context, topic string, level types.EducationLevel, customReqs string) (*model.NoteDocument, error) {
	doc, err := uc.notes.Generate(ctx, notes.Input{
		Topic:              topic,
		EducationLevel:     level,
		CustomRequirements: customReqs,
	})
	if err != nil {
		return nil, err
	}

	uc.resolveDiagrams(ctx, doc)

	if err := uc.repo.Note().Put(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to store generated note")
	}

	return doc, nil
}

// resolveDiagrams issues one image request per descriptor with bounded
// concurrency. Results are written by descriptor index, so the diagram
// order never depends on completion order. Each failure is contained: the
// diagram keeps a nil payload and the rest continue.
func (uc *NoteUseCase) resolveDiagrams(ctx context.Context, doc *model.NoteDocument) {
	if uc.diagrams == nil || len(doc.Diagrams) == 0 {
		return
	}

	logger := logging.From(ctx)

	var g errgroup.Group
	g.SetLimit(diagramConcurrency)
	for i := range doc.Diagrams {
		g.Go(func() error {
			d := &doc.Diagrams[i]
			data, err := uc.diagrams.GenerateImage(ctx, d.Prompt, doc.Topic)
			if err != nil {
				logger.Warn("diagram image generation failed",
					"diagramID", d.ID, "topic", doc.Topic, "error", err.Error())

				if uc.imgFallback != nil {
					if fallback, ferr := uc.imgFallback(d.Prompt, doc.Topic); ferr == nil {
						d.ImageData = fallback
					}
				}
				return nil
			}
			d.ImageData = data
			return nil
		})
	}
	_ = g.Wait()
}

// RegenerateSection replaces the content of one section, leaving its title
// and order untouched. On failure the stored section is unmodified.
func (uc *NoteUseCase) RegenerateSection(ctx context.Context, noteID types.NoteID, kind types.SectionKind, customReqs string) (*model.Section, error) {
	doc, err := uc.repo.Note().Get(ctx, noteID)
	if err != nil {
		return nil, err
	}

	sec := doc.SectionByKind(kind)
	if sec == nil {
		return nil, goerr.Wrap(ErrSectionNotFound, "cannot regenerate section",
			goerr.V("noteID", noteID), goerr.V("kind", kind))
	}

	result, err := uc.notes.RegenerateSection(ctx, notes.SectionInput{
		Kind:               kind,
		Topic:              doc.Topic,
		EducationLevel:     doc.EducationLevel,
		CustomRequirements: customReqs,
	})
	if err != nil {
		return nil, err
	}

	uc.snapshot(ctx, doc, "Before regenerating "+kind.String())

	sec.Content = result.Content
	doc.UpdatedAt = result.RegeneratedAt

	if err := uc.repo.Note().Put(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to store regenerated section")
	}

	updated := *sec
	return &updated, nil
}

// RegenerateDiagram requests a fresh image for one diagram, merging the
// optional custom description into the prompt. The replacement is
// optimistic: on failure the existing payload stays in place.
func (uc *NoteUseCase) RegenerateDiagram(ctx context.Context, noteID types.NoteID, diagramID, customDescription string) ([]byte, error) {
	if uc.diagrams == nil {
		return nil, goerr.New("diagram service is not configured", goerr.T(model.TagProvider))
	}

	doc, err := uc.repo.Note().Get(ctx, noteID)
	if err != nil {
		return nil, err
	}

	d := doc.DiagramByID(diagramID)
	if d == nil {
		return nil, goerr.Wrap(ErrDiagramNotFound, "cannot regenerate diagram",
			goerr.V("noteID", noteID), goerr.V("diagramID", diagramID))
	}

	if strings.TrimSpace(customDescription) != "" {
		d.CustomDescription = customDescription
	}

	data, err := uc.diagrams.GenerateImage(ctx, d.EffectivePrompt(), doc.Topic)
	if err != nil {
		return nil, goerr.Wrap(err, "diagram regeneration failed",
			goerr.T(model.TagRegeneration),
			goerr.V("noteID", noteID), goerr.V("diagramID", diagramID))
	}

	d.ImageData = data
	doc.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Note().Put(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to store regenerated diagram")
	}

	return data, nil
}

// UpdateSectionContent applies a user edit to one section's content
func (uc *NoteUseCase) UpdateSectionContent(ctx context.Context, noteID types.NoteID, kind types.SectionKind, content string) (*model.Section, error) {
	doc, err := uc.repo.Note().Get(ctx, noteID)
	if err != nil {
		return nil, err
	}

	sec := doc.SectionByKind(kind)
	if sec == nil {
		return nil, goerr.Wrap(ErrSectionNotFound, "cannot update section",
			goerr.V("noteID", noteID), goerr.V("kind", kind))
	}

	uc.snapshot(ctx, doc, "Before editing "+kind.String())

	sec.Content = content
	doc.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Note().Put(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to store section update")
	}

	updated := *sec
	return &updated, nil
}

// ReorderSections rearranges sections to the given kind sequence
func (uc *NoteUseCase) ReorderSections(ctx context.Context, noteID types.NoteID, kinds []types.SectionKind) (*model.NoteDocument, error) {
	doc, err := uc.repo.Note().Get(ctx, noteID)
	if err != nil {
		return nil, err
	}

	if err := doc.ReorderSections(kinds); err != nil {
		return nil, err
	}
	doc.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Note().Put(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to store reordered note")
	}

	return doc, nil
}

// GetNote retrieves a note document by ID
func (uc *NoteUseCase) GetNote(ctx context.Context, noteID types.NoteID) (*model.NoteDocument, error) {
	return uc.repo.Note().Get(ctx, noteID)
}

// ListNotes retrieves all stored note documents
func (uc *NoteUseCase) ListNotes(ctx context.Context) ([]*model.NoteDocument, error) {
	return uc.repo.Note().List(ctx)
}

// DeleteNote removes a note document
func (uc *NoteUseCase) DeleteNote(ctx context.Context, noteID types.NoteID) error {
	return uc.repo.Note().Delete(ctx, noteID)
}

// ListVersions retrieves the version history of a note
func (uc *NoteUseCase) ListVersions(ctx context.Context, noteID types.NoteID) ([]*model.NoteVersion, error) {
	return uc.repo.Version().List(ctx, noteID)
}

// RestoreVersion replaces the current note content with a stored snapshot.
// The current state is snapshotted first so the restore itself can be
// undone.
func (uc *NoteUseCase) RestoreVersion(ctx context.Context, noteID types.NoteID, versionID types.VersionID) (*model.NoteDocument, error) {
	version, err := uc.repo.Version().Get(ctx, noteID, versionID)
	if err != nil {
		return nil, err
	}

	current, err := uc.repo.Note().Get(ctx, noteID)
	if err != nil {
		return nil, err
	}
	uc.snapshot(ctx, current, "Before restoring version")

	restored := version.Document.Clone()
	restored.ID = noteID
	restored.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Note().Put(ctx, restored); err != nil {
		return nil, goerr.Wrap(err, "failed to store restored note")
	}

	return restored, nil
}

// snapshot records a version of the current document state. Snapshot
// failures are logged and otherwise ignored: version history is a
// convenience, not a correctness requirement.
func (uc *NoteUseCase) snapshot(ctx context.Context, doc *model.NoteDocument, label string) {
	_, err := uc.repo.Version().Create(ctx, &model.NoteVersion{
		NoteID:   doc.ID,
		Label:    label,
		SavedAt:  time.Now().UTC(),
		Document: doc.Clone(),
	})
	if err != nil {
		logging.From(ctx).Warn("failed to record note version",
			"noteID", doc.ID, "label", label, "error", err.Error())
	}
}
