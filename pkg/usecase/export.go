package usecase

import (
	"context"

	"github.com/studynotes-lab/grimoire/pkg/domain/types"
	"github.com/studynotes-lab/grimoire/pkg/service/notes"
	"github.com/studynotes-lab/grimoire/pkg/service/pdf"
)

// ExportNote renders a stored note document into a paginated PDF
func (uc *NoteUseCase) ExportNote(ctx context.Context, noteID types.NoteID) (*pdf.Result, error) {
	doc, err := uc.repo.Note().Get(ctx, noteID)
	if err != nil {
		return nil, err
	}

	images := make(map[string][]byte, len(doc.Diagrams))
	for _, d := range doc.Diagrams {
		if d.Resolved() {
			images[d.ID] = d.ImageData
		}
	}

	return uc.exporter.Export(doc, images)
}

// StreamPreview streams free-form note text for progress display without
// producing a structured document
func (uc *NoteUseCase) StreamPreview(ctx context.Context, topic string, level types.EducationLevel, customReqs string, fn func(chunk string) error) error {
	return uc.notes.GenerateStream(ctx, notes.Input{
		Topic:              topic,
		EducationLevel:     level,
		CustomRequirements: customReqs,
	}, fn)
}
