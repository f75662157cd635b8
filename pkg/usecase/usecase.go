package usecase

import (
	"github.com/studynotes-lab/grimoire/pkg/domain/interfaces"
	"github.com/studynotes-lab/grimoire/pkg/service/diagram"
	"github.com/studynotes-lab/grimoire/pkg/service/notes"
	"github.com/studynotes-lab/grimoire/pkg/service/pdf"
)

// diagramConcurrency bounds parallel image requests per generation
const diagramConcurrency = 3

// NoteUseCase orchestrates note generation, regeneration, and export
type NoteUseCase struct {
	repo        interfaces.Repository
	notes       notes.Service
	diagrams    diagram.Service
	exporter    pdf.Service
	imgFallback func(prompt, topic string) ([]byte, error)
}

// Option is a functional option for NoteUseCase configuration
type Option func(*NoteUseCase)

// WithDiagramService enables image resolution for generated diagram
// descriptors. Without it, diagrams stay unresolved.
func WithDiagramService(svc diagram.Service) Option {
	return func(uc *NoteUseCase) {
		uc.diagrams = svc
	}
}

// WithExporter overrides the PDF export service
func WithExporter(svc pdf.Service) Option {
	return func(uc *NoteUseCase) {
		uc.exporter = svc
	}
}

// WithImageFallback supplies a local renderer used when a diagram image
// request fails. The fallback is optional; the default behavior keeps the
// diagram unresolved.
func WithImageFallback(fn func(prompt, topic string) ([]byte, error)) Option {
	return func(uc *NoteUseCase) {
		uc.imgFallback = fn
	}
}

// New creates a new NoteUseCase
func New(repo interfaces.Repository, notesSvc notes.Service, opts ...Option) *NoteUseCase {
	uc := &NoteUseCase{
		repo:     repo,
		notes:    notesSvc,
		exporter: pdf.New(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
