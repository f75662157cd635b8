package notes

import (
	"context"
	"time"

	"github.com/studynotes-lab/grimoire/pkg/domain/model"
	"github.com/studynotes-lab/grimoire/pkg/domain/types"
)

// Service defines the interface for structured study note generation
type Service interface {
	// Generate produces a full note document skeleton for a topic: ordered
	// sections plus diagram descriptors, without resolved images
	Generate(ctx context.Context, input Input) (*model.NoteDocument, error)

	// RegenerateSection produces fresh content for a single section without
	// touching the rest of the document
	RegenerateSection(ctx context.Context, input SectionInput) (*SectionResult, error)

	// GenerateStream produces free-form note text and delivers it chunk by
	// chunk. Used for progress display; the structured pipeline does not
	// depend on it.
	GenerateStream(ctx context.Context, input Input, fn func(chunk string) error) error
}

// Input represents a note generation request
type Input struct {
	Topic              string
	EducationLevel     types.EducationLevel
	CustomRequirements string
}

// SectionInput represents a scoped section regeneration request
type SectionInput struct {
	Kind               types.SectionKind
	Topic              string
	EducationLevel     types.EducationLevel
	CustomRequirements string
}

// SectionResult is the outcome of a section regeneration
type SectionResult struct {
	Kind          types.SectionKind
	Content       string
	RegeneratedAt time.Time
}

// llmNote is the structured output from the LLM
type llmNote struct {
	Topic          string       `json:"topic"`
	EducationLevel string       `json:"educationLevel"`
	Sections       []llmSection `json:"sections"`
	Diagrams       []llmDiagram `json:"diagrams"`
}

type llmSection struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Icon    string `json:"icon"`
}

type llmDiagram struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
}
