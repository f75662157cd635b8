package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/studynotes-lab/grimoire/pkg/domain/types"
)

// NoteDocument is the generated study note artifact: an ordered set of
// titled sections plus diagram descriptors with optionally resolved images.
// A document either exists in full or generation has failed; there is no
// partially valid state. GeneratedAt is set once at creation and never
// changes, regardless of later section or diagram regeneration.
type NoteDocument struct {
	ID             types.NoteID
	Topic          string
	EducationLevel types.EducationLevel
	Sections       []Section
	Diagrams       []Diagram
	GeneratedAt    time.Time
	UpdatedAt      time.Time
}

// Section is one titled block of note content. Content uses two inline
// conventions: a line wrapped in ** markers is a sub-heading, a line
// starting with a bullet marker is a list item. Blank lines separate
// paragraphs.
type Section struct {
	Kind    types.SectionKind
	Title   string
	Content string
	Icon    string
	Order   int
}

// Diagram binds a generation prompt to an optionally resolved image.
// ImageData is nil until the image request succeeds; a nil payload is not
// an error state, the owning document stays valid without it.
type Diagram struct {
	ID                string
	Title             string
	Caption           string
	Prompt            string
	CustomDescription string
	ImageData         []byte
}

// Resolved reports whether the diagram has an image payload attached.
func (d *Diagram) Resolved() bool {
	return len(d.ImageData) > 0
}

// EffectivePrompt merges the user-supplied custom description into the base
// prompt. The custom description takes precedence when present.
func (d *Diagram) EffectivePrompt() string {
	if desc := strings.TrimSpace(d.CustomDescription); desc != "" {
		return desc
	}
	if desc := strings.TrimSpace(d.Caption); desc != "" {
		return desc
	}
	return d.Prompt
}

// Validate checks the structural invariants of the document: a non-empty
// topic, at least one section, and section orders forming a contiguous
// 1..N permutation.
func (n *NoteDocument) Validate() error {
	if strings.TrimSpace(n.Topic) == "" {
		return goerr.New("note topic is required", goerr.T(TagValidation))
	}
	if len(n.Sections) == 0 {
		return goerr.New("note document must have at least one section",
			goerr.T(TagValidation), goerr.V("topic", n.Topic))
	}

	seen := make(map[int]bool, len(n.Sections))
	for _, s := range n.Sections {
		if s.Order < 1 || s.Order > len(n.Sections) {
			return goerr.New("section order out of range",
				goerr.T(TagValidation),
				goerr.V("kind", s.Kind), goerr.V("order", s.Order))
		}
		if seen[s.Order] {
			return goerr.New("duplicate section order",
				goerr.T(TagValidation),
				goerr.V("kind", s.Kind), goerr.V("order", s.Order))
		}
		seen[s.Order] = true
	}
	return nil
}

// NormalizeSectionOrder rewrites section orders to a contiguous 1..N
// sequence following the current slice position.
func (n *NoteDocument) NormalizeSectionOrder() {
	for i := range n.Sections {
		n.Sections[i].Order = i + 1
	}
}

// SectionByKind returns the section with the given kind, or nil.
func (n *NoteDocument) SectionByKind(kind types.SectionKind) *Section {
	for i := range n.Sections {
		if n.Sections[i].Kind == kind {
			return &n.Sections[i]
		}
	}
	return nil
}

// DiagramByID returns the diagram with the given ID, or nil.
func (n *NoteDocument) DiagramByID(id string) *Diagram {
	for i := range n.Diagrams {
		if n.Diagrams[i].ID == id {
			return &n.Diagrams[i]
		}
	}
	return nil
}

// ReorderSections rearranges sections to match the given kind sequence and
// reassigns orders as a contiguous 1..N permutation. The operation is
// idempotent: applying the same target order twice yields identical results.
// Every existing section kind must appear exactly once in kinds.
func (n *NoteDocument) ReorderSections(kinds []types.SectionKind) error {
	if len(kinds) != len(n.Sections) {
		return goerr.New("reorder must list every section exactly once",
			goerr.T(TagValidation),
			goerr.V("want", len(n.Sections)), goerr.V("got", len(kinds)))
	}

	reordered := make([]Section, 0, len(n.Sections))
	seen := make(map[types.SectionKind]bool, len(kinds))
	for _, kind := range kinds {
		if seen[kind] {
			return goerr.New("duplicate section kind in reorder",
				goerr.T(TagValidation), goerr.V("kind", kind))
		}
		seen[kind] = true

		sec := n.SectionByKind(kind)
		if sec == nil {
			return goerr.New("unknown section kind in reorder",
				goerr.T(TagValidation), goerr.V("kind", kind))
		}
		reordered = append(reordered, *sec)
	}

	n.Sections = reordered
	n.NormalizeSectionOrder()
	return nil
}

// Clone returns a deep copy of the document. Image payloads are copied so
// the clone shares no mutable state with the original.
func (n *NoteDocument) Clone() *NoteDocument {
	copied := &NoteDocument{
		ID:             n.ID,
		Topic:          n.Topic,
		EducationLevel: n.EducationLevel,
		GeneratedAt:    n.GeneratedAt,
		UpdatedAt:      n.UpdatedAt,
	}
	if n.Sections != nil {
		copied.Sections = make([]Section, len(n.Sections))
		copy(copied.Sections, n.Sections)
	}
	if n.Diagrams != nil {
		copied.Diagrams = make([]Diagram, len(n.Diagrams))
		for i, d := range n.Diagrams {
			copied.Diagrams[i] = d
			if d.ImageData != nil {
				copied.Diagrams[i].ImageData = make([]byte, len(d.ImageData))
				copy(copied.Diagrams[i].ImageData, d.ImageData)
			}
		}
	}
	return copied
}
