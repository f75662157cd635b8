package notes

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/studynotes-lab/grimoire/pkg/domain/model"
	"github.com/studynotes-lab/grimoire/pkg/domain/types"
)

// client implements Service interface
type client struct {
	llmClient gollem.LLMClient
	now       func() time.Time
}

// Option is a functional option for client configuration
type Option func(*client)

// WithClock overrides the timestamp source, used by tests
func WithClock(now func() time.Time) Option {
	return func(c *client) {
		c.now = now
	}
}

// New creates a new note generation service with the provided LLM client
func New(llmClient gollem.LLMClient, opts ...Option) (Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	c := &client{
		llmClient: llmClient,
		now:       func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Generate requests a structured note document from the LLM and parses it
// into the note schema. Diagram descriptors come back unresolved; image
// generation is a separate concern.
func (c *client) Generate(ctx context.Context, input Input) (*model.NoteDocument, error) {
	topic := strings.TrimSpace(input.Topic)
	if topic == "" {
		return nil, goerr.New("topic must not be empty", goerr.T(model.TagValidation))
	}
	input.Topic = topic
	input.EducationLevel = input.EducationLevel.OrDefault()

	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildNoteSchema()),
		gollem.WithSessionSystemPrompt(buildSystemPrompt()),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session", goerr.T(model.TagProvider))
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(buildUserPrompt(input)))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate note content",
			goerr.T(model.TagProvider), goerr.V("topic", topic))
	}
	if len(resp.Texts) == 0 {
		return nil, goerr.New("empty response from LLM",
			goerr.T(model.TagGenerationParse), goerr.V("topic", topic))
	}

	var parsed llmNote
	if err := json.Unmarshal([]byte(resp.Texts[0]), &parsed); err != nil {
		return nil, goerr.Wrap(err, "failed to parse note content",
			goerr.T(model.TagGenerationParse),
			goerr.V("topic", topic), goerr.V("response", resp.Texts[0]))
	}
	if len(parsed.Sections) == 0 {
		return nil, goerr.New("note content has no sections",
			goerr.T(model.TagGenerationParse), goerr.V("topic", topic))
	}

	return c.buildDocument(input, &parsed), nil
}

// buildDocument converts the parsed LLM payload into a NoteDocument,
// normalizing section kinds and assigning contiguous orders.
func (c *client) buildDocument(input Input, parsed *llmNote) *model.NoteDocument {
	now := c.now()

	doc := &model.NoteDocument{
		ID:             types.NewNoteID(),
		Topic:          input.Topic,
		EducationLevel: input.EducationLevel,
		GeneratedAt:    now,
		UpdatedAt:      now,
	}

	doc.Sections = make([]model.Section, 0, len(parsed.Sections))
	for _, s := range parsed.Sections {
		kind := types.SectionKind(s.ID).Normalize()
		title := s.Title
		if title == "" {
			title = kind.DefaultTitle()
		}
		icon := s.Icon
		if icon == "" {
			icon = kind.Icon()
		}
		doc.Sections = append(doc.Sections, model.Section{
			Kind:    kind,
			Title:   title,
			Content: s.Content,
			Icon:    icon,
		})
	}
	doc.NormalizeSectionOrder()

	doc.Diagrams = make([]model.Diagram, 0, len(parsed.Diagrams))
	for i, d := range parsed.Diagrams {
		id := d.ID
		if id == "" {
			id = fmt.Sprintf("diagram%d", i+1)
		}
		doc.Diagrams = append(doc.Diagrams, model.Diagram{
			ID:      id,
			Title:   d.Title,
			Caption: d.Description,
			Prompt:  d.Prompt,
		})
	}

	return doc
}

// RegenerateSection requests fresh content for one section. The caller is
// responsible for splicing the result back into the owning document.
func (c *client) RegenerateSection(ctx context.Context, input SectionInput) (*SectionResult, error) {
	topic := strings.TrimSpace(input.Topic)
	if topic == "" {
		return nil, goerr.New("topic must not be empty", goerr.T(model.TagValidation))
	}
	input.Topic = topic
	input.EducationLevel = input.EducationLevel.OrDefault()

	session, err := c.llmClient.NewSession(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session",
			goerr.T(model.TagRegeneration), goerr.V("kind", input.Kind))
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(sectionPrompt(input)))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to regenerate section",
			goerr.T(model.TagRegeneration),
			goerr.V("kind", input.Kind), goerr.V("topic", topic))
	}
	if len(resp.Texts) == 0 || strings.TrimSpace(resp.Texts[0]) == "" {
		return nil, goerr.New("empty section content from LLM",
			goerr.T(model.TagRegeneration),
			goerr.V("kind", input.Kind), goerr.V("topic", topic))
	}

	return &SectionResult{
		Kind:          input.Kind.Normalize(),
		Content:       resp.Texts[0],
		RegeneratedAt: c.now(),
	}, nil
}

// GenerateStream produces free-form note text, delivering each chunk to fn
// as it arrives. A non-nil error from fn aborts the stream.
func (c *client) GenerateStream(ctx context.Context, input Input, fn func(chunk string) error) error {
	topic := strings.TrimSpace(input.Topic)
	if topic == "" {
		return goerr.New("topic must not be empty", goerr.T(model.TagValidation))
	}
	input.Topic = topic
	input.EducationLevel = input.EducationLevel.OrDefault()

	session, err := c.llmClient.NewSession(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to create LLM session", goerr.T(model.TagProvider))
	}

	stream, err := session.GenerateStream(ctx, gollem.Text(buildStreamPrompt(input)))
	if err != nil {
		return goerr.Wrap(err, "failed to start note stream",
			goerr.T(model.TagProvider), goerr.V("topic", topic))
	}

	for resp := range stream {
		for _, text := range resp.Texts {
			if text == "" {
				continue
			}
			if err := fn(text); err != nil {
				return goerr.Wrap(err, "stream consumer failed")
			}
		}
	}

	return nil
}

// buildNoteSchema creates the JSON schema for structured note output
func buildNoteSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "StudyNotes",
		Description: "Structured study notes with ordered sections and diagram descriptors",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"topic": {
				Type:        gollem.TypeString,
				Description: "The study topic",
			},
			"educationLevel": {
				Type:        gollem.TypeString,
				Description: "One of basic, intermediate, advanced",
			},
			"sections": {
				Type:        gollem.TypeArray,
				Description: "Ordered note sections",
				Items: &gollem.Parameter{
					Type: gollem.TypeObject,
					Properties: map[string]*gollem.Parameter{
						"id": {
							Type:        gollem.TypeString,
							Description: "Section identifier: definition, explanation, keypoints, applications, or summary",
						},
						"title": {
							Type:        gollem.TypeString,
							Description: "Human readable section heading",
						},
						"content": {
							Type:        gollem.TypeString,
							Description: "Section body text with ** sub-headings and • bullets",
						},
						"icon": {
							Type:        gollem.TypeString,
							Description: "Icon hint for the section",
						},
					},
					Required: []string{"id", "title", "content"},
				},
			},
			"diagrams": {
				Type:        gollem.TypeArray,
				Description: "Diagram descriptors to be rendered as images",
				Items: &gollem.Parameter{
					Type: gollem.TypeObject,
					Properties: map[string]*gollem.Parameter{
						"id": {
							Type:        gollem.TypeString,
							Description: "Diagram identifier",
						},
						"title": {
							Type:        gollem.TypeString,
							Description: "Diagram title",
						},
						"description": {
							Type:        gollem.TypeString,
							Description: "Detailed description for diagram generation",
						},
						"prompt": {
							Type:        gollem.TypeString,
							Description: "Specific prompt for educational diagram generation",
						},
					},
					Required: []string{"id", "title", "description", "prompt"},
				},
			},
		},
		Required: []string{"topic", "educationLevel", "sections", "diagrams"},
	}
}
