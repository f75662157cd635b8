package diagram

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/studynotes-lab/grimoire/pkg/domain/model"
	"google.golang.org/genai"
)

// Service defines the interface for diagram image generation
type Service interface {
	// GenerateImage renders an educational diagram for the prompt and topic.
	// It returns the raw PNG payload on success. Failures are per-call and
	// never affect sibling requests.
	GenerateImage(ctx context.Context, prompt, topic string) ([]byte, error)
}

// defaultModel is the Gemini model used for image generation
const defaultModel = "gemini-2.0-flash-preview-image-generation"

// client implements Service on top of the Gemini API
type client struct {
	genaiClient *genai.Client
	model       string
}

// Option is a functional option for client configuration
type Option func(*client)

// WithModel overrides the image generation model
func WithModel(model string) Option {
	return func(c *client) {
		c.model = model
	}
}

// New creates a new diagram service with the provided Gemini client
func New(genaiClient *genai.Client, opts ...Option) (Service, error) {
	if genaiClient == nil {
		return nil, goerr.New("genai client is required")
	}

	c := &client{
		genaiClient: genaiClient,
		model:       defaultModel,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// GenerateImage requests one educational diagram image from the provider
func (c *client) GenerateImage(ctx context.Context, prompt, topic string) ([]byte, error) {
	resp, err := c.genaiClient.Models.GenerateContent(ctx, c.model,
		genai.Text(buildImagePrompt(prompt, topic)),
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
		},
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate diagram image",
			goerr.T(model.TagProvider), goerr.V("topic", topic))
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}

	return nil, goerr.New("no image data received from provider",
		goerr.T(model.TagProvider), goerr.V("topic", topic))
}

// buildImagePrompt wraps the diagram description into the educational
// diagram prompt template
func buildImagePrompt(prompt, topic string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Create an educational diagram for the topic %q.\n\n", topic)
	sb.WriteString("Diagram requirements:\n")
	fmt.Fprintf(&sb, "- %s\n", prompt)
	sb.WriteString("- Include clear labels and annotations\n")
	sb.WriteString("- Use educational colors and professional styling\n")
	sb.WriteString("- Make it suitable for study purposes\n")
	sb.WriteString("- Include key terminology and concepts\n")
	sb.WriteString("- Design should be clean and easy to understand\n\n")
	sb.WriteString("The diagram should be informative, visually appealing, and help students understand the concept better.")

	return sb.String()
}
