package notes_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gt"
	"github.com/studynotes-lab/grimoire/pkg/domain/model"
	"github.com/studynotes-lab/grimoire/pkg/domain/types"
	"github.com/studynotes-lab/grimoire/pkg/service/notes"
)

// mockLLMSession is a mock gollem Session for testing
type mockLLMSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
	generateStreamFn  func(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error)
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if s.generateContentFn != nil {
		return s.generateContentFn(ctx, input...)
	}
	return &gollem.Response{Texts: []string{photosynthesisJSON}}, nil
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	if s.generateStreamFn != nil {
		return s.generateStreamFn(ctx, input...)
	}
	return nil, nil
}

func (s *mockLLMSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockLLMSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

// mockLLMClient is a mock gollem LLMClient for testing
type mockLLMClient struct {
	newSessionFn func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error)
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	if c.newSessionFn != nil {
		return c.newSessionFn(ctx, options...)
	}
	return &mockLLMSession{}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

const photosynthesisJSON = `{
	"topic": "Photosynthesis",
	"educationLevel": "intermediate",
	"sections": [
		{"id": "definition", "title": "Definition", "content": "Photosynthesis is the process by which green plants convert light energy into chemical energy.", "icon": "BookOpen"},
		{"id": "explanation", "title": "Detailed Explanation", "content": "**Light Reactions**\nPhotons excite chlorophyll electrons.\n\n• produces oxygen\n• generates ATP", "icon": "Zap"},
		{"id": "keypoints", "title": "Key Points", "content": "• Occurs in chloroplasts\n• Requires light, water, and CO2", "icon": "List"},
		{"id": "applications", "title": "Real-Life Applications", "content": "Crop yield optimization and artificial photosynthesis research.", "icon": "Globe"},
		{"id": "summary", "title": "Summary", "content": "Plants turn sunlight into sugar and release oxygen.", "icon": "CheckCircle"}
	],
	"diagrams": [
		{"id": "diagram1", "title": "Chloroplast Structure", "description": "Cross-section of a chloroplast", "prompt": "labeled chloroplast cross-section"},
		{"id": "diagram2", "title": "Light Reactions", "description": "Electron transport chain", "prompt": "thylakoid membrane electron flow"}
	]
}`

func fixedClock() time.Time {
	return time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
}

func TestGenerate(t *testing.T) {
	llm := &mockLLMClient{}
	svc := gt.R1(notes.New(llm, notes.WithClock(fixedClock))).NoError(t)

	doc := gt.R1(svc.Generate(context.Background(), notes.Input{
		Topic:          "Photosynthesis",
		EducationLevel: types.LevelIntermediate,
	})).NoError(t)

	gt.Value(t, doc.Topic).Equal("Photosynthesis")
	gt.Value(t, doc.EducationLevel).Equal(types.LevelIntermediate)
	gt.NoError(t, doc.ID.Validate())
	gt.Value(t, doc.GeneratedAt).Equal(fixedClock())

	gt.Array(t, doc.Sections).Length(5)
	wantKinds := types.SectionKinds()
	for i, sec := range doc.Sections {
		gt.Value(t, sec.Kind).Equal(wantKinds[i])
		gt.Value(t, sec.Order).Equal(i + 1)
		gt.Bool(t, sec.Content != "").True()
		gt.Bool(t, sec.Icon != "").True()
	}
	gt.NoError(t, doc.Validate())

	gt.Array(t, doc.Diagrams).Length(2)
	gt.Value(t, doc.Diagrams[0].ID).Equal("diagram1")
	gt.Value(t, doc.Diagrams[0].Caption).Equal("Cross-section of a chloroplast")
	gt.Bool(t, doc.Diagrams[0].Resolved()).False()
}

func TestGenerateNormalizesSections(t *testing.T) {
	payload := `{
		"topic": "Gravity",
		"educationLevel": "basic",
		"sections": [
			{"id": "mystery", "title": "", "content": "Something unknown."},
			{"id": "summary", "title": "Wrap Up", "content": "Masses attract."}
		],
		"diagrams": [
			{"id": "", "title": "Falling Apple", "description": "apple and earth", "prompt": "apple falling toward earth"}
		]
	}`
	llm := &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockLLMSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return &gollem.Response{Texts: []string{payload}}, nil
				},
			}, nil
		},
	}
	svc := gt.R1(notes.New(llm)).NoError(t)

	doc := gt.R1(svc.Generate(context.Background(), notes.Input{Topic: "Gravity"})).NoError(t)

	// Unknown section id falls back to explanation with its default title and icon.
	gt.Value(t, doc.Sections[0].Kind).Equal(types.SectionExplanation)
	gt.Value(t, doc.Sections[0].Title).Equal(types.SectionExplanation.DefaultTitle())
	gt.Value(t, doc.Sections[0].Icon).Equal(types.SectionExplanation.Icon())
	gt.Value(t, doc.Sections[1].Kind).Equal(types.SectionSummary)
	gt.Value(t, doc.Sections[1].Title).Equal("Wrap Up")

	// Missing diagram id gets a positional fallback.
	gt.Value(t, doc.Diagrams[0].ID).Equal("diagram1")

	// Absent level defaults.
	gt.Value(t, doc.EducationLevel).Equal(types.LevelIntermediate)
}

func TestGenerateRejectsEmptyTopic(t *testing.T) {
	svc := gt.R1(notes.New(&mockLLMClient{})).NoError(t)

	_, err := svc.Generate(context.Background(), notes.Input{Topic: "   "})
	gt.Error(t, err)
	gt.Bool(t, goerr.HasTag(err, model.TagValidation)).True()
}

func TestGenerateParseFailure(t *testing.T) {
	cases := map[string]struct {
		response *gollem.Response
	}{
		"malformed JSON": {
			response: &gollem.Response{Texts: []string{"I cannot produce JSON today."}},
		},
		"empty response": {
			response: &gollem.Response{},
		},
		"no sections": {
			response: &gollem.Response{Texts: []string{`{"topic": "X", "sections": [], "diagrams": []}`}},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			llm := &mockLLMClient{
				newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
					return &mockLLMSession{
						generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
							return tc.response, nil
						},
					}, nil
				},
			}
			svc := gt.R1(notes.New(llm)).NoError(t)

			_, err := svc.Generate(context.Background(), notes.Input{Topic: "Photosynthesis"})
			gt.Error(t, err)
			gt.Bool(t, goerr.HasTag(err, model.TagGenerationParse)).True()
		})
	}
}

func TestGenerateProviderFailure(t *testing.T) {
	llm := &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockLLMSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return nil, errors.New("model unavailable")
				},
			}, nil
		},
	}
	svc := gt.R1(notes.New(llm)).NoError(t)

	_, err := svc.Generate(context.Background(), notes.Input{Topic: "Photosynthesis"})
	gt.Error(t, err)
	gt.Bool(t, goerr.HasTag(err, model.TagProvider)).True()
}

func TestRegenerateSection(t *testing.T) {
	var captured string
	llm := &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockLLMSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					if text, ok := input[0].(gollem.Text); ok {
						captured = string(text)
					}
					return &gollem.Response{Texts: []string{"A refreshed definition of photosynthesis."}}, nil
				},
			}, nil
		},
	}
	svc := gt.R1(notes.New(llm, notes.WithClock(fixedClock))).NoError(t)

	result := gt.R1(svc.RegenerateSection(context.Background(), notes.SectionInput{
		Kind:           types.SectionDefinition,
		Topic:          "Photosynthesis",
		EducationLevel: types.LevelBasic,
	})).NoError(t)

	gt.Value(t, result.Kind).Equal(types.SectionDefinition)
	gt.Value(t, result.Content).Equal("A refreshed definition of photosynthesis.")
	gt.Value(t, result.RegeneratedAt).Equal(fixedClock())

	gt.String(t, captured).Contains("definition")
	gt.String(t, captured).Contains("Photosynthesis")
	gt.String(t, captured).Contains("basic")
}

func TestRegenerateSectionPromptPerKind(t *testing.T) {
	cases := map[types.SectionKind]string{
		types.SectionDefinition:       "definition of",
		types.SectionKeyPoints:        "key points",
		types.SectionApplications:     "real-life applications",
		types.SectionSummary:          "concise summary",
		types.SectionExplanation:      "detailed explanation",
		types.SectionKind("whatever"): "detailed explanation", // unknown kind falls back
	}

	for kind, fragment := range cases {
		t.Run(string(kind), func(t *testing.T) {
			var captured string
			llm := &mockLLMClient{
				newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
					return &mockLLMSession{
						generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
							if text, ok := input[0].(gollem.Text); ok {
								captured = string(text)
							}
							return &gollem.Response{Texts: []string{"content"}}, nil
						},
					}, nil
				},
			}
			svc := gt.R1(notes.New(llm)).NoError(t)

			gt.R1(svc.RegenerateSection(context.Background(), notes.SectionInput{
				Kind:  kind,
				Topic: "Photosynthesis",
			})).NoError(t)

			gt.String(t, strings.ToLower(captured)).Contains(fragment)
		})
	}
}

func TestRegenerateSectionEmptyResponse(t *testing.T) {
	llm := &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockLLMSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return &gollem.Response{Texts: []string{"   "}}, nil
				},
			}, nil
		},
	}
	svc := gt.R1(notes.New(llm)).NoError(t)

	_, err := svc.RegenerateSection(context.Background(), notes.SectionInput{
		Kind:  types.SectionSummary,
		Topic: "Photosynthesis",
	})
	gt.Error(t, err)
	gt.Bool(t, goerr.HasTag(err, model.TagRegeneration)).True()
}

func TestGenerateStream(t *testing.T) {
	stream := make(chan *gollem.Response, 3)
	stream <- &gollem.Response{Texts: []string{"chunk one "}}
	stream <- &gollem.Response{Texts: []string{""}}
	stream <- &gollem.Response{Texts: []string{"chunk two"}}
	close(stream)

	llm := &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockLLMSession{
				generateStreamFn: func(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
					return stream, nil
				},
			}, nil
		},
	}
	svc := gt.R1(notes.New(llm)).NoError(t)

	var chunks []string
	err := svc.GenerateStream(context.Background(), notes.Input{Topic: "Photosynthesis"}, func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	gt.NoError(t, err)
	gt.Array(t, chunks).Length(2)
	gt.Value(t, strings.Join(chunks, "")).Equal("chunk one chunk two")
}

func TestNewRequiresClient(t *testing.T) {
	_, err := notes.New(nil)
	gt.Error(t, err)
}

func TestGenerateFixtureIsValidSchema(t *testing.T) {
	// Guards the mock payload against drifting out of the real wire format.
	var parsed map[string]any
	gt.NoError(t, json.Unmarshal([]byte(photosynthesisJSON), &parsed))
	gt.Value(t, parsed["topic"]).Equal("Photosynthesis")
}

func TestGenerateWithRealGemini(t *testing.T) {
	projectID := os.Getenv("TEST_GEMINI_PROJECT_ID")
	location := os.Getenv("TEST_GEMINI_LOCATION")
	if projectID == "" || location == "" {
		t.Skip("TEST_GEMINI_PROJECT_ID and TEST_GEMINI_LOCATION are not set")
	}

	ctx := context.Background()
	llm := gt.R1(gemini.New(ctx, projectID, location)).NoError(t)
	svc := gt.R1(notes.New(llm)).NoError(t)

	doc := gt.R1(svc.Generate(ctx, notes.Input{
		Topic:          "Photosynthesis",
		EducationLevel: types.LevelIntermediate,
	})).NoError(t)

	gt.Array(t, doc.Sections).Length(5)
	gt.NoError(t, doc.Validate())
}
