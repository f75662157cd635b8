package notes

import (
	"fmt"
	"strings"

	"github.com/studynotes-lab/grimoire/pkg/domain/types"
)

// buildSystemPrompt creates the fixed system prompt for note generation
func buildSystemPrompt() string {
	var sb strings.Builder

	sb.WriteString("You are a study note generation assistant. Your task is to produce comprehensive, well-structured study notes for a given topic.\n\n")
	sb.WriteString("## Instructions:\n\n")
	sb.WriteString("1. Content must be educational and accurate.\n")
	sb.WriteString("2. Include specific examples and practical applications.\n")
	sb.WriteString("3. Use terminology appropriate for the requested education level.\n")
	sb.WriteString("4. Format section content with line breaks for readability. Wrap sub-headings in ** markers and prefix list items with the • bullet.\n")
	sb.WriteString("5. Include 2-3 relevant diagram descriptions with specific, educational image prompts.\n")
	sb.WriteString("6. Return only the JSON object, no additional text.\n")

	return sb.String()
}

// buildUserPrompt creates the generation prompt for a full note document
func buildUserPrompt(input Input) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Generate comprehensive study notes for the topic: %q\n\n", input.Topic)
	fmt.Fprintf(&sb, "Educational Level: %s (%s)\n",
		input.EducationLevel, input.EducationLevel.Description())
	if input.CustomRequirements != "" {
		fmt.Fprintf(&sb, "Additional Requirements: %s\n", input.CustomRequirements)
	}

	sb.WriteString("\nThe notes must contain exactly these sections, in this order:\n")
	for _, kind := range types.SectionKinds() {
		fmt.Fprintf(&sb, "- id %q, title %q, icon %q\n",
			kind, kind.DefaultTitle(), kind.Icon())
	}
	sb.WriteString("\nEach diagram needs an id, a title, a detailed description, and a specific prompt for educational diagram generation.\n")

	return sb.String()
}

// sectionPrompt returns the regeneration prompt for a single section kind.
// Unknown kinds use the explanation template.
func sectionPrompt(input SectionInput) string {
	topic := input.Topic
	level := input.EducationLevel

	var base string
	switch input.Kind.Normalize() {
	case types.SectionDefinition:
		base = fmt.Sprintf("Provide a clear, comprehensive definition of %q suitable for %s level students.", topic, level)
	case types.SectionKeyPoints:
		base = fmt.Sprintf("List the most important key points, facts, and takeaways about %q for %s level students.", topic, level)
	case types.SectionApplications:
		base = fmt.Sprintf("Describe real-life applications, examples, and practical relevance of %q for %s level.", topic, level)
	case types.SectionSummary:
		base = fmt.Sprintf("Provide a concise summary of %q that ties together all key concepts for %s level students.", topic, level)
	default:
		base = fmt.Sprintf("Provide a detailed explanation of %q including key concepts, processes, and mechanisms for %s level.", topic, level)
	}

	var sb strings.Builder
	sb.WriteString(base)
	sb.WriteString("\n\n")
	if input.CustomRequirements != "" {
		fmt.Fprintf(&sb, "Additional requirements: %s\n\n", input.CustomRequirements)
	}
	sb.WriteString("Format the response with clear paragraphs and use ** for subheadings where appropriate.\n")
	sb.WriteString("Include specific examples and make it engaging for students.")

	return sb.String()
}

// buildStreamPrompt creates a lightweight prompt for streaming generation
func buildStreamPrompt(input Input) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate study notes for %q at %s level.", input.Topic, input.EducationLevel)
	if input.CustomRequirements != "" {
		fmt.Fprintf(&sb, " Additional requirements: %s.", input.CustomRequirements)
	}
	sb.WriteString("\n\nProvide the content in sections, clearly marked with section headers.")
	return sb.String()
}
