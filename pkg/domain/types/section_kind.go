package types

import (
	"github.com/m-mizutani/goerr/v2"
)

// SectionKind identifies one of the fixed study note section categories.
// The set is closed on the generation side, but parsing is permissive:
// unknown identifiers fall back to SectionExplanation so that a slightly
// off-schema provider response still produces a usable section.
type SectionKind string

const (
	SectionDefinition   SectionKind = "definition"
	SectionExplanation  SectionKind = "explanation"
	SectionKeyPoints    SectionKind = "keypoints"
	SectionApplications SectionKind = "applications"
	SectionSummary      SectionKind = "summary"
)

// SectionKinds returns all known kinds in their canonical document order.
func SectionKinds() []SectionKind {
	return []SectionKind{
		SectionDefinition,
		SectionExplanation,
		SectionKeyPoints,
		SectionApplications,
		SectionSummary,
	}
}

// IsKnown reports whether the kind is part of the fixed vocabulary.
func (k SectionKind) IsKnown() bool {
	switch k {
	case SectionDefinition, SectionExplanation, SectionKeyPoints,
		SectionApplications, SectionSummary:
		return true
	}
	return false
}

// Normalize maps an unknown kind to SectionExplanation. Known kinds are
// returned as-is.
func (k SectionKind) Normalize() SectionKind {
	if k.IsKnown() {
		return k
	}
	return SectionExplanation
}

// Validate checks if the SectionKind is valid
func (k SectionKind) Validate() error {
	if k == "" {
		return goerr.New("section kind cannot be empty")
	}
	if !k.IsKnown() {
		return goerr.New("unknown section kind", goerr.V("kind", k))
	}
	return nil
}

// String returns the string representation of SectionKind
func (k SectionKind) String() string {
	return string(k)
}

// DefaultTitle returns the display heading used when the provider response
// omits a title for the section.
func (k SectionKind) DefaultTitle() string {
	switch k {
	case SectionDefinition:
		return "Definition"
	case SectionExplanation:
		return "Detailed Explanation"
	case SectionKeyPoints:
		return "Key Points"
	case SectionApplications:
		return "Real-Life Applications"
	case SectionSummary:
		return "Summary"
	}
	return "Detailed Explanation"
}

// Icon returns the icon hint associated with the section kind.
func (k SectionKind) Icon() string {
	switch k {
	case SectionDefinition:
		return "BookOpen"
	case SectionExplanation:
		return "Zap"
	case SectionKeyPoints:
		return "List"
	case SectionApplications:
		return "Globe"
	case SectionSummary:
		return "CheckCircle"
	}
	return "Zap"
}
