package types

import (
	"github.com/m-mizutani/goerr/v2"
)

// EducationLevel controls the depth and vocabulary of generated content.
// It is a prompt parameter only; nothing structural depends on it.
type EducationLevel string

const (
	LevelBasic        EducationLevel = "basic"
	LevelIntermediate EducationLevel = "intermediate"
	LevelAdvanced     EducationLevel = "advanced"
)

// DefaultEducationLevel is used when no level is specified by the caller.
const DefaultEducationLevel = LevelIntermediate

// EducationLevels returns all supported levels.
func EducationLevels() []EducationLevel {
	return []EducationLevel{LevelBasic, LevelIntermediate, LevelAdvanced}
}

// IsValid reports whether the level is one of the supported values.
func (l EducationLevel) IsValid() bool {
	switch l {
	case LevelBasic, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// OrDefault returns the level itself when valid, and DefaultEducationLevel
// when empty or unknown.
func (l EducationLevel) OrDefault() EducationLevel {
	if l.IsValid() {
		return l
	}
	return DefaultEducationLevel
}

// Validate checks if the EducationLevel is valid
func (l EducationLevel) Validate() error {
	if l == "" {
		return goerr.New("education level cannot be empty")
	}
	if !l.IsValid() {
		return goerr.New("unknown education level", goerr.V("level", l))
	}
	return nil
}

// String returns the string representation of EducationLevel
func (l EducationLevel) String() string {
	return string(l)
}

// Description returns the prompt fragment describing the expected depth for
// the level.
func (l EducationLevel) Description() string {
	switch l {
	case LevelBasic:
		return "simple language suitable for beginners, with basic explanations and examples"
	case LevelAdvanced:
		return "comprehensive depth with technical details, complex concepts, and advanced applications"
	}
	return "moderate complexity with detailed explanations and practical examples"
}
