package model

import "github.com/m-mizutani/goerr/v2"

// Error tags classifying pipeline failures. Handlers map these to
// user-facing behavior; the taxonomy itself is owned by the domain.
var (
	// TagValidation marks bad input rejected before any provider request
	TagValidation = goerr.NewTag("validation")

	// TagGenerationParse marks a provider response that could not be parsed
	// into the note schema. Whole-document generation aborts.
	TagGenerationParse = goerr.NewTag("generation_parse")

	// TagRegeneration marks a failed scoped regeneration. Previous content
	// must be preserved by the caller.
	TagRegeneration = goerr.NewTag("regeneration")

	// TagExport marks a structurally invalid document handed to the exporter
	TagExport = goerr.NewTag("export")

	// TagProvider marks opaque transport or provider failures
	TagProvider = goerr.NewTag("provider")
)
