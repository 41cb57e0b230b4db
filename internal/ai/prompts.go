package ai

import (
	_ "embed"
	"text/template"
)

//go:embed prompts/extract_filter.md
var extractFilterPromptRaw string

// ExtractFilterTemplate is the parsed prompt template for batch extraction.
// Parsed once at package init; reused on every ExtractAndFilter call.
var ExtractFilterTemplate = template.Must(template.New("extract_filter").Parse(extractFilterPromptRaw))
