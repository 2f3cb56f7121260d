package summary

import (
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/schema"
)

const SectionSlug = "summary"

// Settings holds the location of the summarization service.
type Settings struct {
	URL string `glazed:"summary-url"`
}

// NewSection returns the section definition for the summarization service.
func NewSection() (schema.Section, error) {
	return schema.NewSection(
		SectionSlug,
		"Summarization service",
		schema.WithFields(
			fields.New(
				"summary-url",
				fields.TypeString,
				fields.WithHelp("Base URL of the summarization service"),
				fields.WithDefault("http://localhost:8000"),
			),
		),
	)
}

func NewClientFromSettings(s *Settings, options ...Option) (*Client, error) {
	return NewClient(s.URL, options...)
}
