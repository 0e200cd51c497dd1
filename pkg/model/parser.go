package model

import (
	"io"

	"github.com/rs/zerolog"
)

// Parser decodes ITC-2007 curriculum-based course timetabling documents.
//
// Parsing is tolerant: malformed record lines are dropped one by one, and a
// document that cannot be read yields an Instance with empty collections and
// an UnreadableInputError in its Diagnostics. Parse never fails.
type Parser interface {
	Parse(name string, reader io.Reader) Instance
	ParseString(name string, text string) Instance
}

func NewParser(config Config, logger zerolog.Logger) Parser {
	return &parserImplementation{
		config: config,
		logger: logger.With().Str("component", "parser").Logger(),
	}
}
