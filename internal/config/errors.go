// Package config resolves the agent's runtime configuration from its
// environment and turns missing or invalid settings into actionable error
// messages, the way the teacher's config loader turns manifest problems into
// UserError (spec's ambient configuration section).
package config

import (
	"fmt"
	"strings"
)

// UserError is a user-facing configuration error: a message plus a concrete
// suggestion for fixing it, instead of a bare wrapped error.
type UserError struct {
	Message    string
	Suggestion string
	Underlying error
}

func (e *UserError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n\nSuggestion: %s", e.Suggestion)
	}
	return b.String()
}

func (e *UserError) Unwrap() error {
	return e.Underlying
}
