// Package chat orchestrates conversation turns: history bookkeeping,
// schema-block extraction, and file attachment expansion. It owns no I/O
// with the API; the command layer wires it to the gemini client.
package chat

import (
	"regexp"

	"github.com/respmsl/resp-cli/internal/gemini"
)

// Roles used in the conversation history.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

var farewellRe = regexp.MustCompile(`(?i)\b(?:bye|goodbye)\b`)

// IsFarewell reports whether a message ends the conversation. The check
// applies to both sides of the dialogue.
func IsFarewell(text string) bool {
	return farewellRe.MatchString(text)
}

// Session accumulates the conversation history sent with every request.
type Session struct {
	history []gemini.Content
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

// AddUser appends a user turn built from the prompt text plus any
// attachment parts.
func (s *Session) AddUser(text string, attachments ...gemini.Part) {
	parts := append([]gemini.Part{{Text: text}}, attachments...)
	s.history = append(s.history, gemini.Content{Role: RoleUser, Parts: parts})
}

// AddModel appends a model turn.
func (s *Session) AddModel(text string) {
	s.history = append(s.history, gemini.Content{
		Role:  RoleModel,
		Parts: []gemini.Part{{Text: text}},
	})
}

// History returns the accumulated conversation records.
func (s *Session) History() []gemini.Content {
	return s.history
}

// Len returns the number of turns recorded so far.
func (s *Session) Len() int {
	return len(s.history)
}
