// Package chat renders conversations into GLM-4.x prompts.
//
// Example usage:
//
//	import "github.com/born-ml/glmtok/chat"
//
//	prompt := chat.Render(chat.Chat{Messages: []chat.Message{
//	    chat.System{Content: "You are helpful."},
//	    chat.User{Content: "Hi!"},
//	}}, chat.Options{
//	    ReasoningEnabled: true,
//	    Version:          chat.GLM47,
//	    Prefill:          chat.PrefillCanonical{},
//	})
package chat

import (
	"github.com/born-ml/glmtok/internal/chat"
)

// Conversation types.
type (
	Message   = chat.Message
	System    = chat.System
	User      = chat.User
	Assistant = chat.Assistant
	Chat      = chat.Chat
)

// Prefill variants seed the trailing assistant turn.
type (
	Prefill                 = chat.Prefill
	PrefillNone             = chat.PrefillNone
	PrefillCanonical        = chat.PrefillCanonical
	PrefillPartialReasoning = chat.PrefillPartialReasoning
	PrefillFullReasoning    = chat.PrefillFullReasoning
)

// Options controls a single render.
type Options = chat.Options

// Session builds one render turn by turn.
type Session = chat.Session

// Template is a renderer bound to one family.
type Template = chat.Template

// Position is where an assistant turn sits relative to the end of the render.
type Position = chat.Position

// Assistant turn positions.
const (
	Intermediate = chat.Intermediate
	Last         = chat.Last
)

// Version selects the template family.
type Version = chat.Version

// Template families.
const (
	GLM45 = chat.GLM45
	GLM47 = chat.GLM47
)

// ErrUnknownVersion is returned by ParseVersion.
var ErrUnknownVersion = chat.ErrUnknownVersion

// Render formats a conversation into a prompt string.
func Render(c Chat, opts Options) string {
	return chat.Render(c, opts)
}

// NewSession starts a render with the preamble already written.
//
//	prompt := chat.NewSession(opts).
//	    User("Q").
//	    Assistant(chat.NewAssistantWithReasoning("A", "R"), chat.Last).
//	    Prefill(chat.PrefillCanonical{}).
//	    String()
func NewSession(opts Options) *Session {
	return chat.NewSession(opts)
}

// NewTemplate returns the template of a family.
func NewTemplate(v Version) *Template {
	return chat.NewTemplate(v)
}

// LookupTemplate returns the template for a family name such as "glm-4.7".
func LookupTemplate(name string) (*Template, error) {
	return chat.LookupTemplate(name)
}

// ParseVersion maps a model name such as "glm-4.6" to its template family.
func ParseVersion(name string) (Version, error) {
	return chat.ParseVersion(name)
}

// NewAssistant returns an assistant turn without reasoning.
func NewAssistant(content string) Assistant {
	return chat.NewAssistant(content)
}

// NewAssistantWithReasoning returns an assistant turn carrying reasoning.
func NewAssistantWithReasoning(content, reasoning string) Assistant {
	return chat.NewAssistantWithReasoning(content, reasoning)
}
