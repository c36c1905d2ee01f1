package chat

import (
	"strings"
)

// GLM-4.x sentinels.
const (
	Preamble = "[gMASK]<sop>"

	systemOpen    = "<|system|>\n"
	userOpen      = "<|user|>\n"
	assistantOpen = "<|assistant|>\n"

	reasoningOpen  = "<think>"
	reasoningClose = "</think>"

	// DisableReasoningSuffix on a user turn disables reasoning for the next
	// assistant turn. GLM45 also emits it as an explicit sentinel.
	DisableReasoningSuffix = "/nothink"
)

// Options controls a single render.
type Options struct {
	// ReasoningEnabled is true when the model family reasons at all.
	ReasoningEnabled bool

	// Version selects the family specific formatting.
	Version Version

	// Prefill seeds the trailing assistant turn. Nil means PrefillNone.
	Prefill Prefill

	// IgnoreMessagePosition treats every message as Last.
	IgnoreMessagePosition bool
}

// Render formats a conversation into a prompt string.
//
// Render never fails: every well-typed Chat has a rendering, including the
// empty one.
func Render(c Chat, opts Options) string {
	prefill := opts.Prefill
	if prefill == nil {
		prefill = PrefillNone{}
	}

	msgs := present(c.Messages)
	s := NewSession(opts)
	n := len(msgs)
	for i, msg := range msgs {
		switch m := msg.(type) {
		case System:
			s.System(m.Content)
		case *System:
			s.System(m.Content)
		case User:
			s.User(m.Content)
		case *User:
			s.User(m.Content)
		case Assistant:
			s.Assistant(m, positionOf(i, n, prefill, opts.IgnoreMessagePosition))
		case *Assistant:
			s.Assistant(*m, positionOf(i, n, prefill, opts.IgnoreMessagePosition))
		}
	}

	return s.Prefill(prefill).String()
}

// present drops nil entries, including typed-nil pointers, so they neither
// render nor count toward message positions.
func present(msgs []Message) []Message {
	out := make([]Message, 0, len(msgs))
	for _, msg := range msgs {
		switch m := msg.(type) {
		case nil:
			continue
		case *System:
			if m == nil {
				continue
			}
		case *User:
			if m == nil {
				continue
			}
		case *Assistant:
			if m == nil {
				continue
			}
		}
		out = append(out, msg)
	}
	return out
}

// Session accumulates one render.
//
// A Session is owned by a single caller. Each step appends to the buffer and
// returns the session for chaining. String finishes the session; any step
// after it panics.
type Session struct {
	opts     Options
	buf      strings.Builder
	remove   bool
	finished bool
}

// NewSession starts a render with the preamble already written.
func NewSession(opts Options) *Session {
	s := &Session{opts: opts}
	s.buf.WriteString(Preamble)
	return s
}

// System appends a system turn.
func (s *Session) System(content string) *Session {
	s.mustBeOpen()
	s.buf.WriteString(systemOpen)
	s.buf.WriteString(content)
	return s
}

// User appends a user turn and records any request to disable reasoning.
func (s *Session) User(content string) *Session {
	s.mustBeOpen()
	s.buf.WriteString(userOpen)
	s.buf.WriteString(content)

	switch {
	case strings.HasSuffix(content, DisableReasoningSuffix):
		s.remove = true
	case s.remove || !s.opts.ReasoningEnabled:
		s.remove = true
		if s.opts.Version.EmitsDisableSentinel() {
			s.buf.WriteString(DisableReasoningSuffix)
		}
	}
	return s
}

// Assistant appends an assistant turn at the given position.
//
// The reasoning block is always written; its text is empty unless the turn
// is Last and reasoning is active. A pending disable request is consumed.
func (s *Session) Assistant(msg Assistant, pos Position) *Session {
	s.mustBeOpen()
	s.buf.WriteString(assistantOpen)

	text, _ := decideReasoning(s.remove, s.opts.ReasoningEnabled, pos, msg.Reasoning)
	s.writeReasoning(text)

	if msg.Content != "" {
		s.buf.WriteString("\n")
		s.buf.WriteString(msg.Content)
	}

	s.remove = false
	return s
}

// Prefill appends the trailing assistant seed.
func (s *Session) Prefill(p Prefill) *Session {
	s.mustBeOpen()

	switch p := p.(type) {
	case nil, PrefillNone:
	case PrefillCanonical:
		s.buf.WriteString(assistantOpen)
		if s.reasoningActive() {
			s.buf.WriteString(reasoningOpen)
		} else {
			s.buf.WriteString(s.opts.Version.EmptyReasoning())
		}
	case PrefillPartialReasoning:
		s.buf.WriteString(assistantOpen)
		s.buf.WriteString(reasoningOpen)
		s.buf.WriteString(p.Reasoning)
	case PrefillFullReasoning:
		s.buf.WriteString(assistantOpen)
		s.writeReasoning(p.Reasoning)
		s.buf.WriteString("\n")
		s.buf.WriteString(p.Content)
	}
	return s
}

// String finishes the session and returns the rendered prompt.
func (s *Session) String() string {
	s.finished = true
	return s.buf.String()
}

// RemoveReasoning reports whether a disable request is pending.
func (s *Session) RemoveReasoning() bool {
	return s.remove
}

func (s *Session) reasoningActive() bool {
	return s.opts.ReasoningEnabled && !s.remove
}

func (s *Session) writeReasoning(text string) {
	if text == "" {
		s.buf.WriteString(s.opts.Version.EmptyReasoning())
		return
	}
	s.buf.WriteString(reasoningOpen)
	s.buf.WriteString(text)
	s.buf.WriteString(reasoningClose)
}

func (s *Session) mustBeOpen() {
	if s.finished {
		panic("chat: session used after String")
	}
}

// Template is a renderer bound to one model family.
type Template struct {
	version Version
}

// NewTemplate creates a template for the given family.
func NewTemplate(v Version) *Template {
	return &Template{version: v}
}

// LookupTemplate returns the template for a family name such as "glm-4.5".
func LookupTemplate(name string) (*Template, error) {
	v, err := ParseVersion(name)
	if err != nil {
		return nil, err
	}
	return NewTemplate(v), nil
}

// Render formats a conversation using the template's family. The Version in
// opts is ignored.
func (t *Template) Render(c Chat, opts Options) string {
	opts.Version = t.version
	return Render(c, opts)
}

// Name returns the family name.
func (t *Template) Name() string {
	return t.version.String()
}

// Version returns the family.
func (t *Template) Version() Version {
	return t.version
}
