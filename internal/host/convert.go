package host

import (
	"fmt"

	"github.com/born-ml/glmtok/internal/chat"
)

// ToMessage maps a wire message onto the chat model.
//
// "system" and "developer" become System, "assistant" becomes Assistant with
// its reasoning, and every other role, unknown ones included, becomes User.
func ToMessage(m Message) chat.Message {
	switch m.Role {
	case chat.RoleSystem, "developer":
		return chat.System{Content: m.Content}
	case chat.RoleAssistant:
		return chat.Assistant{Content: m.Content, Reasoning: m.ReasoningContent}
	default:
		return chat.User{Content: m.Content}
	}
}

// ToChat maps wire messages onto a Chat.
func ToChat(msgs []Message) chat.Chat {
	out := make([]chat.Message, len(msgs))
	for i, m := range msgs {
		out[i] = ToMessage(m)
	}
	return chat.Chat{Messages: out}
}

// Prefill converts the descriptor. A nil descriptor is canonical.
func (d *PrefillDescriptor) Prefill() (chat.Prefill, error) {
	if d == nil {
		return chat.PrefillCanonical{}, nil
	}

	switch d.Type {
	case PrefillTypeNone:
		return chat.PrefillNone{}, nil
	case PrefillTypeCanonical:
		return chat.PrefillCanonical{}, nil
	case PrefillTypePartialReasoning:
		if d.ReasoningContent == nil {
			return nil, missingField(d.Type, "reasoning_content")
		}
		return chat.PrefillPartialReasoning{Reasoning: *d.ReasoningContent}, nil
	case PrefillTypeFullReasoning:
		if d.ReasoningContent == nil {
			return nil, missingField(d.Type, "reasoning_content")
		}
		if d.Content == nil {
			return nil, missingField(d.Type, "content")
		}
		return chat.PrefillFullReasoning{Reasoning: *d.ReasoningContent, Content: *d.Content}, nil
	default:
		return nil, fmt.Errorf("%w: %w %q", ErrInvalidRequest, ErrUnknownPrefillType, d.Type)
	}
}

func missingField(typ, field string) error {
	return fmt.Errorf("%w: %w: %s needs %s", ErrInvalidRequest, ErrMissingPrefillContent, typ, field)
}

// Template resolves the template a request renders with. An empty Version
// falls back to def.
func (r *ChatTemplateRequest) Template(def *chat.Template) (*chat.Template, error) {
	if r.Version == "" {
		return def, nil
	}
	tmpl, err := chat.LookupTemplate(r.Version)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return tmpl, nil
}

// Options resolves the render options of a request. An empty Version falls
// back to def.
func (r *ChatTemplateRequest) Options(def chat.Version) (chat.Options, error) {
	prefill, err := r.Prefill.Prefill()
	if err != nil {
		return chat.Options{}, err
	}

	tmpl, err := r.Template(chat.NewTemplate(def))
	if err != nil {
		return chat.Options{}, err
	}

	return chat.Options{
		ReasoningEnabled:      r.ReasoningEnabled,
		Version:               tmpl.Version(),
		Prefill:               prefill,
		IgnoreMessagePosition: r.IgnoreMessagePosition,
	}, nil
}
