package chat

// Prefill seeds the assistant turn that follows the conversation.
//
// The set of implementations is closed: PrefillNone, PrefillCanonical,
// PrefillPartialReasoning and PrefillFullReasoning.
type Prefill interface {
	kind() string
}

// PrefillNone ends the render at the last real message.
type PrefillNone struct{}

// PrefillCanonical opens the assistant turn the way generation normally starts.
type PrefillCanonical struct{}

// PrefillPartialReasoning opens a reasoning block, writes the given text and
// leaves the block open for the model to continue.
type PrefillPartialReasoning struct {
	Reasoning string
}

// PrefillFullReasoning writes a closed reasoning block followed by a content
// prefix for the model to continue.
type PrefillFullReasoning struct {
	Reasoning string
	Content   string
}

// Prefill kind names, shared with the host wire schema.
const (
	KindNone             = "none"
	KindCanonical        = "canonical"
	KindPartialReasoning = "partial_reasoning"
	KindFullReasoning    = "full_reasoning"
)

func (PrefillNone) kind() string             { return KindNone }
func (PrefillCanonical) kind() string        { return KindCanonical }
func (PrefillPartialReasoning) kind() string { return KindPartialReasoning }
func (PrefillFullReasoning) kind() string    { return KindFullReasoning }

// PrefillKind returns the wire name of a prefill. A nil prefill is "none".
func PrefillKind(p Prefill) string {
	if p == nil {
		return KindNone
	}
	return p.kind()
}
