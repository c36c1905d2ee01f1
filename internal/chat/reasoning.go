package chat

// Position is where an assistant turn sits relative to the end of the render.
type Position int

const (
	// Intermediate turns never show their reasoning.
	Intermediate Position = iota
	// Last is the turn the model is conditioned on directly.
	Last
)

// String returns the position name.
func (p Position) String() string {
	if p == Last {
		return "last"
	}
	return "intermediate"
}

// positionOf derives the position of message i in a chat of n messages.
func positionOf(i, n int, prefill Prefill, ignorePosition bool) Position {
	if ignorePosition {
		return Last
	}
	if _, none := prefill.(PrefillNone); !none && i == n-1 {
		return Last
	}
	return Intermediate
}

// decideReasoning reports whether an assistant turn's reasoning is emitted and
// with which text.
//
// Reasoning is included only for the Last turn, while reasoning is enabled and
// no disable request is pending. A missing reasoning string is included as
// empty text.
func decideReasoning(remove, enabled bool, pos Position, reasoning *string) (string, bool) {
	if remove || !enabled || pos != Last {
		return "", false
	}
	if reasoning == nil {
		return "", true
	}
	return *reasoning, true
}
