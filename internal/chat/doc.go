// Package chat renders conversations into the GLM-4.x prompt format.
//
// The renderer walks a Chat message by message and emits the exact surface
// syntax the model was trained on:
//   - a fixed preamble: [gMASK]<sop>
//   - role sentinels: <|system|>, <|user|>, <|assistant|>, each followed by a newline
//   - reasoning blocks: <think>...</think> (or a version specific empty block)
//   - an optional prefill that seeds the next assistant turn
//
// Only the assistant turn at the Last position may carry its real reasoning
// text. Earlier turns always render an empty reasoning block.
//
// Example usage:
//
//	conv := chat.Chat{Messages: []chat.Message{
//	    chat.System{Content: "You are helpful."},
//	    chat.User{Content: "Is 97 prime?"},
//	}}
//
//	prompt := chat.Render(conv, chat.Options{
//	    ReasoningEnabled: true,
//	    Prefill:          chat.PrefillCanonical{},
//	})
//
// Rendering is pure: the same Chat and Options always produce the same bytes,
// and renders may run concurrently without synchronization.
package chat
