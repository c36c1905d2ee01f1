// Package host adapts external requests to the chat engine and the GLM
// tokenizer.
//
// Requests use OpenAI-style messages and a tagged prefill descriptor. The
// same schemas travel as msgpack through Handler.Call and as JSON through the
// HTTP server.
package host
