package tokenizer

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidUTF8        = errors.New("input is not valid UTF-8")
	ErrUnknownToken       = errors.New("token id not in vocabulary")
	ErrMissingByteToken   = errors.New("vocabulary is missing a single-byte token")
	ErrNoSpecialTokens    = errors.New("tokenizer defines no added tokens")
	ErrUnsupportedModel   = errors.New("unsupported tokenizer model")
	ErrChecksumMismatch   = errors.New("checksum mismatch: tokenizer asset may be corrupted")
	ErrDuplicateTokenID   = errors.New("duplicate token id in vocabulary")
	ErrInvalidPreTokenize = errors.New("invalid pre-tokenizer pattern")
)

// TokenizationError reports text that could not be encoded.
type TokenizationError struct {
	Text string // Offending input
	Err  error
}

// Error implements the error interface.
func (e *TokenizationError) Error() string {
	return fmt.Sprintf("tokenize %q: %v", truncate(e.Text, 64), e.Err)
}

// Unwrap returns the underlying error.
func (e *TokenizationError) Unwrap() error {
	return e.Err
}

// DetokenizationError reports token ids that could not be decoded.
type DetokenizationError struct {
	IDs []uint32 // Offending input
	ID  uint32   // First id that failed
	Err error
}

// Error implements the error interface.
func (e *DetokenizationError) Error() string {
	return fmt.Sprintf("detokenize %d ids: id %d: %v", len(e.IDs), e.ID, e.Err)
}

// Unwrap returns the underlying error.
func (e *DetokenizationError) Unwrap() error {
	return e.Err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
