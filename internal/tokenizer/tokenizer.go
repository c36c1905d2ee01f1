package tokenizer

// Tokenizer is the core interface for text tokenization.
type Tokenizer interface {
	// Encode converts text to token IDs. Special token literals in the text
	// are always recognized.
	Encode(text string, special SpecialTokens) ([]uint32, error)

	// Decode converts token IDs back to text.
	Decode(ids []uint32, special SpecialTokens) (string, error)

	// VocabSize returns the total vocabulary size, added tokens included.
	VocabSize() int

	// IsSpecialToken checks if a token ID is a special token.
	IsSpecialToken(id uint32) bool

	// TokenID looks up the ID of an added token literal such as "<|user|>".
	TokenID(literal string) (uint32, bool)
}

// SpecialTokens controls whether special tokens survive decoding.
//
// It is a display filter only: encoding recognizes special token literals
// either way.
type SpecialTokens int

const (
	// Ignore drops special tokens from decoded text.
	Ignore SpecialTokens = iota
	// Keep leaves special tokens in decoded text.
	Keep
)

// SpecialTokensFrom converts a keep flag into a SpecialTokens value.
func SpecialTokensFrom(keep bool) SpecialTokens {
	if keep {
		return Keep
	}
	return Ignore
}

// String returns "keep" or "ignore".
func (s SpecialTokens) String() string {
	if s == Keep {
		return "keep"
	}
	return "ignore"
}

// TokenInfo describes one token of an encoded text.
type TokenInfo struct {
	ID    uint32 `json:"id" msgpack:"id"`
	Text  string `json:"text" msgpack:"text"`
	Start int    `json:"start" msgpack:"start"`
	End   int    `json:"end" msgpack:"end"`
}

// Info describes a loaded tokenizer.
type Info struct {
	Name          string `json:"name" msgpack:"name"`
	Model         string `json:"model" msgpack:"model"`
	VocabSize     int    `json:"vocab_size" msgpack:"vocab_size"`
	SpecialTokens int    `json:"special_tokens" msgpack:"special_tokens"`
}
