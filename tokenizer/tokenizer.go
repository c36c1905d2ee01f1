// Package tokenizer provides the GLM-4.x tokenizer used by glmtok.
//
// This package wraps the internal tokenizer implementation and exposes a
// small public API for loading a HuggingFace tokenizer.json and converting
// between text and token ids.
//
// Example usage:
//
//	import "github.com/born-ml/glmtok/tokenizer"
//
//	tok, err := tokenizer.Load("models/glm-4.5/tokenizer.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ids, err := tok.Encode("[gMASK]<sop><|user|>\nHi!", tokenizer.Keep)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	text, err := tok.Decode(ids, tokenizer.Ignore)
package tokenizer

import (
	"github.com/born-ml/glmtok/internal/tokenizer"
)

// Tokenizer is the core interface for text tokenization.
type Tokenizer = tokenizer.Tokenizer

// GLM is the byte-level BPE tokenizer for the GLM-4 family.
type GLM = tokenizer.GLM

// SpecialTokens controls whether special tokens survive decoding.
type SpecialTokens = tokenizer.SpecialTokens

// TokenInfo describes one token of an encoded text.
type TokenInfo = tokenizer.TokenInfo

// LoadOptions configures tokenizer loading.
type LoadOptions = tokenizer.LoadOptions

// Special token handling modes.
const (
	Ignore = tokenizer.Ignore
	Keep   = tokenizer.Keep
)

// Errors returned by the tokenizer.
var (
	ErrInvalidUTF8      = tokenizer.ErrInvalidUTF8
	ErrUnknownToken     = tokenizer.ErrUnknownToken
	ErrChecksumMismatch = tokenizer.ErrChecksumMismatch
	ErrUnsupportedModel = tokenizer.ErrUnsupportedModel
)

// Load reads a tokenizer from a tokenizer.json file (optionally brotli
// compressed with a .br suffix) or from a model directory containing one.
func Load(path string) (*GLM, error) {
	return tokenizer.AutoLoadTokenizer(path, LoadOptions{})
}

// LoadWithOptions is Load with an explicit name and checksum.
func LoadWithOptions(path string, opts LoadOptions) (*GLM, error) {
	return tokenizer.AutoLoadTokenizer(path, opts)
}

// Parse builds a tokenizer from the bytes of a tokenizer.json.
func Parse(data []byte) (*GLM, error) {
	return tokenizer.ParseHuggingFace(data, LoadOptions{})
}

// Checksum returns the hex SHA-256 of a tokenizer asset.
func Checksum(data []byte) string {
	return tokenizer.Checksum(data)
}
