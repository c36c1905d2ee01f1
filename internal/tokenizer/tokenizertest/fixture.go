// Package tokenizertest builds small GLM-shaped tokenizer.json fixtures.
//
// The fixture vocabulary holds all 256 byte tokens (id == byte value), three
// merges and the GLM chat special tokens, so rendered prompts encode the same
// way they do with the real asset, only with smaller ids.
package tokenizertest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/born-ml/glmtok/internal/tokenizer"
)

// Merged token ids.
const (
	IDHe   = 256
	IDLl   = 257
	IDHell = 258
)

// Added token ids.
const (
	IDGMASK     = 259
	IDSop       = 260
	IDSystem    = 261
	IDUser      = 262
	IDAssistant = 263
	IDThink     = 264
	IDEndThink  = 265
	IDEndOfText = 266
	IDNoThink   = 267 // added but not special
)

// VocabSize is the number of distinct ids in the fixture.
const VocabSize = 268

// Pattern is the GLM-4 pre-tokenizer split written into the fixture.
const Pattern = `(?i:'s|'t|'re|'ve|'m|'ll|'d)|[^\r\n\p{L}\p{N}]?\p{L}+|\p{N}{1,3}| ?[^\s\p{L}\p{N}]+[\r\n]*|\s*[\r\n]+|\s+(?!\S)|\s+`

// Config returns the fixture as a tokenizer.json document tree. Callers may
// mutate it before marshaling.
func Config() map[string]interface{} {
	vocab := make(map[string]int, 259)
	for b := 0; b < 256; b++ {
		vocab[tokenizer.EncodeByteLevel(string([]byte{byte(b)}))] = b
	}
	vocab["he"] = IDHe
	vocab["ll"] = IDLl
	vocab["hell"] = IDHell

	added := []map[string]interface{}{
		{"id": IDGMASK, "content": "[gMASK]", "special": true},
		{"id": IDSop, "content": "<sop>", "special": true},
		{"id": IDSystem, "content": "<|system|>", "special": true},
		{"id": IDUser, "content": "<|user|>", "special": true},
		{"id": IDAssistant, "content": "<|assistant|>", "special": true},
		{"id": IDThink, "content": "<think>", "special": true},
		{"id": IDEndThink, "content": "</think>", "special": true},
		{"id": IDEndOfText, "content": "<|endoftext|>", "special": true},
		{"id": IDNoThink, "content": "/nothink", "special": false},
	}

	return map[string]interface{}{
		"version": "1.0",
		"model": map[string]interface{}{
			"type":   "BPE",
			"vocab":  vocab,
			"merges": []string{"h e", "l l", "he ll"},
		},
		"added_tokens": added,
		"pre_tokenizer": map[string]interface{}{
			"type": "Sequence",
			"pretokenizers": []map[string]interface{}{
				{
					"type":     "Split",
					"pattern":  map[string]string{"Regex": Pattern},
					"behavior": "Isolated",
					"invert":   false,
				},
				{"type": "ByteLevel", "add_prefix_space": false, "use_regex": false},
			},
		},
	}
}

// JSON returns the marshaled fixture.
func JSON(t testing.TB) []byte {
	t.Helper()
	data, err := json.Marshal(Config())
	require.NoError(t, err)
	return data
}

// WriteFile writes the fixture to dir/tokenizer.json and returns its path.
func WriteFile(t testing.TB, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "tokenizer.json")
	require.NoError(t, os.WriteFile(path, JSON(t), 0o600))
	return path
}

// New loads the fixture tokenizer.
func New(t testing.TB) *tokenizer.GLM {
	t.Helper()
	tok, err := tokenizer.ParseHuggingFace(JSON(t), tokenizer.LoadOptions{Name: "fixture"})
	require.NoError(t, err)
	return tok
}
