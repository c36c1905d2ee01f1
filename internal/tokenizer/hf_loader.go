package tokenizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// HFTokenizerType identifies the tokenizer implementation type.
type HFTokenizerType string

const (
	// HFTypeBPE indicates Byte-Pair Encoding tokenizer.
	HFTypeBPE HFTokenizerType = "BPE"

	// HFTypeWordPiece indicates WordPiece tokenizer (BERT-style).
	HFTypeWordPiece HFTokenizerType = "WordPiece"

	// HFTypeUnigram indicates Unigram tokenizer (SentencePiece-style).
	HFTypeUnigram HFTokenizerType = "Unigram"

	// HFTypeUnknown indicates an unknown or unsupported tokenizer type.
	HFTypeUnknown HFTokenizerType = "Unknown"
)

// glm4Pattern is the GLM-4 pre-tokenizer split, used when tokenizer.json
// carries none.
const glm4Pattern = `(?i:'s|'t|'re|'ve|'m|'ll|'d)|[^\r\n\p{L}\p{N}]?\p{L}+|\p{N}{1,3}| ?[^\s\p{L}\p{N}]+[\r\n]*|\s*[\r\n]+|\s+(?!\S)|\s+`

// HFTokenizerMetadata contains metadata from tokenizer.json.
type HFTokenizerMetadata struct {
	Type          HFTokenizerType `json:"type"`
	VocabSize     int             `json:"vocab_size"`
	AddedTokens   int             `json:"added_tokens"`
	SpecialTokens int             `json:"special_tokens"`
	HasGMASK      bool            `json:"has_gmask"`
	HasRoles      bool            `json:"has_roles"`
	HasReasoning  bool            `json:"has_reasoning"`
	TokenizerType string          `json:"tokenizer_type"`

	// SHA256 is the digest of the decompressed tokenizer.json, the value
	// LoadOptions.SHA256 expects.
	SHA256 string `json:"sha256"`
}

// CheckChat reports ErrUnsupportedModel unless the asset is a BPE tokenizer
// carrying the GLM prompt preamble and role tokens.
func (m *HFTokenizerMetadata) CheckChat() error {
	var missing []string
	if m.Type != HFTypeBPE {
		missing = append(missing, "BPE model")
	}
	if !m.HasGMASK {
		missing = append(missing, "[gMASK]")
	}
	if !m.HasRoles {
		missing = append(missing, "role tokens")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrUnsupportedModel, strings.Join(missing, ", "))
	}
	return nil
}

// DetectHFTokenizerType determines the tokenizer type from tokenizer.json,
// its brotli-compressed tokenizer.json.br form, or a model directory holding
// either.
func DetectHFTokenizerType(path string) (*HFTokenizerMetadata, error) {
	path, err := ResolveAsset(path)
	if err != nil {
		return nil, err
	}
	data, err := ReadAsset(path)
	if err != nil {
		return nil, err
	}
	metadata, err := detectHFTokenizerType(data)
	if err != nil {
		return nil, err
	}
	metadata.SHA256 = Checksum(data)
	return metadata, nil
}

//nolint:gocognit // JSON parsing requires nested type assertions.
func detectHFTokenizerType(data []byte) (*HFTokenizerMetadata, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse tokenizer.json: %w", err)
	}

	metadata := &HFTokenizerMetadata{
		Type: HFTypeUnknown,
	}

	if model, ok := raw["model"].(map[string]interface{}); ok {
		if tokType, ok := model["type"].(string); ok {
			metadata.TokenizerType = tokType
			switch tokType {
			case "BPE":
				metadata.Type = HFTypeBPE
			case "WordPiece":
				metadata.Type = HFTypeWordPiece
			case "Unigram":
				metadata.Type = HFTypeUnigram
			}
		}

		if vocab, ok := model["vocab"].(map[string]interface{}); ok {
			metadata.VocabSize = len(vocab)
		}
	}

	if addedTokens, ok := raw["added_tokens"].([]interface{}); ok {
		for _, tokenRaw := range addedTokens {
			token, ok := tokenRaw.(map[string]interface{})
			if !ok {
				continue
			}
			metadata.AddedTokens++
			if special, _ := token["special"].(bool); special {
				metadata.SpecialTokens++
			}
			switch token["content"] {
			case "[gMASK]":
				metadata.HasGMASK = true
			case "<|user|>", "<|assistant|>":
				metadata.HasRoles = true
			case "<think>":
				metadata.HasReasoning = true
			}
		}
	}

	return metadata, nil
}

// hfTokenizerFile is the subset of tokenizer.json needed to build a GLM
// tokenizer. Merges are not read; see mergeableRanks.
type hfTokenizerFile struct {
	Model struct {
		Type  string         `json:"type"`
		Vocab map[string]int `json:"vocab"`
	} `json:"model"`
	AddedTokens  []hfAddedToken  `json:"added_tokens"`
	PreTokenizer *hfPreTokenizer `json:"pre_tokenizer"`
}

type hfAddedToken struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
	Special bool   `json:"special"`
}

type hfPreTokenizer struct {
	Type    string `json:"type"`
	Pattern *struct {
		Regex string `json:"Regex"`
	} `json:"pattern"`
	Pretokenizers []hfPreTokenizer `json:"pretokenizers"`
}

// splitPattern returns the first Split regex in a pre-tokenizer tree.
func (p *hfPreTokenizer) splitPattern() string {
	if p == nil {
		return ""
	}
	if p.Type == "Split" && p.Pattern != nil && p.Pattern.Regex != "" {
		return p.Pattern.Regex
	}
	for i := range p.Pretokenizers {
		if pat := p.Pretokenizers[i].splitPattern(); pat != "" {
			return pat
		}
	}
	return ""
}

// ParseHuggingFace builds a GLM tokenizer from tokenizer.json contents.
func ParseHuggingFace(data []byte, opts LoadOptions) (*GLM, error) {
	if err := VerifyChecksum(data, opts.SHA256); err != nil {
		return nil, err
	}

	var file hfTokenizerFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse tokenizer.json: %w", err)
	}

	if file.Model.Type != string(HFTypeBPE) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedModel, file.Model.Type)
	}

	ranks, err := mergeableRanks(file.Model.Vocab)
	if err != nil {
		return nil, err
	}

	if len(file.AddedTokens) == 0 {
		return nil, ErrNoSpecialTokens
	}
	added := make(map[string]int, len(file.AddedTokens))
	special := make(map[uint32]bool, len(file.AddedTokens))
	for _, tok := range file.AddedTokens {
		added[tok.Content] = tok.ID
		if tok.Special {
			special[uint32(tok.ID)] = true //nolint:gosec // G115: ids are non-negative.
		}
	}

	pattern := file.PreTokenizer.splitPattern()
	if pattern == "" {
		pattern = glm4Pattern
	}

	name := opts.Name
	if name == "" {
		name = DefaultName
	}

	return newGLM(name, ranks, added, special, pattern)
}

// ResolveAsset returns path when it names a file, or the tokenizer.json
// (preferred) or tokenizer.json.br inside it when it is a model directory.
func ResolveAsset(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat tokenizer path: %w", err)
	}
	if !info.IsDir() {
		return path, nil
	}
	for _, name := range []string{"tokenizer.json", "tokenizer.json.br"} {
		p := filepath.Join(path, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %s: %w", p, err)
		}
	}
	return "", fmt.Errorf("no tokenizer.json in %s: %w", path, os.ErrNotExist)
}

// LoadFromHuggingFace loads a tokenizer from a HuggingFace model directory.
//
// The directory should contain tokenizer.json or tokenizer.json.br.
func LoadFromHuggingFace(modelPath string, opts LoadOptions) (*GLM, error) {
	path, err := ResolveAsset(modelPath)
	if err != nil {
		return nil, err
	}
	return LoadFile(path, opts)
}

// AutoLoadTokenizer loads from a tokenizer.json file or a model directory.
func AutoLoadTokenizer(path string, opts LoadOptions) (*GLM, error) {
	return LoadFromHuggingFace(path, opts)
}
