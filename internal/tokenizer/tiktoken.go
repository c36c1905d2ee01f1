package tokenizer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// allSpecial lets tiktoken recognize every added token literal.
var allSpecial = []string{"all"}

// GLM is the GLM-4 byte-level BPE tokenizer, backed by tiktoken-go.
//
// A GLM is immutable after construction and safe for concurrent use.
type GLM struct {
	name     string
	encoding *tiktoken.Tiktoken
	pieces   map[uint32]string // raw bytes of every known id
	added    map[string]uint32
	special  map[uint32]bool
}

var _ Tokenizer = (*GLM)(nil)

func newGLM(name string, ranks, added map[string]int, special map[uint32]bool, pattern string) (*GLM, error) {
	bpe, err := tiktoken.NewCoreBPE(ranks, added, pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPreTokenize, err)
	}

	specialSet := make(map[string]any, len(added))
	for literal := range added {
		specialSet[literal] = true
	}

	enc := &tiktoken.Encoding{
		Name:           name,
		PatStr:         pattern,
		MergeableRanks: ranks,
		SpecialTokens:  added,
	}

	g := &GLM{
		name:     name,
		encoding: tiktoken.NewTiktoken(bpe, enc, specialSet),
		pieces:   make(map[uint32]string, len(ranks)+len(added)),
		added:    make(map[string]uint32, len(added)),
		special:  special,
	}
	for raw, id := range ranks {
		g.pieces[uint32(id)] = raw //nolint:gosec // G115: ids are non-negative.
	}
	for literal, id := range added {
		g.pieces[uint32(id)] = literal //nolint:gosec // G115: ids are non-negative.
		g.added[literal] = uint32(id)  //nolint:gosec // G115: ids are non-negative.
	}
	return g, nil
}

// Encode converts text to token IDs.
//
// Special token literals are always recognized; special only affects Decode.
func (g *GLM) Encode(text string, _ SpecialTokens) ([]uint32, error) {
	if !utf8.ValidString(text) {
		return nil, &TokenizationError{Text: text, Err: ErrInvalidUTF8}
	}

	tokens := g.encoding.Encode(text, allSpecial, nil)
	ids := make([]uint32, len(tokens))
	for i, tok := range tokens {
		ids[i] = uint32(tok) //nolint:gosec // G115: ids are non-negative.
	}
	return ids, nil
}

// Decode converts token IDs back to text. Byte sequences that do not form
// valid UTF-8 are replaced with U+FFFD.
func (g *GLM) Decode(ids []uint32, special SpecialTokens) (string, error) {
	tokens := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := g.pieces[id]; !ok {
			return "", &DetokenizationError{IDs: ids, ID: id, Err: ErrUnknownToken}
		}
		if special == Ignore && g.special[id] {
			continue
		}
		tokens = append(tokens, int(id))
	}
	return strings.ToValidUTF8(g.encoding.Decode(tokens), "�"), nil
}

// Inspect encodes text and reports each token with its byte span in the
// concatenated decoded output.
func (g *GLM) Inspect(text string, special SpecialTokens) ([]TokenInfo, error) {
	ids, err := g.Encode(text, special)
	if err != nil {
		return nil, err
	}

	infos := make([]TokenInfo, len(ids))
	offset := 0
	for i, id := range ids {
		piece := g.pieces[id]
		infos[i] = TokenInfo{
			ID:    id,
			Text:  strings.ToValidUTF8(piece, "�"),
			Start: offset,
			End:   offset + len(piece),
		}
		offset += len(piece)
	}
	return infos, nil
}

// VocabSize returns the number of distinct ids, added tokens included.
func (g *GLM) VocabSize() int {
	return len(g.pieces)
}

// IsSpecialToken checks if a token ID is a special token.
func (g *GLM) IsSpecialToken(id uint32) bool {
	return g.special[id]
}

// TokenID looks up the ID of an added token literal.
func (g *GLM) TokenID(literal string) (uint32, bool) {
	id, ok := g.added[literal]
	return id, ok
}

// Name returns the tokenizer name.
func (g *GLM) Name() string {
	return g.name
}

// Info describes the tokenizer.
func (g *GLM) Info() Info {
	return Info{
		Name:          g.name,
		Model:         string(HFTypeBPE),
		VocabSize:     g.VocabSize(),
		SpecialTokens: len(g.special),
	}
}
