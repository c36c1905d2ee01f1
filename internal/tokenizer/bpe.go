package tokenizer

import (
	"fmt"
	"strings"
)

// Byte-level BPE vocabularies (GPT-2 style) spell every byte as a printable
// rune so that tokenizer.json stays valid text. Printable Latin-1 bytes map to
// themselves; the rest are shifted past U+0100 in byte order.
var (
	byteToRune [256]rune
	runeToByte = make(map[rune]byte, 256)
)

func init() {
	var n rune
	for b := 0; b < 256; b++ {
		r := rune(b)
		switch {
		case b >= '!' && b <= '~', b >= 0xA1 && b <= 0xAC, b >= 0xAE && b <= 0xFF:
		default:
			r = 256 + n
			n++
		}
		byteToRune[b] = r
		runeToByte[r] = byte(b)
	}
}

// DecodeByteLevel converts a byte-level vocabulary entry to its raw bytes.
func DecodeByteLevel(token string) (string, error) {
	var sb strings.Builder
	sb.Grow(len(token))
	for _, r := range token {
		b, ok := runeToByte[r]
		if !ok {
			return "", fmt.Errorf("token %q: rune %U is not byte-level", token, r)
		}
		sb.WriteByte(b)
	}
	return sb.String(), nil
}

// EncodeByteLevel spells raw bytes the way byte-level vocabularies do. It is
// the inverse of DecodeByteLevel.
func EncodeByteLevel(raw string) string {
	var sb strings.Builder
	sb.Grow(len(raw) * 2)
	for i := 0; i < len(raw); i++ {
		sb.WriteRune(byteToRune[raw[i]])
	}
	return sb.String()
}

// mergeableRanks converts a byte-level vocabulary into the raw-bytes rank
// table tiktoken expects.
//
// Ranks are the token ids themselves. That holds for vocabularies converted
// from tiktoken, GLM-4 included, where merge priority follows id order.
func mergeableRanks(vocab map[string]int) (map[string]int, error) {
	ranks := make(map[string]int, len(vocab))
	seen := make(map[int]string, len(vocab))
	for token, id := range vocab {
		raw, err := DecodeByteLevel(token)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %d used by %q and %q", ErrDuplicateTokenID, id, prev, token)
		}
		seen[id] = token
		ranks[raw] = id
	}

	for b := 0; b < 256; b++ {
		if _, ok := ranks[string([]byte{byte(b)})]; !ok {
			return nil, fmt.Errorf("%w: 0x%02x", ErrMissingByteToken, b)
		}
	}
	return ranks, nil
}
