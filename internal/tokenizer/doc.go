// Package tokenizer provides the GLM-4 text tokenizer.
//
// The tokenizer is built from a HuggingFace tokenizer.json (byte-level BPE)
// and runs on tiktoken-go. Assets may be brotli-compressed and verified
// against a SHA-256 digest.
//
// Example usage:
//
//	tok, err := tokenizer.LoadFile("tokenizer.json.br", tokenizer.LoadOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Encode text; special token literals are recognized.
//	ids, err := tok.Encode("[gMASK]<sop><|user|>\nhi", tokenizer.Keep)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Decode, dropping special tokens.
//	text, err := tok.Decode(ids, tokenizer.Ignore)
//
// Use Shared to load a tokenizer lazily and reuse it across goroutines.
package tokenizer
