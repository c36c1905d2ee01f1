package tokenizer

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andybalholm/brotli"
)

// DefaultName is the tokenizer name reported when LoadOptions.Name is empty.
const DefaultName = "glm-4.5"

// LoadOptions configures tokenizer loading.
type LoadOptions struct {
	// Name is reported by GLM.Info.
	Name string

	// SHA256 is the expected hex digest of the decompressed tokenizer.json.
	// Empty disables verification.
	SHA256 string
}

// LoadFile loads a GLM tokenizer from tokenizer.json or tokenizer.json.br.
func LoadFile(path string, opts LoadOptions) (*GLM, error) {
	data, err := ReadAsset(path)
	if err != nil {
		return nil, err
	}
	return ParseHuggingFace(data, opts)
}

// ReadAsset reads a tokenizer asset, decompressing it when the name ends in
// ".br".
func ReadAsset(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from trusted config.
	if err != nil {
		return nil, fmt.Errorf("failed to read tokenizer asset: %w", err)
	}
	if !strings.HasSuffix(path, ".br") {
		return data, nil
	}

	out, err := io.ReadAll(brotli.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
	}
	return out, nil
}

// CompressAsset brotli-compresses a tokenizer.json for embedding.
func CompressAsset(w io.Writer, data []byte) error {
	bw := brotli.NewWriterLevel(w, brotli.BestCompression)
	if _, err := bw.Write(data); err != nil {
		_ = bw.Close()
		return fmt.Errorf("failed to compress tokenizer asset: %w", err)
	}
	return bw.Close()
}

// Checksum returns the hex SHA-256 digest of data.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// VerifyChecksum compares data against an expected hex digest.
// Returns ErrChecksumMismatch if they don't match. An empty digest passes.
func VerifyChecksum(data []byte, want string) error {
	if want == "" {
		return nil
	}
	if got := Checksum(data); !strings.EqualFold(got, strings.TrimSpace(want)) {
		return fmt.Errorf("%w: got %s, want %s", ErrChecksumMismatch, got, want)
	}
	return nil
}
