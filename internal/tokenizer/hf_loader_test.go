package tokenizer_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/glmtok/internal/tokenizer"
	"github.com/born-ml/glmtok/internal/tokenizer/tokenizertest"
)

func marshal(t *testing.T, config map[string]interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(config)
	require.NoError(t, err)
	return data
}

func writeBrotli(t *testing.T, dir string, data []byte) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, tokenizer.CompressAsset(&buf, data))
	path := filepath.Join(dir, "tokenizer.json.br")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestDetectHFTokenizerType(t *testing.T) {
	path := tokenizertest.WriteFile(t, t.TempDir())

	metadata, err := tokenizer.DetectHFTokenizerType(path)
	require.NoError(t, err)
	assert.Equal(t, tokenizer.HFTypeBPE, metadata.Type)
	assert.Equal(t, "BPE", metadata.TokenizerType)
	assert.Equal(t, 259, metadata.VocabSize)
	assert.Equal(t, 9, metadata.AddedTokens)
	assert.Equal(t, 8, metadata.SpecialTokens)
	assert.True(t, metadata.HasGMASK)
	assert.True(t, metadata.HasRoles)
	assert.True(t, metadata.HasReasoning)
	assert.Equal(t, tokenizer.Checksum(tokenizertest.JSON(t)), metadata.SHA256)
	assert.NoError(t, metadata.CheckChat())
}

func TestDetectHFTokenizerType_Directory(t *testing.T) {
	dir := t.TempDir()
	writeBrotli(t, dir, tokenizertest.JSON(t))

	metadata, err := tokenizer.DetectHFTokenizerType(dir)
	require.NoError(t, err)
	assert.Equal(t, tokenizer.HFTypeBPE, metadata.Type)
	assert.Equal(t, tokenizer.Checksum(tokenizertest.JSON(t)), metadata.SHA256)

	_, err = tokenizer.DetectHFTokenizerType(t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDetectHFTokenizerType_Brotli(t *testing.T) {
	path := writeBrotli(t, t.TempDir(), tokenizertest.JSON(t))

	metadata, err := tokenizer.DetectHFTokenizerType(path)
	require.NoError(t, err)
	assert.Equal(t, tokenizer.HFTypeBPE, metadata.Type)
	assert.True(t, metadata.HasGMASK)
}

func TestDetectHFTokenizerType_WordPiece(t *testing.T) {
	tmpDir := t.TempDir()
	tokenizerPath := filepath.Join(tmpDir, "tokenizer.json")

	config := map[string]interface{}{
		"model": map[string]interface{}{
			"type": "WordPiece",
			"vocab": map[string]int{
				"[CLS]": 0,
				"[SEP]": 1,
			},
		},
		"added_tokens": []map[string]interface{}{
			{"id": 0, "content": "[CLS]", "special": true},
			{"id": 1, "content": "[SEP]", "special": true},
		},
	}
	require.NoError(t, os.WriteFile(tokenizerPath, marshal(t, config), 0o600))

	metadata, err := tokenizer.DetectHFTokenizerType(tokenizerPath)
	require.NoError(t, err)
	assert.Equal(t, tokenizer.HFTypeWordPiece, metadata.Type)
	assert.Equal(t, 2, metadata.VocabSize)
	assert.False(t, metadata.HasGMASK)
	assert.False(t, metadata.HasRoles)

	err = metadata.CheckChat()
	assert.ErrorIs(t, err, tokenizer.ErrUnsupportedModel)
	assert.Contains(t, err.Error(), "missing BPE model, [gMASK], role tokens")
}

func TestDetectHFTokenizerType_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	tokenizerPath := filepath.Join(tmpDir, "tokenizer.json")
	require.NoError(t, os.WriteFile(tokenizerPath, []byte("{invalid json"), 0o600))

	_, err := tokenizer.DetectHFTokenizerType(tokenizerPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestDetectHFTokenizerType_FileNotFound(t *testing.T) {
	_, err := tokenizer.DetectHFTokenizerType("/nonexistent/tokenizer.json")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseHuggingFace_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(config map[string]interface{})
		wantErr error
	}{
		{
			name: "wordpiece",
			mutate: func(config map[string]interface{}) {
				config["model"].(map[string]interface{})["type"] = "WordPiece"
			},
			wantErr: tokenizer.ErrUnsupportedModel,
		},
		{
			name: "missing byte token",
			mutate: func(config map[string]interface{}) {
				vocab := config["model"].(map[string]interface{})["vocab"].(map[string]int)
				delete(vocab, tokenizer.EncodeByteLevel("\x00"))
			},
			wantErr: tokenizer.ErrMissingByteToken,
		},
		{
			name: "duplicate id",
			mutate: func(config map[string]interface{}) {
				vocab := config["model"].(map[string]interface{})["vocab"].(map[string]int)
				vocab["lo"] = tokenizertest.IDHell
			},
			wantErr: tokenizer.ErrDuplicateTokenID,
		},
		{
			name: "no added tokens",
			mutate: func(config map[string]interface{}) {
				config["added_tokens"] = []map[string]interface{}{}
			},
			wantErr: tokenizer.ErrNoSpecialTokens,
		},
		{
			name: "bad split pattern",
			mutate: func(config map[string]interface{}) {
				config["pre_tokenizer"] = map[string]interface{}{
					"type":    "Split",
					"pattern": map[string]string{"Regex": "(unclosed"},
				}
			},
			wantErr: tokenizer.ErrInvalidPreTokenize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := tokenizertest.Config()
			tt.mutate(config)

			tok, err := tokenizer.ParseHuggingFace(marshal(t, config), tokenizer.LoadOptions{})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, tok)
		})
	}
}

func TestParseHuggingFace_DefaultPattern(t *testing.T) {
	config := tokenizertest.Config()
	delete(config, "pre_tokenizer")

	tok, err := tokenizer.ParseHuggingFace(marshal(t, config), tokenizer.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, tokenizer.DefaultName, tok.Name())

	ids, err := tok.Encode("hello world", tokenizer.Keep)
	require.NoError(t, err)
	assert.Equal(t, []uint32{tokenizertest.IDHell, 'o', ' ', 'w', 'o', 'r', 'l', 'd'}, ids)
}

func TestParseHuggingFace_Checksum(t *testing.T) {
	data := tokenizertest.JSON(t)

	_, err := tokenizer.ParseHuggingFace(data, tokenizer.LoadOptions{SHA256: tokenizer.Checksum(data)})
	require.NoError(t, err)

	_, err = tokenizer.ParseHuggingFace(data, tokenizer.LoadOptions{SHA256: tokenizer.Checksum([]byte("other"))})
	assert.ErrorIs(t, err, tokenizer.ErrChecksumMismatch)
}

func TestLoadFile_Brotli(t *testing.T) {
	data := tokenizertest.JSON(t)
	path := writeBrotli(t, t.TempDir(), data)

	tok, err := tokenizer.LoadFile(path, tokenizer.LoadOptions{SHA256: tokenizer.Checksum(data)})
	require.NoError(t, err)
	assert.Equal(t, tokenizertest.VocabSize, tok.VocabSize())

	ids, err := tok.Encode("<|user|>hello", tokenizer.Keep)
	require.NoError(t, err)
	assert.Equal(t, []uint32{tokenizertest.IDUser, tokenizertest.IDHell, 'o'}, ids)
}

func TestLoadFile_CorruptBrotli(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokenizer.json.br")
	require.NoError(t, os.WriteFile(path, []byte("not brotli at all"), 0o600))

	_, err := tokenizer.LoadFile(path, tokenizer.LoadOptions{})
	assert.Error(t, err)
}

func TestResolveAsset(t *testing.T) {
	dir := t.TempDir()
	br := writeBrotli(t, dir, tokenizertest.JSON(t))

	got, err := tokenizer.ResolveAsset(dir)
	require.NoError(t, err)
	assert.Equal(t, br, got)

	plain := tokenizertest.WriteFile(t, dir)
	got, err = tokenizer.ResolveAsset(dir)
	require.NoError(t, err)
	assert.Equal(t, plain, got, "plain json wins over .br")

	got, err = tokenizer.ResolveAsset(br)
	require.NoError(t, err)
	assert.Equal(t, br, got)
}

func TestLoadFromHuggingFace(t *testing.T) {
	t.Run("tokenizer.json", func(t *testing.T) {
		dir := t.TempDir()
		tokenizertest.WriteFile(t, dir)

		tok, err := tokenizer.LoadFromHuggingFace(dir, tokenizer.LoadOptions{Name: "glm-4.6"})
		require.NoError(t, err)
		assert.Equal(t, "glm-4.6", tok.Name())
	})

	t.Run("tokenizer.json.br", func(t *testing.T) {
		dir := t.TempDir()
		writeBrotli(t, dir, tokenizertest.JSON(t))

		tok, err := tokenizer.LoadFromHuggingFace(dir, tokenizer.LoadOptions{})
		require.NoError(t, err)
		assert.Equal(t, tokenizertest.VocabSize, tok.VocabSize())
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := tokenizer.LoadFromHuggingFace(t.TempDir(), tokenizer.LoadOptions{})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestAutoLoadTokenizer(t *testing.T) {
	dir := t.TempDir()
	path := tokenizertest.WriteFile(t, dir)

	fromDir, err := tokenizer.AutoLoadTokenizer(dir, tokenizer.LoadOptions{})
	require.NoError(t, err)
	fromFile, err := tokenizer.AutoLoadTokenizer(path, tokenizer.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, fromDir.Info(), fromFile.Info())

	_, err = tokenizer.AutoLoadTokenizer("/nonexistent/path/xyz", tokenizer.LoadOptions{})
	assert.Error(t, err)
}

func TestHFTokenizerType_Constants(t *testing.T) {
	assert.Equal(t, tokenizer.HFTokenizerType("BPE"), tokenizer.HFTypeBPE)
	assert.Equal(t, tokenizer.HFTokenizerType("WordPiece"), tokenizer.HFTypeWordPiece)
	assert.Equal(t, tokenizer.HFTokenizerType("Unigram"), tokenizer.HFTypeUnigram)
	assert.Equal(t, tokenizer.HFTokenizerType("Unknown"), tokenizer.HFTypeUnknown)
}
