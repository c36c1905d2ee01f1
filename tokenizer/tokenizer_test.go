package tokenizer_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/glmtok/internal/tokenizer/tokenizertest"
	"github.com/born-ml/glmtok/tokenizer"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := tokenizertest.WriteFile(t, dir)

	byFile, err := tokenizer.Load(path)
	require.NoError(t, err)
	byDir, err := tokenizer.Load(filepath.Dir(path))
	require.NoError(t, err)

	assert.Equal(t, tokenizertest.VocabSize, byFile.VocabSize())
	assert.Equal(t, byFile.VocabSize(), byDir.VocabSize())
}

func TestLoadWithOptions_Checksum(t *testing.T) {
	data := tokenizertest.JSON(t)
	path := tokenizertest.WriteFile(t, t.TempDir())

	tok, err := tokenizer.LoadWithOptions(path, tokenizer.LoadOptions{Name: "glm-4.6", SHA256: tokenizer.Checksum(data)})
	require.NoError(t, err)
	assert.Equal(t, "glm-4.6", tok.Name())

	_, err = tokenizer.LoadWithOptions(path, tokenizer.LoadOptions{SHA256: "00"})
	assert.ErrorIs(t, err, tokenizer.ErrChecksumMismatch)
}

func TestParse_RoundTrip(t *testing.T) {
	tok, err := tokenizer.Parse(tokenizertest.JSON(t))
	require.NoError(t, err)

	ids, err := tok.Encode("<|user|>\nhello", tokenizer.Keep)
	require.NoError(t, err)
	assert.Equal(t, []uint32{tokenizertest.IDUser, '\n', tokenizertest.IDHell, 'o'}, ids)

	text, err := tok.Decode(ids, tokenizer.Ignore)
	require.NoError(t, err)
	assert.Equal(t, "\nhello", text)

	_, err = tok.Decode([]uint32{1 << 30}, tokenizer.Keep)
	assert.ErrorIs(t, err, tokenizer.ErrUnknownToken)
}
