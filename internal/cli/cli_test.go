package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/glmtok/internal/tokenizer"
	"github.com/born-ml/glmtok/internal/tokenizer/tokenizertest"
)

type result struct {
	stdout string
	stderr string
}

func run(t *testing.T, stdin string, args ...string) (result, error) {
	t.Helper()

	var (
		app      App
		out, err bytes.Buffer
	)
	streams := &Streams{In: strings.NewReader(stdin), Out: &out, Err: &err}
	parser, perr := kong.New(&app,
		kong.Name("glmtok"),
		kong.Vars{"version": Version},
		kong.Bind(streams),
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
	)
	require.NoError(t, perr)

	kctx, perr := parser.Parse(args)
	if perr != nil {
		return result{}, perr
	}
	rerr := kctx.Run(&app.Context)
	return result{stdout: out.String(), stderr: err.String()}, rerr
}

func decodeString(t *testing.T, out string) string {
	t.Helper()
	var s string
	require.NoError(t, json.Unmarshal([]byte(out), &s), out)
	return s
}

func fixture(t *testing.T) string {
	t.Helper()
	return tokenizertest.WriteFile(t, t.TempDir())
}

func TestTokenize(t *testing.T) {
	path := fixture(t)

	res, err := run(t, "", "tokenize", "--tokenizer", path, "hello")
	require.NoError(t, err)
	assert.Equal(t, "258 111\n", res.stdout)

	res, err = run(t, "", "tokenize", "--tokenizer", path, "--json", "hello", "hi")
	require.NoError(t, err)
	assert.Equal(t, "[258,111,32,104,105]\n", res.stdout)
}

func TestTokenize_Stdin(t *testing.T) {
	res, err := run(t, "hello\n", "tokenize", "--tokenizer", fixture(t))
	require.NoError(t, err)
	assert.Equal(t, "258 111\n", res.stdout)
}

func TestTokenize_Env(t *testing.T) {
	t.Setenv("GLMTOK_TOKENIZER", fixture(t))

	res, err := run(t, "", "tokenize", "<|user|>")
	require.NoError(t, err)
	assert.Equal(t, "262\n", res.stdout)
}

func TestTokenize_Inspect(t *testing.T) {
	path := fixture(t)

	res, err := run(t, "", "tokenize", "--tokenizer", path, "--inspect", "hello")
	require.NoError(t, err)
	assert.Equal(t, "258\t0\t4\t\"hell\"\n111\t4\t5\t\"o\"\n", res.stdout)

	res, err = run(t, "", "tokenize", "--tokenizer", path, "--inspect", "--json", "hello")
	require.NoError(t, err)
	var infos []tokenizer.TokenInfo
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &infos))
	assert.Len(t, infos, 2)
}

func TestTokenize_Benchmark(t *testing.T) {
	res, err := run(t, "", "tokenize", "--tokenizer", fixture(t), "--benchmark", "hello")
	require.NoError(t, err)
	assert.Contains(t, res.stderr, "Load time:")
	assert.Contains(t, res.stderr, "Tokenize time (1st):")
	assert.Contains(t, res.stderr, "Tokenize time (2nd):")
	assert.Contains(t, res.stderr, "Total time:")
}

func TestTokenize_Errors(t *testing.T) {
	_, err := run(t, "", "tokenize", "--tokenizer", filepath.Join(t.TempDir(), "missing.json"), "hi")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = run(t, "", "tokenize", "--tokenizer", fixture(t), "--tokenizer-sha256", strings.Repeat("0", 64), "hi")
	assert.ErrorIs(t, err, tokenizer.ErrChecksumMismatch)
}

func TestDetokenize(t *testing.T) {
	path := fixture(t)

	res, err := run(t, "", "detokenize", "--tokenizer", path, "262,258", "111")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", res.stdout)

	res, err = run(t, "", "detokenize", "--tokenizer", path, "--special", "--json", "262 258 111")
	require.NoError(t, err)
	assert.Equal(t, "<|user|>hello", decodeString(t, res.stdout))

	res, err = run(t, "258 111\n", "detokenize", "--tokenizer", path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", res.stdout)

	_, err = run(t, "", "detokenize", "--tokenizer", path, "12x")
	assert.Error(t, err)

	_, err = run(t, "", "detokenize", "--tokenizer", path, "999999")
	assert.ErrorIs(t, err, tokenizer.ErrUnknownToken)
}

func TestChat(t *testing.T) {
	req := `{"messages":[{"role":"user","content":"hi"}],"reasoning_enabled":true}`

	res, err := run(t, "", "chat", req)
	require.NoError(t, err)
	assert.Equal(t, "[gMASK]<sop><|user|>\nhi<|assistant|>\n<think>", res.stdout)

	res, err = run(t, "", "chat", "--json", `{"messages":[{"role":"user","content":"hi"}]}`)
	require.NoError(t, err)
	assert.Equal(t, "[gMASK]<sop><|user|>\nhi/nothink<|assistant|>\n<think></think>", decodeString(t, res.stdout))

	res, err = run(t, "", "chat", "--template-version", "glm-4.7", `{"messages":[{"role":"user","content":"hi"}]}`)
	require.NoError(t, err)
	assert.Equal(t, "[gMASK]<sop><|user|>\nhi<|assistant|>\n</think>", res.stdout)
}

func TestChat_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.json")
	body := `{"messages":[{"role":"system","content":"s"},{"role":"user","content":"u"}],"prefill":{"type":"none"}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	res, err := run(t, "", "chat", "--chat-file", path)
	require.NoError(t, err)
	assert.Equal(t, "[gMASK]<sop><|system|>\ns<|user|>\nu/nothink", res.stdout)
}

func TestChat_Tokenize(t *testing.T) {
	req := `{"messages":[{"role":"user","content":"hi"}],"reasoning_enabled":true}`

	res, err := run(t, "", "chat", "--tokenizer", fixture(t), "--tokenize", req)
	require.NoError(t, err)
	assert.Equal(t, "259 260 262 10 104 105 263 10 264\n", res.stdout)
}

func TestChat_Errors(t *testing.T) {
	_, err := run(t, "", "chat")
	assert.Error(t, err)

	_, err = run(t, "", "chat", "{not json")
	assert.Error(t, err)

	_, err = run(t, "", "chat", "--template-version", "glm-3", `{"messages":[]}`)
	assert.Error(t, err)

	_, err = run(t, "", "chat", `{"messages":[],"prefill":{"type":"sideways"}}`)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	res, err := run(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.stdout, "glmtok "+Version))

	res, err = run(t, "", "version", "--json")
	require.NoError(t, err)
	var v map[string]string
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &v))
	assert.Equal(t, Version, v["version"])
	assert.Equal(t, "glm-4.5", v["template"])
}

func TestSetupLogging(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SetupLogging("debug", "json", &buf))
	assert.Error(t, SetupLogging("loud", "text", &buf))
	require.NoError(t, SetupLogging("info", "text", &buf))
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"1,2", " 3\n4\t5 "})
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 3, 4, 5}, ids)

	_, err = parseIDs([]string{"4294967296"})
	assert.Error(t, err)
}

func TestAssetInfo(t *testing.T) {
	path := fixture(t)

	res, err := run(t, "", "asset", "info", "--tokenizer", path)
	require.NoError(t, err)
	assert.Contains(t, res.stdout, "type: BPE\n")
	assert.Contains(t, res.stdout, "gmask: true\n")
	assert.Contains(t, res.stdout, "sha256: "+tokenizer.Checksum(tokenizertest.JSON(t))+"\n")

	res, err = run(t, "", "asset", "info", "--json", "--strict", "--tokenizer", filepath.Dir(path))
	require.NoError(t, err)
	var meta tokenizer.HFTokenizerMetadata
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &meta))
	assert.True(t, meta.HasRoles)
	assert.Equal(t, tokenizertest.VocabSize-9, meta.VocabSize)
}

func TestAssetInfo_NotChat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokenizer.json")
	body := `{"model":{"type":"WordPiece","vocab":{"[CLS]":0}},"added_tokens":[{"id":0,"content":"[CLS]","special":true}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	res, err := run(t, "", "asset", "info", "--tokenizer", path)
	require.NoError(t, err)
	assert.Contains(t, res.stdout, "gmask: false\n")

	_, err = run(t, "", "asset", "info", "--strict", "--tokenizer", path)
	assert.ErrorIs(t, err, tokenizer.ErrUnsupportedModel)
}

func TestAssetCompress(t *testing.T) {
	path := fixture(t)
	sum := tokenizer.Checksum(tokenizertest.JSON(t))

	res, err := run(t, "", "asset", "compress", "--tokenizer", path)
	require.NoError(t, err)
	assert.Equal(t, path+".br\t"+sum+"\n", res.stdout)

	res, err = run(t, "", "tokenize", "--tokenizer", path+".br", "--tokenizer-sha256", sum, "hello")
	require.NoError(t, err)
	assert.Equal(t, "258 111\n", res.stdout)

	out := filepath.Join(t.TempDir(), "glm.br")
	res, err = run(t, "", "asset", "compress", "--json", "--tokenizer", path, "-o", out)
	require.NoError(t, err)
	var got compressResult
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
	assert.Equal(t, out, got.Path)
	assert.Equal(t, len(tokenizertest.JSON(t)), got.Size)
	assert.Positive(t, got.CompressedSize)

	_, err = run(t, "", "asset", "compress", "--tokenizer", path+".br")
	assert.Error(t, err)
}

func TestTokenizerName(t *testing.T) {
	ctx := &Context{Tokenizer: fixture(t), TemplateVersion: "glm-4.7"}

	tok, err := ctx.sharedTokenizer().Get()
	require.NoError(t, err)
	assert.Equal(t, tokenizer.DefaultName, tok.Name())

	ctx.TokenizerName = "glm-4.6-air"
	tok, err = ctx.sharedTokenizer().Get()
	require.NoError(t, err)
	assert.Equal(t, "glm-4.6-air", tok.Name())
}
