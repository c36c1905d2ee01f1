package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/born-ml/glmtok/internal/chat"
	"github.com/born-ml/glmtok/internal/host"
	"github.com/born-ml/glmtok/internal/tokenizer"
)

// Context holds the global flags shared by every command.
type Context struct {
	LogLevel        string `env:"GLMTOK_LOG_LEVEL" default:"info" enum:"error,warn,info,debug,trace" help:"Set the level of logs to output [${enum}]"`
	LogFormat       string `env:"GLMTOK_LOG_FORMAT" default:"text" enum:"text,json" help:"Set the format of logs to output [${enum}]"`
	Tokenizer       string `env:"GLMTOK_TOKENIZER" default:"tokenizer.json" type:"path" help:"Path to tokenizer.json, tokenizer.json.br or a model directory"`
	TokenizerSHA256 string `env:"GLMTOK_TOKENIZER_SHA256" name:"tokenizer-sha256" help:"Expected SHA-256 of the decompressed tokenizer.json"`
	TokenizerName   string `env:"GLMTOK_TOKENIZER_NAME" name:"tokenizer-name" help:"Name reported for the tokenizer, glm-4.5 when empty"`
	TemplateVersion string `env:"GLMTOK_VERSION" default:"glm-4.5" name:"template-version" help:"Chat template family (glm-4.5, glm-4.6, glm-4.7)"`

	JSON      bool `name:"json" help:"Output as JSON"`
	Benchmark bool `help:"Print timings to stderr"`
}

// Streams are the process's standard streams.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns os.Stdin, os.Stdout and os.Stderr.
func StdStreams() *Streams {
	return &Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// SetupLogging configures the global zerolog logger.
func SetupLogging(level, format string, w io.Writer) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)

	switch format {
	case "json":
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	default:
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}
	return nil
}

func (c *Context) loadOptions() tokenizer.LoadOptions {
	return tokenizer.LoadOptions{Name: c.TokenizerName, SHA256: c.TokenizerSHA256}
}

func (c *Context) sharedTokenizer() *tokenizer.Shared {
	return tokenizer.SharedFile(c.Tokenizer, c.loadOptions())
}

func (c *Context) templateVersion() (chat.Version, error) {
	return chat.ParseVersion(c.TemplateVersion)
}

func (c *Context) handler(shared *tokenizer.Shared, cfg host.Config) (*host.Handler, error) {
	v, err := c.templateVersion()
	if err != nil {
		return nil, err
	}
	cfg.Version = v
	return host.New(shared, cfg), nil
}

// load returns the tokenizer and reports the load time when benchmarking.
func (c *Context) load(shared *tokenizer.Shared, s *Streams) (*tokenizer.GLM, time.Duration, error) {
	start := time.Now()
	tok, err := shared.Get()
	took := time.Since(start)
	if err != nil {
		return nil, took, err
	}
	c.timing(s, "Load time", took)
	return tok, took, nil
}

func (c *Context) timing(s *Streams, label string, d time.Duration) {
	if c.Benchmark {
		fmt.Fprintf(s.Err, "%s: %v\n", label, d)
	}
}

// input joins args, or reads stdin when there are none.
func input(args []string, s *Streams) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(s.In)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}
