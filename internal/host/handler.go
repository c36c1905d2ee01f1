package host

import (
	"context"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/born-ml/glmtok/internal/chat"
	"github.com/born-ml/glmtok/internal/parallel"
	"github.com/born-ml/glmtok/internal/tokenizer"
)

// Function names accepted by Call.
const (
	FnTokenize      = "tokenize"
	FnDetokenize    = "detokenize"
	FnChatTemplate  = "chat_template"
	FnTokenizerInfo = "tokenizer_info"
)

// Config configures a Handler.
type Config struct {
	// Version is used when a request names none.
	Version chat.Version

	// Parallel bounds batch fan-out.
	Parallel parallel.Config
}

// DefaultConfig returns a GLM45 handler config.
func DefaultConfig() Config {
	return Config{
		Version:  chat.GLM45,
		Parallel: parallel.DefaultConfig(),
	}
}

// Handler adapts wire requests to the chat engine and the tokenizer.
// It is safe for concurrent use.
type Handler struct {
	cfg  Config
	tmpl *chat.Template
	load func() (tokenizer.Tokenizer, error)
}

// New creates a handler over a lazily loaded tokenizer.
func New(shared *tokenizer.Shared, cfg Config) *Handler {
	return &Handler{
		cfg:  cfg,
		tmpl: chat.NewTemplate(cfg.Version),
		load: func() (tokenizer.Tokenizer, error) {
			tok, err := shared.Get()
			if err != nil {
				return nil, err
			}
			return tok, nil
		},
	}
}

// NewWithTokenizer creates a handler over an already loaded tokenizer.
func NewWithTokenizer(tok tokenizer.Tokenizer, cfg Config) *Handler {
	return &Handler{
		cfg:  cfg,
		tmpl: chat.NewTemplate(cfg.Version),
		load: func() (tokenizer.Tokenizer, error) { return tok, nil },
	}
}

func (h *Handler) tokenizer() (tokenizer.Tokenizer, error) {
	tok, err := h.load()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenizerUnavailable, err)
	}
	return tok, nil
}

// Ready reports whether the tokenizer is loaded, loading it if needed.
func (h *Handler) Ready() error {
	_, err := h.tokenizer()
	return wrap("ready", err)
}

// Info describes the loaded tokenizer.
func (h *Handler) Info() (tokenizer.Info, error) {
	tok, err := h.tokenizer()
	if err != nil {
		return tokenizer.Info{}, wrap(FnTokenizerInfo, err)
	}
	if g, ok := tok.(interface{ Info() tokenizer.Info }); ok {
		return g.Info(), nil
	}
	return tokenizer.Info{Model: string(tokenizer.HFTypeBPE), VocabSize: tok.VocabSize()}, nil
}

// Tokenize encodes text.
func (h *Handler) Tokenize(_ context.Context, req TokenizeRequest) ([]uint32, error) {
	ids, err := h.tokenize(req)
	return ids, wrap(FnTokenize, err)
}

func (h *Handler) tokenize(req TokenizeRequest) ([]uint32, error) {
	tok, err := h.tokenizer()
	if err != nil {
		return nil, err
	}
	return tok.Encode(req.Text, tokenizer.SpecialTokensFrom(req.IncludeSpecialTokens))
}

// Detokenize decodes token ids.
func (h *Handler) Detokenize(_ context.Context, req DetokenizeRequest) (string, error) {
	text, err := h.detokenize(req)
	return text, wrap(FnDetokenize, err)
}

func (h *Handler) detokenize(req DetokenizeRequest) (string, error) {
	tok, err := h.tokenizer()
	if err != nil {
		return "", err
	}
	return tok.Decode(req.Tokens, tokenizer.SpecialTokensFrom(req.IncludeSpecialTokens))
}

// ChatTemplate renders a conversation. It does not need the tokenizer.
func (h *Handler) ChatTemplate(_ context.Context, req ChatTemplateRequest) (string, error) {
	prompt, err := h.chatTemplate(req)
	return prompt, wrap(FnChatTemplate, err)
}

func (h *Handler) chatTemplate(req ChatTemplateRequest) (string, error) {
	tmpl, err := req.Template(h.tmpl)
	if err != nil {
		return "", err
	}
	opts, err := req.Options(tmpl.Version())
	if err != nil {
		return "", err
	}
	return tmpl.Render(ToChat(req.Messages), opts), nil
}

// TokenizeBatch encodes every request. The first failure fails the batch.
func (h *Handler) TokenizeBatch(ctx context.Context, reqs []TokenizeRequest) ([][]uint32, error) {
	out, err := parallel.Map(ctx, reqs, func(_ context.Context, req TokenizeRequest) ([]uint32, error) {
		return h.tokenize(req)
	}, h.cfg.Parallel)
	return out, wrap(FnTokenize+"_batch", err)
}

// ChatTemplateBatch renders every request. The first failure fails the batch.
func (h *Handler) ChatTemplateBatch(ctx context.Context, reqs []ChatTemplateRequest) ([]string, error) {
	out, err := parallel.Map(ctx, reqs, func(_ context.Context, req ChatTemplateRequest) (string, error) {
		return h.chatTemplate(req)
	}, h.cfg.Parallel)
	return out, wrap(FnChatTemplate+"_batch", err)
}

// Call dispatches a msgpack payload by function name, the way a plugin
// boundary does. tokenize returns msgpack-encoded ids, tokenizer_info a
// msgpack-encoded Info; detokenize and chat_template return raw UTF-8 text.
func (h *Handler) Call(ctx context.Context, function string, payload []byte) ([]byte, error) {
	switch function {
	case FnTokenize:
		var req TokenizeRequest
		if err := unmarshal(payload, &req); err != nil {
			return nil, wrap(function, err)
		}
		ids, err := h.Tokenize(ctx, req)
		if err != nil {
			return nil, err
		}
		return marshal(function, ids)

	case FnDetokenize:
		var req DetokenizeRequest
		if err := unmarshal(payload, &req); err != nil {
			return nil, wrap(function, err)
		}
		text, err := h.Detokenize(ctx, req)
		if err != nil {
			return nil, err
		}
		return []byte(text), nil

	case FnChatTemplate:
		var req ChatTemplateRequest
		if err := unmarshal(payload, &req); err != nil {
			return nil, wrap(function, err)
		}
		prompt, err := h.ChatTemplate(ctx, req)
		if err != nil {
			return nil, err
		}
		return []byte(prompt), nil

	case FnTokenizerInfo:
		info, err := h.Info()
		if err != nil {
			return nil, err
		}
		return marshal(function, info)

	default:
		return nil, wrap(function, fmt.Errorf("%w: %w %q", ErrInvalidRequest, ErrUnknownFunction, function))
	}
}

func unmarshal(payload []byte, v any) error {
	if err := msgpack.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: failed to unmarshal input: %w", ErrInvalidRequest, err)
	}
	return nil
}

func marshal(op string, v any) ([]byte, error) {
	out, err := msgpack.Marshal(v)
	if err != nil {
		return nil, wrap(op, fmt.Errorf("failed to marshal output: %w", err))
	}
	return out, nil
}
