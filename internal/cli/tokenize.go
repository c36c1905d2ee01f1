package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/born-ml/glmtok/internal/host"
	"github.com/born-ml/glmtok/internal/tokenizer"
)

type TokenizeCMD struct {
	Text    []string `arg:"" optional:"" help:"Text to tokenize, read from stdin when omitted"`
	Special bool     `help:"Include special tokens"`
	Inspect bool     `help:"Print every token with its text and byte offsets"`
}

func (t *TokenizeCMD) Run(ctx *Context, s *Streams) error {
	text, err := input(t.Text, s)
	if err != nil {
		return err
	}

	shared := ctx.sharedTokenizer()
	tok, loadTime, err := ctx.load(shared, s)
	if err != nil {
		return err
	}

	if t.Inspect {
		infos, err := tok.Inspect(text, tokenizer.SpecialTokensFrom(t.Special))
		if err != nil {
			return err
		}
		return writeInspect(ctx, s, infos)
	}

	h, err := ctx.handler(shared, host.DefaultConfig())
	if err != nil {
		return err
	}
	req := host.TokenizeRequest{Text: text, IncludeSpecialTokens: t.Special}

	start := time.Now()
	ids, err := h.Tokenize(context.Background(), req)
	first := time.Since(start)
	if err != nil {
		return err
	}

	if ctx.Benchmark {
		ctx.timing(s, "Tokenize time (1st)", first)
		start = time.Now()
		if _, err := h.Tokenize(context.Background(), req); err != nil {
			return err
		}
		second := time.Since(start)
		ctx.timing(s, "Tokenize time (2nd)", second)
		ctx.timing(s, "Total time", loadTime+first+second)
	}

	if ctx.JSON {
		return json.NewEncoder(s.Out).Encode(ids)
	}
	_, err = fmt.Fprintln(s.Out, joinIDs(ids))
	return err
}

func writeInspect(ctx *Context, s *Streams, infos []tokenizer.TokenInfo) error {
	if ctx.JSON {
		return json.NewEncoder(s.Out).Encode(infos)
	}
	for _, info := range infos {
		if _, err := fmt.Fprintf(s.Out, "%d\t%d\t%d\t%q\n", info.ID, info.Start, info.End, info.Text); err != nil {
			return err
		}
	}
	return nil
}

func joinIDs(ids []uint32) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, " ")
}

func parseIDs(fields []string) ([]uint32, error) {
	ids := make([]uint32, 0, len(fields))
	for _, field := range fields {
		for _, f := range strings.FieldsFunc(field, func(r rune) bool { return r == ',' || r == ' ' || r == '\n' || r == '\t' }) {
			id, err := strconv.ParseUint(f, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("failed to parse token %q: %w", f, err)
			}
			ids = append(ids, uint32(id))
		}
	}
	return ids, nil
}
