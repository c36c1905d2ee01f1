package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/born-ml/glmtok/internal/host"
)

type DetokenizeCMD struct {
	Tokens  []string `arg:"" optional:"" help:"Token ids separated by spaces or commas, read from stdin when omitted"`
	Special bool     `help:"Include special tokens"`
}

func (d *DetokenizeCMD) Run(ctx *Context, s *Streams) error {
	fields := d.Tokens
	if len(fields) == 0 {
		text, err := input(nil, s)
		if err != nil {
			return err
		}
		fields = []string{text}
	}

	start := time.Now()
	ids, err := parseIDs(fields)
	if err != nil {
		return err
	}
	parseTime := time.Since(start)

	shared := ctx.sharedTokenizer()
	_, loadTime, err := ctx.load(shared, s)
	if err != nil {
		return err
	}
	h, err := ctx.handler(shared, host.DefaultConfig())
	if err != nil {
		return err
	}

	start = time.Now()
	text, err := h.Detokenize(context.Background(), host.DetokenizeRequest{Tokens: ids, IncludeSpecialTokens: d.Special})
	opTime := time.Since(start)
	if err != nil {
		return err
	}

	ctx.timing(s, "Parse time", parseTime)
	ctx.timing(s, "Detokenize time", opTime)
	ctx.timing(s, "Total time", loadTime+parseTime+opTime)

	if ctx.JSON {
		return json.NewEncoder(s.Out).Encode(text)
	}
	_, err = fmt.Fprintln(s.Out, text)
	return err
}
