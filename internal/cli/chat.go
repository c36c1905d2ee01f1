package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/born-ml/glmtok/internal/host"
)

type ChatCMD struct {
	Request  []string `arg:"" optional:"" help:"Chat template request as JSON"`
	ChatFile string   `name:"chat-file" type:"path" help:"Path to a JSON file with the chat template request"`
	Tokenize bool     `help:"Print the token ids of the rendered prompt instead of the text"`
}

func (c *ChatCMD) Run(ctx *Context, s *Streams) error {
	req, err := c.request()
	if err != nil {
		return err
	}

	shared := ctx.sharedTokenizer()
	h, err := ctx.handler(shared, host.DefaultConfig())
	if err != nil {
		return err
	}

	start := time.Now()
	prompt, err := h.ChatTemplate(context.Background(), req)
	opTime := time.Since(start)
	if err != nil {
		return err
	}
	ctx.timing(s, "Chat template time", opTime)

	if c.Tokenize {
		if _, _, err := ctx.load(shared, s); err != nil {
			return err
		}
		ids, err := h.Tokenize(context.Background(), host.TokenizeRequest{Text: prompt, IncludeSpecialTokens: true})
		if err != nil {
			return err
		}
		if ctx.JSON {
			return json.NewEncoder(s.Out).Encode(ids)
		}
		_, err = fmt.Fprintln(s.Out, joinIDs(ids))
		return err
	}

	if ctx.JSON {
		return json.NewEncoder(s.Out).Encode(prompt)
	}
	_, err = fmt.Fprint(s.Out, prompt)
	return err
}

func (c *ChatCMD) request() (host.ChatTemplateRequest, error) {
	var (
		req  host.ChatTemplateRequest
		data []byte
	)
	switch {
	case c.ChatFile != "":
		b, err := os.ReadFile(c.ChatFile)
		if err != nil {
			return req, fmt.Errorf("failed to read chat file: %w", err)
		}
		data = b
	case len(c.Request) > 0:
		data = []byte(strings.Join(c.Request, " "))
	default:
		return req, errors.New("chat requires either --chat-file or a JSON request argument")
	}

	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("failed to parse chat request: %w", err)
	}
	return req, nil
}
