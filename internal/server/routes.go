package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/born-ml/glmtok/internal/host"
	"github.com/born-ml/glmtok/internal/tokenizer"
)

type routes struct {
	h       *host.Handler
	metrics *Metrics
}

type healthResponse struct {
	Status    string          `json:"status"`
	Tokenizer *tokenizer.Info `json:"tokenizer,omitempty"`
	Error     string          `json:"error,omitempty"`
}

func (r *routes) health(c echo.Context) error {
	info, err := r.h.Info()
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Error: err.Error()})
	}
	return c.JSON(http.StatusOK, healthResponse{Status: "ok", Tokenizer: &info})
}

func (r *routes) info(c echo.Context) error {
	info, err := r.h.Info()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, info)
}

func (r *routes) tokenize(c echo.Context) error {
	var req host.TokenizeRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	ids, err := r.h.Tokenize(c.Request().Context(), req)
	if err != nil {
		return err
	}
	r.metrics.observeTokens(host.FnTokenize, len(ids))
	return c.JSON(http.StatusOK, host.TokenizeResponse{Tokens: ids})
}

func (r *routes) tokenizeBatch(c echo.Context) error {
	var req host.TokenizeBatchRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	r.metrics.observeBatch(host.FnTokenize, len(req.Requests))

	all, err := r.h.TokenizeBatch(c.Request().Context(), req.Requests)
	if err != nil {
		return err
	}

	resp := host.TokenizeBatchResponse{Results: make([]host.TokenizeResponse, len(all))}
	for i, ids := range all {
		resp.Results[i].Tokens = ids
		r.metrics.observeTokens(host.FnTokenize, len(ids))
	}
	return c.JSON(http.StatusOK, resp)
}

func (r *routes) detokenize(c echo.Context) error {
	var req host.DetokenizeRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	text, err := r.h.Detokenize(c.Request().Context(), req)
	if err != nil {
		return err
	}
	r.metrics.observeTokens(host.FnDetokenize, len(req.Tokens))
	return c.JSON(http.StatusOK, host.DetokenizeResponse{Text: text})
}

func (r *routes) chatTemplate(c echo.Context) error {
	var req host.ChatTemplateRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	prompt, err := r.h.ChatTemplate(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, host.ChatTemplateResponse{Prompt: prompt})
}

func (r *routes) chatTemplateBatch(c echo.Context) error {
	var req host.ChatTemplateBatchRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	r.metrics.observeBatch(host.FnChatTemplate, len(req.Requests))

	prompts, err := r.h.ChatTemplateBatch(c.Request().Context(), req.Requests)
	if err != nil {
		return err
	}

	resp := host.ChatTemplateBatchResponse{Results: make([]host.ChatTemplateResponse, len(prompts))}
	for i, p := range prompts {
		resp.Results[i].Prompt = p
	}
	return c.JSON(http.StatusOK, resp)
}
