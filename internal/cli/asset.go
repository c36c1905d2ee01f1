package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/born-ml/glmtok/internal/tokenizer"
)

type AssetCMD struct {
	Info     AssetInfoCMD     `cmd:"" help:"Describe the tokenizer asset without building the tokenizer"`
	Compress AssetCompressCMD `cmd:"" help:"Write a brotli-compressed copy of the tokenizer asset"`
}

type AssetInfoCMD struct {
	Strict bool `help:"Fail unless the asset carries the GLM preamble and role tokens"`
}

func (a *AssetInfoCMD) Run(ctx *Context, s *Streams) error {
	meta, err := tokenizer.DetectHFTokenizerType(ctx.Tokenizer)
	if err != nil {
		return err
	}

	if ctx.JSON {
		err = json.NewEncoder(s.Out).Encode(meta)
	} else {
		_, err = fmt.Fprintf(s.Out,
			"type: %s\nvocab_size: %d\nadded_tokens: %d\nspecial_tokens: %d\ngmask: %t\nroles: %t\nreasoning: %t\nsha256: %s\n",
			meta.TokenizerType, meta.VocabSize, meta.AddedTokens, meta.SpecialTokens,
			meta.HasGMASK, meta.HasRoles, meta.HasReasoning, meta.SHA256)
	}
	if err != nil {
		return err
	}

	if err := meta.CheckChat(); err != nil {
		if a.Strict {
			return err
		}
		log.Warn().Err(err).Str("tokenizer", ctx.Tokenizer).Msg("asset is not a GLM chat tokenizer")
	}
	return nil
}

type AssetCompressCMD struct {
	Output string `short:"o" type:"path" help:"Output path, defaults to the input path with a .br suffix"`
}

type compressResult struct {
	Path           string `json:"path"`
	SHA256         string `json:"sha256"`
	Size           int    `json:"size"`
	CompressedSize int64  `json:"compressed_size"`
}

func (a *AssetCompressCMD) Run(ctx *Context, s *Streams) error {
	in, err := tokenizer.ResolveAsset(ctx.Tokenizer)
	if err != nil {
		return err
	}
	data, err := tokenizer.ReadAsset(in)
	if err != nil {
		return err
	}
	// Only compress assets that load.
	if _, err := tokenizer.ParseHuggingFace(data, ctx.loadOptions()); err != nil {
		return err
	}

	out := a.Output
	if out == "" {
		out = strings.TrimSuffix(in, ".br") + ".br"
	}
	if out == in {
		return errors.New("output would overwrite the input asset")
	}

	if err := writeCompressed(out, data); err != nil {
		return err
	}
	info, err := os.Stat(out)
	if err != nil {
		return err
	}

	res := compressResult{Path: out, SHA256: tokenizer.Checksum(data), Size: len(data), CompressedSize: info.Size()}
	log.Debug().Str("path", res.Path).Int("size", res.Size).Int64("compressed", res.CompressedSize).Msg("tokenizer asset compressed")

	if ctx.JSON {
		return json.NewEncoder(s.Out).Encode(res)
	}
	_, err = fmt.Fprintf(s.Out, "%s\t%s\n", res.Path, res.SHA256)
	return err
}

func writeCompressed(path string, data []byte) error {
	f, err := os.Create(path) //nolint:gosec // G304: path comes from the command line.
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := tokenizer.CompressAsset(f, data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
