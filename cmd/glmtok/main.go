// Package main provides the glmtok CLI.
package main

import (
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/born-ml/glmtok/internal/cli"
)

func main() {
	// Log at info until the flags are parsed.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	// handle loading environment variables from .env files
	envFiles := []string{".env", "glmtok.env"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		envFiles = append(envFiles, filepath.Join(homeDir, ".config/glmtok.env"))
	}
	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		log.Debug().Str("envFile", envFile).Msg("env file found, loading environment variables from file")
		if err := godotenv.Load(envFile); err != nil {
			log.Error().Err(err).Str("envFile", envFile).Msg("failed to load environment variables from file")
		}
	}

	var app cli.App
	ctx := kong.Parse(&app,
		kong.Name("glmtok"),
		kong.Description(`  GLM-4.x chat template renderer and tokenizer.

Version: ${version}
`),
		kong.UsageOnError(),
		kong.Vars{"version": cli.Version},
		kong.Bind(cli.StdStreams()),
	)

	if err := cli.SetupLogging(app.LogLevel, app.LogFormat, os.Stderr); err != nil {
		log.Fatal().Err(err).Msg("invalid logging configuration")
	}

	if err := ctx.Run(&app.Context); err != nil {
		log.Fatal().Err(err).Msg("Error running the application")
	}
}
