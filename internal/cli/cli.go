// Package cli implements the glmtok commands.
package cli

// App is the root command.
type App struct {
	Context `embed:""`

	Tokenize   TokenizeCMD   `cmd:"" help:"Convert text to token ids"`
	Detokenize DetokenizeCMD `cmd:"" help:"Convert token ids to text"`
	Chat       ChatCMD       `cmd:"" help:"Render a chat template request into a prompt"`
	Asset      AssetCMD      `cmd:"" help:"Inspect or compress the tokenizer asset"`
	Serve      ServeCMD      `cmd:"" help:"Run the HTTP API"`
	Version    VersionCMD    `cmd:"" help:"Show version"`
}
