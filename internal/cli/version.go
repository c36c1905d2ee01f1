package cli

import (
	"encoding/json"
	"fmt"
	"runtime"
)

// Version is the glmtok release, set with -ldflags at build time.
var Version = "v0.1.0-dev"

type VersionCMD struct{}

func (v *VersionCMD) Run(ctx *Context, s *Streams) error {
	if ctx.JSON {
		return json.NewEncoder(s.Out).Encode(map[string]string{
			"version":  Version,
			"go":       runtime.Version(),
			"template": ctx.TemplateVersion,
		})
	}
	_, err := fmt.Fprintf(s.Out, "glmtok %s (%s)\n", Version, runtime.Version())
	return err
}
