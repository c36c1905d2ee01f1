package chat

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownVersion is returned when a template family name is not recognized.
var ErrUnknownVersion = errors.New("unknown template version")

// Version selects the per-family formatting deltas.
type Version int

const (
	// GLM45 covers GLM-4.5 and GLM-4.6.
	//
	// User turns that request no reasoning get an explicit /nothink sentinel,
	// and an empty reasoning block renders as <think></think>.
	GLM45 Version = iota

	// GLM47 dropped the in-band sentinel and renders an empty reasoning
	// block as a lone </think>.
	GLM47
)

// String returns the canonical family name.
func (v Version) String() string {
	switch v {
	case GLM45:
		return "glm-4.5"
	case GLM47:
		return "glm-4.7"
	default:
		return fmt.Sprintf("Version(%d)", int(v))
	}
}

// EmitsDisableSentinel reports whether /nothink is appended to user turns
// that disable reasoning.
func (v Version) EmitsDisableSentinel() bool {
	return v != GLM47
}

// EmptyReasoning returns the rendering of a reasoning block without content.
func (v Version) EmptyReasoning() string {
	if v == GLM47 {
		return reasoningClose
	}
	return reasoningOpen + reasoningClose
}

// ParseVersion resolves a family name such as "glm-4.6" or "GLM47".
func ParseVersion(name string) (Version, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "glm-4.5", "glm4.5", "glm45", "glm-4.6", "glm4.6", "glm46":
		return GLM45, nil
	case "glm-4.7", "glm4.7", "glm47":
		return GLM47, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownVersion, name)
	}
}
