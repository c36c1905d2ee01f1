package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecideReasoning(t *testing.T) {
	text := "thinking"

	tests := []struct {
		name        string
		remove      bool
		enabled     bool
		pos         Position
		reasoning   *string
		wantText    string
		wantInclude bool
	}{
		{name: "included at last", enabled: true, pos: Last, reasoning: &text, wantText: text, wantInclude: true},
		{name: "missing reasoning is empty", enabled: true, pos: Last, wantInclude: true},
		{name: "intermediate suppressed", enabled: true, pos: Intermediate, reasoning: &text},
		{name: "disabled suppressed", pos: Last, reasoning: &text},
		{name: "pending removal suppressed", remove: true, enabled: true, pos: Last, reasoning: &text},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, include := decideReasoning(tt.remove, tt.enabled, tt.pos, tt.reasoning)
			assert.Equal(t, tt.wantText, got)
			assert.Equal(t, tt.wantInclude, include)
		})
	}
}

func TestPositionOf(t *testing.T) {
	tests := []struct {
		name    string
		i, n    int
		prefill Prefill
		ignore  bool
		want    Position
	}{
		{name: "last with prefill", i: 2, n: 3, prefill: PrefillCanonical{}, want: Last},
		{name: "last without prefill", i: 2, n: 3, prefill: PrefillNone{}, want: Intermediate},
		{name: "earlier with prefill", i: 0, n: 3, prefill: PrefillCanonical{}, want: Intermediate},
		{name: "override", i: 0, n: 3, prefill: PrefillNone{}, ignore: true, want: Last},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, positionOf(tt.i, tt.n, tt.prefill, tt.ignore))
		})
	}
}

func TestPosition_String(t *testing.T) {
	assert.Equal(t, "last", Last.String())
	assert.Equal(t, "intermediate", Intermediate.String())
}

func TestVersionPolicy(t *testing.T) {
	assert.True(t, GLM45.EmitsDisableSentinel())
	assert.False(t, GLM47.EmitsDisableSentinel())
	assert.Equal(t, "<think></think>", GLM45.EmptyReasoning())
	assert.Equal(t, "</think>", GLM47.EmptyReasoning())
	assert.Equal(t, "Version(9)", Version(9).String())
}

func TestParseVersion(t *testing.T) {
	for _, name := range []string{"glm-4.5", "GLM45", " glm4.6 ", "glm46"} {
		v, err := ParseVersion(name)
		assert.NoError(t, err, name)
		assert.Equal(t, GLM45, v, name)
	}

	v, err := ParseVersion("glm-4.7")
	assert.NoError(t, err)
	assert.Equal(t, GLM47, v)

	_, err = ParseVersion("llama")
	assert.ErrorIs(t, err, ErrUnknownVersion)
}

func TestMessageRoles(t *testing.T) {
	assert.Equal(t, RoleSystem, Role(System{}))
	assert.Equal(t, RoleUser, Role(User{}))
	assert.Equal(t, RoleAssistant, Role(NewAssistant("x")))

	conv := Chat{Messages: []Message{User{Content: "a"}, NewAssistant("b")}}
	assert.Equal(t, 2, conv.Len())
}

func TestPrefillKind(t *testing.T) {
	assert.Equal(t, KindNone, PrefillKind(nil))
	assert.Equal(t, KindNone, PrefillKind(PrefillNone{}))
	assert.Equal(t, KindCanonical, PrefillKind(PrefillCanonical{}))
	assert.Equal(t, KindPartialReasoning, PrefillKind(PrefillPartialReasoning{}))
	assert.Equal(t, KindFullReasoning, PrefillKind(PrefillFullReasoning{}))
}
