package host

// TokenizeRequest is the input of the tokenize function.
type TokenizeRequest struct {
	Text                 string `json:"text" msgpack:"text"`
	IncludeSpecialTokens bool   `json:"include_special_tokens" msgpack:"include_special_tokens"`
}

// DetokenizeRequest is the input of the detokenize function.
type DetokenizeRequest struct {
	Tokens               []uint32 `json:"tokens" msgpack:"tokens"`
	IncludeSpecialTokens bool     `json:"include_special_tokens" msgpack:"include_special_tokens"`
}

// Message is an OpenAI-compatible chat message.
type Message struct {
	Role             string  `json:"role" msgpack:"role"`
	Content          string  `json:"content" msgpack:"content"`
	ReasoningContent *string `json:"reasoning_content,omitempty" msgpack:"reasoning_content,omitempty"`
}

// Prefill descriptor types.
const (
	PrefillTypeNone             = "none"
	PrefillTypeCanonical        = "canonical"
	PrefillTypePartialReasoning = "partial_reasoning"
	PrefillTypeFullReasoning    = "full_reasoning"
)

// PrefillDescriptor selects how the trailing assistant turn is seeded.
type PrefillDescriptor struct {
	Type             string  `json:"type" msgpack:"type"`
	ReasoningContent *string `json:"reasoning_content,omitempty" msgpack:"reasoning_content,omitempty"`
	Content          *string `json:"content,omitempty" msgpack:"content,omitempty"`
}

// NewPrefillNone creates a prefill with no additional content.
func NewPrefillNone() *PrefillDescriptor {
	return &PrefillDescriptor{Type: PrefillTypeNone}
}

// NewPrefillCanonical creates a canonical prefill, the default.
func NewPrefillCanonical() *PrefillDescriptor {
	return &PrefillDescriptor{Type: PrefillTypeCanonical}
}

// NewPrefillPartialReasoning creates a prefill with open reasoning text.
func NewPrefillPartialReasoning(reasoning string) *PrefillDescriptor {
	return &PrefillDescriptor{Type: PrefillTypePartialReasoning, ReasoningContent: &reasoning}
}

// NewPrefillFullReasoning creates a prefill with closed reasoning and content.
func NewPrefillFullReasoning(reasoning, content string) *PrefillDescriptor {
	return &PrefillDescriptor{
		Type:             PrefillTypeFullReasoning,
		ReasoningContent: &reasoning,
		Content:          &content,
	}
}

// ChatTemplateRequest is the input of the chat_template function.
//
// A nil Prefill means canonical. An empty Version means the handler default.
type ChatTemplateRequest struct {
	Messages              []Message          `json:"messages" msgpack:"messages"`
	ReasoningEnabled      bool               `json:"reasoning_enabled,omitempty" msgpack:"reasoning_enabled"`
	Prefill               *PrefillDescriptor `json:"prefill,omitempty" msgpack:"prefill,omitempty"`
	IgnoreMessagePosition bool               `json:"ignore_message_position,omitempty" msgpack:"ignore_message_position"`
	Version               string             `json:"version,omitempty" msgpack:"version,omitempty"`
}

// TokenizeResponse carries encoded token ids.
type TokenizeResponse struct {
	Tokens []uint32 `json:"tokens" msgpack:"tokens"`
}

// DetokenizeResponse carries decoded text.
type DetokenizeResponse struct {
	Text string `json:"text" msgpack:"text"`
}

// ChatTemplateResponse carries a rendered prompt.
type ChatTemplateResponse struct {
	Prompt string `json:"prompt" msgpack:"prompt"`
}

// TokenizeBatchRequest groups tokenize requests.
type TokenizeBatchRequest struct {
	Requests []TokenizeRequest `json:"requests" msgpack:"requests"`
}

// TokenizeBatchResponse holds results in request order.
type TokenizeBatchResponse struct {
	Results []TokenizeResponse `json:"results" msgpack:"results"`
}

// ChatTemplateBatchRequest groups chat template requests.
type ChatTemplateBatchRequest struct {
	Requests []ChatTemplateRequest `json:"requests" msgpack:"requests"`
}

// ChatTemplateBatchResponse holds results in request order.
type ChatTemplateBatchResponse struct {
	Results []ChatTemplateResponse `json:"results" msgpack:"results"`
}
