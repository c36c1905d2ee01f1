package chat

// Role names used on the wire and in logs.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation.
//
// The set of implementations is closed: System, User and Assistant.
type Message interface {
	role() string
}

// System is a system prompt turn.
type System struct {
	Content string
}

// User is a user turn.
type User struct {
	Content string
}

// Assistant is a model turn.
//
// Reasoning is nil when no reasoning was recorded for the turn.
type Assistant struct {
	Content   string
	Reasoning *string
}

func (System) role() string    { return RoleSystem }
func (User) role() string      { return RoleUser }
func (Assistant) role() string { return RoleAssistant }

// NewAssistant creates an assistant turn without reasoning.
func NewAssistant(content string) Assistant {
	return Assistant{Content: content}
}

// NewAssistantWithReasoning creates an assistant turn carrying reasoning text.
func NewAssistantWithReasoning(content, reasoning string) Assistant {
	return Assistant{Content: content, Reasoning: &reasoning}
}

// Role returns the wire role name of a message.
func Role(m Message) string {
	return m.role()
}

// Chat is an ordered conversation. Order is conversational order.
type Chat struct {
	Messages []Message
}

// Len returns the number of messages.
func (c Chat) Len() int {
	return len(c.Messages)
}
