package session

import "time"

type Role string

const (
	RoleSystem Role = "system"
	RoleHuman  Role = "human"
	RoleAI     Role = "ai"
	RoleTool   Role = "tool"
)

// ToolCall is a structured request produced by the model: a tool name,
// its JSON-encoded arguments, and the id the tool result must echo.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`   // set on AI messages that request tools
	ToolCallID string     `json:"tool_call_id,omitempty"` // set on tool messages
	ToolName   string     `json:"tool_name,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Store holds per-session conversation history. Sessions are created
// lazily on first reference and live for the process lifetime.
type Store interface {
	Append(sessionID string, msg Message)
	// History returns the full ordered message list for the session.
	History(sessionID string) []Message
	// Window returns the most recent n messages for the session.
	Window(sessionID string, n int) []Message
}
