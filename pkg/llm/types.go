package llm

import "encoding/json"

// Stop reasons a provider can report on a response.
const (
	StopToolUse = "tool_use"
	StopEndTurn = "end_turn"
)

// Content block types.
const (
	BlockText       = "text"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents one turn in a conversation transcript.
type Message struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// ContentBlock is a union of text, tool_use, and tool_result blocks.
// Which fields are meaningful depends on Type: Text for "text"; ID, Name,
// and Input for "tool_use"; ToolUseID and Content for "tool_result".
type ContentBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   string          `json:"content,omitempty"`
}

// ToolDef describes a tool that can be offered to the model.
type ToolDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// Response represents a complete response from an LLM provider.
type Response struct {
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      Usage          `json:"usage"`
}

// Usage tracks token consumption for a request/response pair.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// UserText builds a user message holding a single text block.
func UserText(text string) Message {
	return Message{
		Role:    RoleUser,
		Content: []ContentBlock{{Type: BlockText, Text: text}},
	}
}

// ToolUseBlocks returns the tool_use blocks of a content sequence, in order.
func ToolUseBlocks(content []ContentBlock) []ContentBlock {
	var out []ContentBlock
	for _, b := range content {
		if b.Type == BlockToolUse {
			out = append(out, b)
		}
	}
	return out
}
