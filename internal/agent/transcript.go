package agent

import "github.com/user/skywatch/pkg/llm"

// Transcript is the append-only message history for one agent run. It is
// owned exclusively by the agent loop: messages are never reordered or
// removed, only appended.
type Transcript struct {
	messages []llm.Message
}

// NewTranscript seeds a transcript with exactly one user message carrying
// the caller's query.
func NewTranscript(userText string) *Transcript {
	return &Transcript{messages: []llm.Message{llm.UserText(userText)}}
}

// AppendAssistant appends the assistant's response content verbatim,
// preserving the order of its blocks.
func (t *Transcript) AppendAssistant(content []llm.ContentBlock) {
	t.messages = append(t.messages, llm.Message{Role: llm.RoleAssistant, Content: content})
}

// AppendToolResults appends a single user-role message carrying the given
// tool_result blocks.
func (t *Transcript) AppendToolResults(blocks []llm.ContentBlock) {
	t.messages = append(t.messages, llm.Message{Role: llm.RoleUser, Content: blocks})
}

// Messages returns the transcript in chronological order.
func (t *Transcript) Messages() []llm.Message {
	return t.messages
}

// Len returns the number of messages in the transcript.
func (t *Transcript) Len() int {
	return len(t.messages)
}
