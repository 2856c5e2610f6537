package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/user/skywatch/pkg/llm"
)

// mockProvider replays scripted responses and records every request.
type mockProvider struct {
	responses []*llm.Response
	calls     int
	requests  [][]llm.Message
	err       error
}

func (m *mockProvider) Complete(ctx context.Context, messages []llm.Message, tools []llm.ToolDef) (*llm.Response, error) {
	m.calls++
	m.requests = append(m.requests, messages)
	if m.err != nil {
		return nil, m.err
	}
	if m.calls <= len(m.responses) {
		return m.responses[m.calls-1], nil
	}
	return m.responses[len(m.responses)-1], nil
}

// echoTool returns its input verbatim.
type echoTool struct{ name string }

func (t *echoTool) Name() string                 { return t.name }
func (t *echoTool) Description() string          { return "echoes input" }
func (t *echoTool) InputSchema() json.RawMessage { return json.RawMessage(`{"type":"object"}`) }
func (t *echoTool) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	return string(args), nil
}

func textResponse(text string) *llm.Response {
	return &llm.Response{
		Content:    []llm.ContentBlock{{Type: llm.BlockText, Text: text}},
		StopReason: llm.StopEndTurn,
	}
}

func toolUseResponse(blocks ...llm.ContentBlock) *llm.Response {
	return &llm.Response{Content: blocks, StopReason: llm.StopToolUse}
}

func toolUse(id, name, input string) llm.ContentBlock {
	return llm.ContentBlock{
		Type:  llm.BlockToolUse,
		ID:    id,
		Name:  name,
		Input: json.RawMessage(input),
	}
}

func TestRunDirectAnswer(t *testing.T) {
	provider := &mockProvider{responses: []*llm.Response{textResponse("Sunny in Paris.")}}
	ag := New(provider, NewRegistry(), 10)

	answer, err := ag.Run(context.Background(), "Weather in Paris?")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if answer != "Sunny in Paris." {
		t.Errorf("answer = %q, want %q", answer, "Sunny in Paris.")
	}
	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want 1", provider.calls)
	}
}

func TestRunToolRoundTrip(t *testing.T) {
	provider := &mockProvider{responses: []*llm.Response{
		toolUseResponse(
			llm.ContentBlock{Type: llm.BlockText, Text: "Let me check."},
			toolUse("call_1", "echo", `{"location":"Paris"}`),
		),
		textResponse("It is 18C in Paris."),
	}}
	reg := NewRegistry()
	reg.Register(&echoTool{name: "echo"})
	ag := New(provider, reg, 10)

	answer, err := ag.Run(context.Background(), "Weather in Paris?")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if answer != "It is 18C in Paris." {
		t.Errorf("answer = %q", answer)
	}
	if provider.calls != 2 {
		t.Fatalf("provider calls = %d, want 2", provider.calls)
	}

	// The second request must carry user, assistant, tool-result messages.
	second := provider.requests[1]
	if len(second) != 3 {
		t.Fatalf("second request has %d messages, want 3", len(second))
	}
	if second[1].Role != llm.RoleAssistant {
		t.Errorf("message 1 role = %q, want assistant", second[1].Role)
	}
	last := second[2]
	if last.Role != llm.RoleUser {
		t.Errorf("tool result message role = %q, want user", last.Role)
	}
	if len(last.Content) != 1 || last.Content[0].Type != llm.BlockToolResult {
		t.Fatalf("tool result message content = %+v", last.Content)
	}
	if last.Content[0].ToolUseID != "call_1" {
		t.Errorf("tool_use_id = %q, want call_1", last.Content[0].ToolUseID)
	}

	var result Result
	if err := json.Unmarshal([]byte(last.Content[0].Content), &result); err != nil {
		t.Fatalf("tool result content is not valid JSON: %v", err)
	}
	if !result.Success {
		t.Errorf("result.Success = false, error = %q", result.Error)
	}
}

func TestRunParallelToolCallsPreserveOrder(t *testing.T) {
	provider := &mockProvider{responses: []*llm.Response{
		toolUseResponse(
			toolUse("call_a", "echo", `{"n":1}`),
			toolUse("call_b", "echo", `{"n":2}`),
			toolUse("call_c", "echo", `{"n":3}`),
		),
		textResponse("done"),
	}}
	reg := NewRegistry()
	reg.Register(&echoTool{name: "echo"})
	ag := New(provider, reg, 10)

	if _, err := ag.Run(context.Background(), "go"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	last := provider.requests[1][2]
	if len(last.Content) != 3 {
		t.Fatalf("got %d tool results, want 3", len(last.Content))
	}
	wantIDs := []string{"call_a", "call_b", "call_c"}
	for i, block := range last.Content {
		if block.ToolUseID != wantIDs[i] {
			t.Errorf("result %d tool_use_id = %q, want %q", i, block.ToolUseID, wantIDs[i])
		}
	}
}

func TestRunUnknownToolContinues(t *testing.T) {
	provider := &mockProvider{responses: []*llm.Response{
		toolUseResponse(toolUse("call_1", "get_stock_price", `{}`)),
		textResponse("I can't do that."),
	}}
	ag := New(provider, NewRegistry(), 10)

	answer, err := ag.Run(context.Background(), "stock price?")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if answer != "I can't do that." {
		t.Errorf("answer = %q", answer)
	}

	content := provider.requests[1][2].Content[0].Content
	var result Result
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if result.Success {
		t.Error("unknown tool reported success")
	}
	if !strings.Contains(result.Error, "Unknown tool: get_stock_price") {
		t.Errorf("error = %q, want mention of unknown tool", result.Error)
	}
}

func TestRunIterationExhaustion(t *testing.T) {
	// The model asks for a tool forever; the loop must stop after exactly
	// maxIterations provider calls.
	provider := &mockProvider{responses: []*llm.Response{
		toolUseResponse(toolUse("call_1", "echo", `{}`)),
	}}
	reg := NewRegistry()
	reg.Register(&echoTool{name: "echo"})
	ag := New(provider, reg, 10)

	answer, err := ag.Run(context.Background(), "loop forever")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if answer != "Maximum iterations reached. Please try again with a more specific query" {
		t.Errorf("answer = %q", answer)
	}
	if provider.calls != 10 {
		t.Errorf("provider calls = %d, want 10", provider.calls)
	}
}

func TestRunProviderError(t *testing.T) {
	provider := &mockProvider{err: fmt.Errorf("connection refused")}
	ag := New(provider, NewRegistry(), 10)

	_, err := ag.Run(context.Background(), "hello")
	if err == nil {
		t.Fatal("Run() error = nil, want transport error")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("error = %v", err)
	}
}

func TestRunUnexpectedStopReason(t *testing.T) {
	provider := &mockProvider{responses: []*llm.Response{
		{Content: nil, StopReason: "max_tokens"},
	}}
	ag := New(provider, NewRegistry(), 10)

	answer, err := ag.Run(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if answer != "Unexpected stop reason: max_tokens" {
		t.Errorf("answer = %q", answer)
	}
	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want 1", provider.calls)
	}
}

func TestRunConcatenatesTextBlocks(t *testing.T) {
	provider := &mockProvider{responses: []*llm.Response{
		{
			Content: []llm.ContentBlock{
				{Type: llm.BlockText, Text: "Part one. "},
				{Type: llm.BlockToolUse, ID: "ignored", Name: "echo"},
				{Type: llm.BlockText, Text: "Part two."},
			},
			StopReason: llm.StopEndTurn,
		},
	}}
	ag := New(provider, NewRegistry(), 10)

	answer, err := ag.Run(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if answer != "Part one. Part two." {
		t.Errorf("answer = %q", answer)
	}
}

func TestRunEmptyEndTurn(t *testing.T) {
	provider := &mockProvider{responses: []*llm.Response{
		{Content: nil, StopReason: llm.StopEndTurn},
	}}
	ag := New(provider, NewRegistry(), 10)

	answer, err := ag.Run(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if answer != "" {
		t.Errorf("answer = %q, want empty", answer)
	}
}

func TestRunToolUseWithoutToolBlocks(t *testing.T) {
	// A tool_use stop with no tool_use blocks must not append an empty user
	// message to the transcript.
	provider := &mockProvider{responses: []*llm.Response{
		toolUseResponse(llm.ContentBlock{Type: llm.BlockText, Text: "thinking"}),
		textResponse("answer"),
	}}
	ag := New(provider, NewRegistry(), 10)

	if _, err := ag.Run(context.Background(), "hello"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// user + assistant only; no tool result message.
	if got := len(provider.requests[1]); got != 2 {
		t.Errorf("second request has %d messages, want 2", got)
	}
}

func TestNewDefaultsMaxIterations(t *testing.T) {
	ag := New(&mockProvider{}, NewRegistry(), 0)
	if ag.maxIterations != DefaultMaxIterations {
		t.Errorf("maxIterations = %d, want %d", ag.maxIterations, DefaultMaxIterations)
	}
}
