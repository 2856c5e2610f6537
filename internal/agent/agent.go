package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/user/skywatch/pkg/llm"
)

// DefaultMaxIterations bounds the number of model round trips per run.
const DefaultMaxIterations = 10

// exhaustedMessage is returned when a run does not converge within the
// iteration budget.
const exhaustedMessage = "Maximum iterations reached. Please try again with a more specific query"

// Agent drives the tool-calling loop: it sends the transcript to the model,
// executes requested tools, feeds results back, and repeats until the model
// produces a final answer or the iteration budget runs out.
type Agent struct {
	provider      llm.Provider
	registry      *Registry
	maxIterations int
	estimator     *tokenEstimator
}

// New creates an Agent with the given dependencies. A non-positive
// maxIterations falls back to DefaultMaxIterations.
func New(provider llm.Provider, registry *Registry, maxIterations int) *Agent {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &Agent{
		provider:      provider,
		registry:      registry,
		maxIterations: maxIterations,
		estimator:     newTokenEstimator(),
	}
}

// Run answers a single user query to completion. The returned error is
// non-nil only for transport-level provider failures; tool failures, unknown
// tools, unexpected stop reasons, and iteration exhaustion are all recovered
// and surfaced in the returned text.
func (a *Agent) Run(ctx context.Context, userText string) (string, error) {
	runID := uuid.New().String()
	transcript := NewTranscript(userText)
	declarations := a.registry.Declarations()

	slog.Info("agent run started", "run_id", runID, "tools", a.registry.Len())

	for iteration := 1; iteration <= a.maxIterations; iteration++ {
		slog.Debug("calling model",
			"run_id", runID,
			"iteration", iteration,
			"messages", transcript.Len(),
			"prompt_tokens_est", a.estimator.Estimate(transcript.Messages()),
		)

		resp, err := a.provider.Complete(ctx, transcript.Messages(), declarations)
		if err != nil {
			return "", fmt.Errorf("model call: %w", err)
		}
		slog.Debug("model responded", "run_id", runID, "stop_reason", resp.StopReason,
			"output_tokens", resp.Usage.OutputTokens)

		switch resp.StopReason {
		case llm.StopToolUse:
			transcript.AppendAssistant(resp.Content)
			results := a.executeToolCalls(ctx, runID, resp.Content)
			if len(results) > 0 {
				transcript.AppendToolResults(results)
			}

		case llm.StopEndTurn:
			answer := joinText(resp.Content)
			slog.Info("agent run finished", "run_id", runID, "iterations", iteration,
				"answer_length", len(answer))
			return answer, nil

		default:
			slog.Warn("unexpected stop reason", "run_id", runID, "stop_reason", resp.StopReason)
			return fmt.Sprintf("Unexpected stop reason: %s", resp.StopReason), nil
		}
	}

	slog.Warn("iteration budget exhausted", "run_id", runID, "max_iterations", a.maxIterations)
	return exhaustedMessage, nil
}

// executeToolCalls runs every tool_use block strictly sequentially, in
// emission order, and returns one tool_result block per request. The i-th
// result's tool_use_id equals the i-th request's id; the model relies on
// this correlation.
func (a *Agent) executeToolCalls(ctx context.Context, runID string, content []llm.ContentBlock) []llm.ContentBlock {
	var results []llm.ContentBlock
	for _, block := range llm.ToolUseBlocks(content) {
		slog.Info("executing tool", "run_id", runID, "tool", block.Name, "call_id", block.ID)

		result := Dispatch(ctx, a.registry, block.Name, block.Input)
		if !result.Success {
			slog.Warn("tool failed", "run_id", runID, "tool", block.Name,
				"call_id", block.ID, "error", result.Error)
		}

		results = append(results, llm.ContentBlock{
			Type:      llm.BlockToolResult,
			ToolUseID: block.ID,
			Content:   result.Encode(),
		})
	}
	return results
}

// joinText concatenates the text blocks of a response in order, skipping
// everything else.
func joinText(content []llm.ContentBlock) string {
	var sb strings.Builder
	for _, b := range content {
		if b.Type == llm.BlockText {
			sb.WriteString(b.Text)
		}
	}
	return sb.String()
}
