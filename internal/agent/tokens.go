package agent

import (
	"github.com/pkoukk/tiktoken-go"

	"github.com/user/skywatch/pkg/llm"
)

// tokenEstimator approximates prompt sizes for debug logging. Anthropic does
// not publish a tokenizer, so cl100k_base is used as a rough proxy.
type tokenEstimator struct {
	enc *tiktoken.Tiktoken
}

// newTokenEstimator returns an estimator, or a no-op one if the encoding
// cannot be loaded (estimation is best-effort and never blocks a run).
func newTokenEstimator() *tokenEstimator {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return &tokenEstimator{}
	}
	return &tokenEstimator{enc: enc}
}

// Estimate returns the approximate token count of a message sequence, or 0
// when no encoding is available.
func (e *tokenEstimator) Estimate(messages []llm.Message) int {
	if e.enc == nil {
		return 0
	}
	total := 0
	for _, msg := range messages {
		for _, b := range msg.Content {
			if b.Text != "" {
				total += len(e.enc.Encode(b.Text, nil, nil))
			}
			if len(b.Input) > 0 {
				total += len(e.enc.Encode(string(b.Input), nil, nil))
			}
			if b.Content != "" {
				total += len(e.enc.Encode(b.Content, nil, nil))
			}
		}
	}
	return total
}
