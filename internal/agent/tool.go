package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/user/skywatch/pkg/llm"
)

// Tool defines the interface for an executable tool.
type Tool interface {
	Name() string
	Description() string
	InputSchema() json.RawMessage
	Execute(ctx context.Context, args json.RawMessage) (string, error)
}

// Registry holds registered tools and provides lookup. Registration order is
// preserved so the declarations offered to the model are stable for the
// process lifetime.
type Registry struct {
	order []string
	tools map[string]Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool to the registry. Re-registering a name replaces the
// tool without changing its position.
func (r *Registry) Register(t Tool) {
	name := t.Name()
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = t
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}

// Declarations converts registered tools to the provider format, in
// registration order.
func (r *Registry) Declarations() []llm.ToolDef {
	out := make([]llm.ToolDef, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		out = append(out, llm.ToolDef{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.InputSchema(),
		})
	}
	return out
}

// Result is the outcome of one tool invocation. Exactly one of Data and Error
// is meaningful: success implies Data, failure implies Error.
type Result struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Encode serializes the result for return to the model.
func (r Result) Encode() string {
	out, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error":"encode result: %v"}`, err)
	}
	return string(out)
}

// Dispatch looks up a tool by name and invokes it with the given input.
// Every failure mode — unknown name, tool error, even a panicking tool —
// is folded into a failure Result; dispatch never terminates the loop.
func Dispatch(ctx context.Context, reg *Registry, name string, input json.RawMessage) (result Result) {
	defer func() {
		if rec := recover(); rec != nil {
			result = Result{Success: false, Error: fmt.Sprintf("tool %s panicked: %v", name, rec)}
		}
	}()

	tool, ok := reg.Get(name)
	if !ok {
		return Result{Success: false, Error: fmt.Sprintf("Unknown tool: %s", name)}
	}

	out, err := tool.Execute(ctx, input)
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}

	data := json.RawMessage(out)
	if !json.Valid(data) {
		// Tools are expected to emit JSON; quote anything that isn't.
		quoted, _ := json.Marshal(out)
		data = quoted
	}
	return Result{Success: true, Data: data}
}
