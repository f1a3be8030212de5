package tools

import (
	"context"

	"github.com/rs/zerolog"
)

// ToolSpec describes one invokable tool for discovery.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// ToolResult is the uniform tool-call outcome. An unknown tool or a failing
// stage yields Status "error"; Call never raises.
type ToolResult struct {
	ToolName string `json:"tool_name"`
	Result   any    `json:"result,omitempty"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

type toolHandler func(ctx context.Context, params map[string]any) (any, error)

type tool struct {
	spec    ToolSpec
	handler toolHandler
}

// Dispatcher maps static tool names to stage invocations.
type Dispatcher struct {
	tools  map[string]tool
	order  []string
	logger *zerolog.Logger
}

func newDispatcher(logger *zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		tools:  make(map[string]tool),
		logger: logger,
	}
}

func (d *Dispatcher) register(spec ToolSpec, handler toolHandler) {
	d.tools[spec.Name] = tool{spec: spec, handler: handler}
	d.order = append(d.order, spec.Name)
}

// ListTools returns the tool specs in registration order.
func (d *Dispatcher) ListTools() []ToolSpec {
	specs := make([]ToolSpec, 0, len(d.order))
	for _, name := range d.order {
		specs = append(specs, d.tools[name].spec)
	}
	return specs
}

// Call executes a tool by name. Unknown names and stage failures come back as
// error results, never as panics or errors to the caller.
func (d *Dispatcher) Call(ctx context.Context, name string, params map[string]any) ToolResult {
	d.logger.Info().Str("tool", name).Msg("tool call")

	t, ok := d.tools[name]
	if !ok {
		d.logger.Warn().Str("tool", name).Msg("unknown tool")
		return ToolResult{
			ToolName: name,
			Status:   "error",
			Error:    "Unknown tool: " + name,
		}
	}

	result, err := func() (result any, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = &panicError{tool: name, value: rec}
			}
		}()
		return t.handler(ctx, params)
	}()
	if err != nil {
		d.logger.Error().Err(err).Str("tool", name).Msg("tool failed")
		return ToolResult{
			ToolName: name,
			Status:   "error",
			Error:    err.Error(),
		}
	}

	return ToolResult{
		ToolName: name,
		Status:   "success",
		Result:   result,
	}
}

type panicError struct {
	tool  string
	value any
}

func (e *panicError) Error() string {
	return "tool " + e.tool + " panicked"
}
