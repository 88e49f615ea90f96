package toolx

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/Abraxas-365/hireflow/pkg/ai/llm"
	"github.com/Abraxas-365/hireflow/pkg/logx"
)

// Toolx is a function the model may call. Call receives the raw JSON
// arguments chosen by the model.
type Toolx interface {
	Call(ctx context.Context, inputs string) (any, error)
	GetTool() llm.Tool
	Name() string
}

type ToolxClient struct {
	tools map[string]Toolx
}

func FromToolx(tools ...Toolx) *ToolxClient {
	toolMap := make(map[string]Toolx)
	for _, tool := range tools {
		toolMap[tool.Name()] = tool
	}
	return &ToolxClient{tools: toolMap}
}

func (t *ToolxClient) Len() int {
	if t == nil {
		return 0
	}
	return len(t.tools)
}

// GetTools returns the tool definitions ordered by name
func (t *ToolxClient) GetTools() []llm.Tool {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.tools))
	for name := range t.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	tools := make([]llm.Tool, 0, len(names))
	for _, name := range names {
		tools = append(tools, t.tools[name].GetTool())
	}
	return tools
}

// Call runs the tool named by tc. Tool failures are reported back to the
// model as the tool result so it can recover; they never abort the run.
func (t *ToolxClient) Call(ctx context.Context, tc llm.ToolCall) llm.Message {
	tool, ok := t.tools[tc.Function.Name]
	if !ok {
		return llm.NewToolMessage(tc.ID, fmt.Sprintf("Error: unknown tool %q", tc.Function.Name))
	}

	result, err := tool.Call(ctx, tc.Function.Arguments)
	if err != nil {
		logx.WithFields(logx.Fields{"tool": tc.Function.Name}).WithError(err).Warn("Tool call failed")
		return llm.NewToolMessage(tc.ID, "Error calling tool: "+err.Error())
	}

	var resultStr string
	switch v := result.(type) {
	case string:
		resultStr = v
	case []byte:
		resultStr = string(v)
	case int:
		resultStr = strconv.Itoa(v)
	case float64:
		resultStr = strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		resultStr = strconv.FormatBool(v)
	case fmt.Stringer:
		resultStr = v.String()
	default:
		jsonBytes, jsonErr := json.Marshal(result)
		if jsonErr != nil {
			return llm.NewToolMessage(tc.ID, "Error converting result to string: "+jsonErr.Error())
		}
		resultStr = string(jsonBytes)
	}
	return llm.NewToolMessage(tc.ID, resultStr)
}

// Func adapts a typed handler into a Toolx. Arguments are decoded into a
// fresh Args before each call; empty arguments decode as "{}".
type Func[Args any] struct {
	name        string
	description string
	parameters  map[string]any
	handler     func(ctx context.Context, args Args) (any, error)
}

func NewFunc[Args any](name, description string, parameters map[string]any, handler func(ctx context.Context, args Args) (any, error)) *Func[Args] {
	if parameters == nil {
		parameters = map[string]any{"type": "object", "properties": map[string]any{}}
	}
	return &Func[Args]{
		name:        name,
		description: description,
		parameters:  parameters,
		handler:     handler,
	}
}

func (f *Func[Args]) Name() string {
	return f.name
}

func (f *Func[Args]) GetTool() llm.Tool {
	return llm.Tool{
		Type: "function",
		Function: llm.Function{
			Name:        f.name,
			Description: f.description,
			Parameters:  f.parameters,
		},
	}
}

func (f *Func[Args]) Call(ctx context.Context, inputs string) (any, error) {
	var args Args
	if inputs == "" {
		inputs = "{}"
	}
	if err := json.Unmarshal([]byte(inputs), &args); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return f.handler(ctx, args)
}
