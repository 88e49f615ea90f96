package toolx

import (
	"context"
	"errors"
	"testing"

	"github.com/Abraxas-365/hireflow/pkg/ai/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoArgs struct {
	Text  string `json:"text"`
	Times int    `json:"times"`
}

func newClient() *ToolxClient {
	echo := NewFunc("echo", "Repeats text", nil, func(_ context.Context, args echoArgs) (any, error) {
		out := ""
		for i := 0; i < args.Times; i++ {
			out += args.Text
		}
		return out, nil
	})
	count := NewFunc("count", "Counts", nil, func(context.Context, struct{}) (any, error) {
		return map[string]int{"total": 3}, nil
	})
	broken := NewFunc("broken", "Always fails", nil, func(context.Context, struct{}) (any, error) {
		return nil, errors.New("database unavailable")
	})
	return FromToolx(echo, count, broken)
}

func TestToolxClient_GetToolsSorted(t *testing.T) {
	tools := newClient().GetTools()
	require.Len(t, tools, 3)

	var names []string
	for _, tool := range tools {
		assert.Equal(t, "function", tool.Type)
		names = append(names, tool.Function.Name)
	}
	assert.Equal(t, []string{"broken", "count", "echo"}, names)
}

func TestToolxClient_Call(t *testing.T) {
	client := newClient()
	ctx := context.Background()

	tests := []struct {
		name string
		call llm.FunctionCall
		want string
	}{
		{name: "typed args", call: llm.FunctionCall{Name: "echo", Arguments: `{"text":"ha","times":3}`}, want: "hahaha"},
		{name: "empty args", call: llm.FunctionCall{Name: "count"}, want: `{"total":3}`},
		{name: "bad json", call: llm.FunctionCall{Name: "echo", Arguments: `{"text":`}, want: "Error calling tool: invalid arguments"},
		{name: "tool error", call: llm.FunctionCall{Name: "broken", Arguments: "{}"}, want: "Error calling tool: database unavailable"},
		{name: "unknown tool", call: llm.FunctionCall{Name: "drop_tables"}, want: `Error: unknown tool "drop_tables"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := client.Call(ctx, llm.ToolCall{ID: "call-1", Type: "function", Function: tt.call})
			assert.Equal(t, llm.RoleTool, msg.Role)
			assert.Equal(t, "call-1", msg.ToolCallID)
			assert.Contains(t, msg.Content, tt.want)
		})
	}
}

func TestToolxClient_NilIsEmpty(t *testing.T) {
	var client *ToolxClient
	assert.Equal(t, 0, client.Len())
	assert.Empty(t, client.GetTools())
}
