package agentx

import (
	"context"
	"strings"

	"github.com/Abraxas-365/hireflow/pkg/ai/llm"
	"github.com/Abraxas-365/hireflow/pkg/ai/llm/memoryx"
	"github.com/Abraxas-365/hireflow/pkg/ai/llm/toolx"
	"github.com/Abraxas-365/hireflow/pkg/errx"
	"github.com/Abraxas-365/hireflow/pkg/logx"
)

// Agent represents an LLM-powered agent with memory and tool capabilities
type Agent struct {
	model              llm.LLM
	tools              *toolx.ToolxClient
	memory             memoryx.Memory
	options            []llm.Option
	maxAutoIterations  int // rounds in which the model may still call tools
	maxTotalIterations int // hard limit on model calls per Run
}

// AgentOption configures an Agent
type AgentOption func(*Agent)

func WithOptions(options ...llm.Option) AgentOption {
	return func(a *Agent) {
		a.options = append(a.options, options...)
	}
}

func WithTools(tools *toolx.ToolxClient) AgentOption {
	return func(a *Agent) {
		a.tools = tools
	}
}

func WithMaxAutoIterations(max int) AgentOption {
	return func(a *Agent) {
		a.maxAutoIterations = max
	}
}

func WithMaxTotalIterations(max int) AgentOption {
	return func(a *Agent) {
		a.maxTotalIterations = max
	}
}

func New(model llm.LLM, memory memoryx.Memory, opts ...AgentOption) *Agent {
	agent := &Agent{
		model:              model,
		memory:             memory,
		maxAutoIterations:  3,
		maxTotalIterations: 10,
	}

	for _, opt := range opts {
		opt(agent)
	}
	if agent.maxTotalIterations <= agent.maxAutoIterations {
		agent.maxTotalIterations = agent.maxAutoIterations + 1
	}

	return agent
}

// Result is the outcome of one Run
type Result struct {
	Answer    string
	Usage     llm.Usage
	ToolsUsed []string
}

// Run adds userInput to memory and loops model calls and tool calls until
// the model answers with text. After maxAutoIterations rounds of tool calls
// the model is told not to call tools any more.
func (a *Agent) Run(ctx context.Context, userInput string) (*Result, error) {
	if err := a.memory.Add(ctx, llm.NewUserMessage(userInput)); err != nil {
		return nil, err
	}

	result := &Result{}
	for iteration := 0; iteration < a.maxTotalIterations; iteration++ {
		messages, err := a.memory.Messages(ctx)
		if err != nil {
			return nil, err
		}

		response, err := a.model.Chat(ctx, messages, a.optionsFor(iteration)...)
		if err != nil {
			if _, ok := errx.As(err); ok {
				return nil, err
			}
			return nil, llm.ErrProviderFailed().WithCause(err)
		}
		result.Usage = result.Usage.Add(response.Usage)

		if err := a.memory.Add(ctx, response.Message); err != nil {
			return nil, err
		}

		if len(response.Message.ToolCalls) == 0 || a.tools.Len() == 0 {
			answer := strings.TrimSpace(response.Message.Content)
			if answer == "" {
				return nil, llm.ErrEmptyResponse()
			}
			result.Answer = answer
			return result, nil
		}

		for _, tc := range response.Message.ToolCalls {
			logx.WithFields(logx.Fields{
				"tool":      tc.Function.Name,
				"iteration": iteration,
			}).Debug("Agent calling tool")

			result.ToolsUsed = append(result.ToolsUsed, tc.Function.Name)
			if err := a.memory.Add(ctx, a.tools.Call(ctx, tc)); err != nil {
				return nil, err
			}
		}
	}

	return nil, llm.ErrIterationsExceeded().WithDetail("max_iterations", a.maxTotalIterations)
}

func (a *Agent) optionsFor(iteration int) []llm.Option {
	options := append([]llm.Option(nil), a.options...)
	if a.tools.Len() == 0 {
		return options
	}

	options = append(options, llm.WithTools(a.tools.GetTools()))
	if iteration < a.maxAutoIterations {
		options = append(options, llm.WithToolChoice("auto"))
	} else {
		options = append(options, llm.WithToolChoice("none"))
	}
	return options
}

// ClearMemory resets the conversation but keeps the system prompt
func (a *Agent) ClearMemory(ctx context.Context) error {
	return a.memory.Clear(ctx)
}
