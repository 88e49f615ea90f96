package llm

// ChatOptions contains options for generating chat completions
type ChatOptions struct {
	Model               string  // Model name/identifier
	Temperature         float32 // Controls randomness (0.0 to 1.0)
	MaxCompletionTokens int
	Tools               []Tool
	ToolChoice          string // "auto", "none" or "required"
	User                string // Identifier representing end-user
}

// Option is a function type to modify ChatOptions
type Option func(*ChatOptions)

func WithModel(model string) Option {
	return func(o *ChatOptions) {
		o.Model = model
	}
}

func WithTemperature(temp float32) Option {
	return func(o *ChatOptions) {
		o.Temperature = temp
	}
}

func WithMaxCompletionTokens(tokens int) Option {
	return func(o *ChatOptions) {
		o.MaxCompletionTokens = tokens
	}
}

func WithTools(tools []Tool) Option {
	return func(o *ChatOptions) {
		o.Tools = tools
	}
}

func WithToolChoice(toolChoice string) Option {
	return func(o *ChatOptions) {
		o.ToolChoice = toolChoice
	}
}

func WithUser(user string) Option {
	return func(o *ChatOptions) {
		o.User = user
	}
}

// DefaultOptions returns the default options
func DefaultOptions() *ChatOptions {
	return &ChatOptions{
		Temperature: 0.7,
	}
}

// Apply folds opts over the defaults
func Apply(opts ...Option) *ChatOptions {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}
