package llm

import (
	"context"
	"net/http"

	"github.com/Abraxas-365/hireflow/pkg/errx"
)

// LLM is a chat model that may answer with tool calls
type LLM interface {
	Chat(ctx context.Context, messages []Message, opts ...Option) (Response, error)
}

// Response contains the model's response and additional metadata
type Response struct {
	Message Message
	Usage   Usage
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("AI")

var (
	CodeProviderFailed     = ErrRegistry.Register("PROVIDER_FAILED", errx.TypeExternal, http.StatusBadGateway, "The language model request failed")
	CodeEmptyResponse      = ErrRegistry.Register("EMPTY_RESPONSE", errx.TypeExternal, http.StatusBadGateway, "The language model returned no answer")
	CodeIterationsExceeded = ErrRegistry.Register("ITERATIONS_EXCEEDED", errx.TypeInternal, http.StatusInternalServerError, "The assistant needed too many tool calls")
	CodeMemoryFailed       = ErrRegistry.Register("MEMORY_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Conversation history is unavailable")
)

func ErrProviderFailed() *errx.Error {
	return ErrRegistry.New(CodeProviderFailed)
}

func ErrEmptyResponse() *errx.Error {
	return ErrRegistry.New(CodeEmptyResponse)
}

func ErrIterationsExceeded() *errx.Error {
	return ErrRegistry.New(CodeIterationsExceeded)
}

func ErrMemoryFailed() *errx.Error {
	return ErrRegistry.New(CodeMemoryFailed)
}
