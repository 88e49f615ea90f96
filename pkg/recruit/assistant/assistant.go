// Package assistant answers recruiters' questions about interviews through a
// tool-calling language model. It only reads: no tool changes an interview.
package assistant

import (
	"net/http"

	"github.com/Abraxas-365/hireflow/pkg/errx"
)

const (
	MaxQuestionLength       = 2000
	MaxConversationIDLength = 64
)

// Answer is one assistant turn
type Answer struct {
	ConversationID string   `json:"conversation_id"`
	Reply          string   `json:"reply"`
	ToolsUsed      []string `json:"tools_used,omitempty"`
}

var ErrRegistry = errx.NewRegistry("ASSISTANT")

var (
	CodeInvalidQuestion = ErrRegistry.Register("INVALID_QUESTION", errx.TypeValidation, http.StatusUnprocessableEntity, "Question is empty or too long")
	CodeNotConfigured   = ErrRegistry.Register("NOT_CONFIGURED", errx.TypeBusiness, http.StatusServiceUnavailable, "The assistant is not configured")
)

func ErrInvalidQuestion() *errx.Error {
	return ErrRegistry.New(CodeInvalidQuestion)
}

func ErrNotConfigured() *errx.Error {
	return ErrRegistry.New(CodeNotConfigured)
}
