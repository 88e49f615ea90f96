package errx

import (
	"fmt"
	"sync"
)

// Code is a fully qualified error code, e.g. "INTERVIEW_NOT_FOUND"
type Code string

type definition struct {
	errType Type
	status  int
	message string
}

// Registry holds the error catalogue of one aggregate. Codes are prefixed
// with the registry name.
type Registry struct {
	prefix string
	mu     sync.RWMutex
	defs   map[Code]definition
}

func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		defs:   make(map[Code]definition),
	}
}

// Register declares a code. It panics on duplicates since registration
// happens in package var blocks.
func (r *Registry) Register(name string, errType Type, httpStatus int, message string) Code {
	code := Code(r.prefix + "_" + name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[code]; exists {
		panic(fmt.Sprintf("errx: duplicate error code %s", code))
	}
	r.defs[code] = definition{errType: errType, status: httpStatus, message: message}
	return code
}

// New builds a fresh error for a registered code
func (r *Registry) New(code Code) *Error {
	r.mu.RLock()
	def, ok := r.defs[code]
	r.mu.RUnlock()

	if !ok {
		return New(fmt.Sprintf("unregistered error code %s", code), TypeInternal)
	}

	return &Error{
		Code:       string(code),
		Type:       def.errType,
		Message:    def.message,
		HTTPStatus: def.status,
	}
}

// Codes lists every code declared in the registry
func (r *Registry) Codes() []Code {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make([]Code, 0, len(r.defs))
	for c := range r.defs {
		codes = append(codes, c)
	}
	return codes
}
