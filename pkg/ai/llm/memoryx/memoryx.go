package memoryx

import (
	"context"
	"sync"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/ai/llm"
)

// Memory represents a conversation memory with system prompt management
type Memory interface {
	// Messages returns the system prompt followed by the stored history
	Messages(ctx context.Context) ([]llm.Message, error)

	Add(ctx context.Context, messages ...llm.Message) error

	// Clear resets the conversation but keeps the system prompt
	Clear(ctx context.Context) error
}

// Store persists conversation histories by key
type Store interface {
	Load(ctx context.Context, key string) ([]llm.Message, error)
	Append(ctx context.Context, key string, messages ...llm.Message) error
	Delete(ctx context.Context, key string) error
}

// Conversation is a Memory over one key of a Store. The system prompt is
// never stored; it is prepended on every read.
type Conversation struct {
	store      Store
	key        string
	system     string
	maxHistory int
}

func NewConversation(store Store, key, systemPrompt string, maxHistory int) *Conversation {
	return &Conversation{
		store:      store,
		key:        key,
		system:     systemPrompt,
		maxHistory: maxHistory,
	}
}

func (c *Conversation) Messages(ctx context.Context) ([]llm.Message, error) {
	history, err := c.store.Load(ctx, c.key)
	if err != nil {
		return nil, llm.ErrMemoryFailed().WithCause(err)
	}
	history = TrimHistory(history, c.maxHistory)

	out := make([]llm.Message, 0, len(history)+1)
	if c.system != "" {
		out = append(out, llm.NewSystemMessage(c.system))
	}
	return append(out, history...), nil
}

func (c *Conversation) Add(ctx context.Context, messages ...llm.Message) error {
	if err := c.store.Append(ctx, c.key, messages...); err != nil {
		return llm.ErrMemoryFailed().WithCause(err)
	}
	return nil
}

func (c *Conversation) Clear(ctx context.Context) error {
	if err := c.store.Delete(ctx, c.key); err != nil {
		return llm.ErrMemoryFailed().WithCause(err)
	}
	return nil
}

// TrimHistory keeps at most max trailing messages. The kept window always
// starts at a user message so tool results are never separated from the
// assistant turn that requested them.
func TrimHistory(history []llm.Message, max int) []llm.Message {
	if max > 0 && len(history) > max {
		history = history[len(history)-max:]
	}
	for len(history) > 0 && history[0].Role != llm.RoleUser {
		history = history[1:]
	}
	return history
}

// ============================================================================
// In-memory store
// ============================================================================

type entry struct {
	messages []llm.Message
	expires  time.Time
}

// InMemoryStore keeps histories in process. Entries expire ttl after their
// last append.
type InMemoryStore struct {
	mu         sync.Mutex
	entries    map[string]*entry
	maxHistory int
	ttl        time.Duration
	clock      func() time.Time
}

func NewInMemoryStore(maxHistory int, ttl time.Duration) *InMemoryStore {
	return &InMemoryStore{
		entries:    make(map[string]*entry),
		maxHistory: maxHistory,
		ttl:        ttl,
		clock:      time.Now,
	}
}

func (s *InMemoryStore) Load(_ context.Context, key string) ([]llm.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	if s.ttl > 0 && !s.clock().Before(e.expires) {
		delete(s.entries, key)
		return nil, nil
	}
	out := make([]llm.Message, len(e.messages))
	copy(out, e.messages)
	return out, nil
}

func (s *InMemoryStore) Append(_ context.Context, key string, messages ...llm.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || (s.ttl > 0 && !s.clock().Before(e.expires)) {
		e = &entry{}
		s.entries[key] = e
	}
	e.messages = append(e.messages, messages...)
	if s.maxHistory > 0 && len(e.messages) > s.maxHistory {
		e.messages = append([]llm.Message(nil), e.messages[len(e.messages)-s.maxHistory:]...)
	}
	e.expires = s.clock().Add(s.ttl)
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
