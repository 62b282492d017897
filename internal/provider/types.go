package provider

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string
	Content string
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type Response struct {
	Content  string
	Provider string
	Model    string
	Usage    Usage
}

type Options struct {
	MaxTokens   int
	Temperature float64
}

// DefaultOptions mirrors the generation defaults used across providers.
func DefaultOptions() Options {
	return Options{MaxTokens: 4000, Temperature: 0.7}
}

// Provider is a hosted LLM API. Calls are synchronous and sequential;
// there is no retry policy at this layer.
type Provider interface {
	Name() string
	Complete(ctx context.Context, messages []Message, opts Options) (*Response, error)
}

// splitSystem separates a leading system message from the conversation,
// for APIs that take the system prompt out of band.
func splitSystem(messages []Message) (system string, rest []Message) {
	for _, m := range messages {
		if m.Role == RoleSystem && system == "" {
			system = m.Content
			continue
		}
		rest = append(rest, m)
	}
	return system, rest
}
