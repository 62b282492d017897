package provider

import (
	"context"
	"fmt"

	"github.com/crewforge/crewforge/internal/config"
)

// Manager holds one client per configured provider. Providers without
// an API key are left out; asking for one is a configuration error
// surfaced before any network call.
type Manager struct {
	providers map[string]Provider
}

func NewManager(cfg *config.Config) *Manager {
	m := &Manager{providers: make(map[string]Provider)}

	if cfg.Anthropic.APIKey != "" {
		m.providers["anthropic"] = NewAnthropic(cfg.Anthropic)
	}
	if cfg.ZhipuAI.APIKey != "" {
		m.providers["zhipuai"] = NewZhipuAI(cfg.ZhipuAI)
	}
	if cfg.OpenAI.APIKey != "" {
		m.providers["openai"] = NewOpenAI(cfg.OpenAI)
	}

	return m
}

func (m *Manager) Get(name string) (Provider, error) {
	p, ok := m.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q is not configured: check its API key", name)
	}
	return p, nil
}

func (m *Manager) Complete(ctx context.Context, name string, messages []Message, opts Options) (*Response, error) {
	p, err := m.Get(name)
	if err != nil {
		return nil, err
	}
	return p.Complete(ctx, messages, opts)
}

// List returns the names of configured providers.
func (m *Manager) List() []string {
	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	return names
}

// register exists for tests to install fake providers.
func (m *Manager) register(name string, p Provider) {
	m.providers[name] = p
}
