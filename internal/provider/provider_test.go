package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crewforge/crewforge/internal/config"
)

func TestAnthropicComplete(t *testing.T) {
	var gotReq anthropicRequest
	var gotAPIKey, gotVersion string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotAPIKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{
				{"type": "text", "text": "Looks "},
				{"type": "text", "text": "good."},
			},
			"usage": map[string]int{"input_tokens": 12, "output_tokens": 5},
		})
	}))
	defer srv.Close()

	a := NewAnthropic(config.ProviderConfig{APIKey: "sk-test", Model: "claude-3-5-sonnet-20241022"})
	a.baseURL = srv.URL

	resp, err := a.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "You are a reviewer."},
		{Role: RoleUser, Content: "Review this."},
	}, DefaultOptions())
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if gotAPIKey != "sk-test" || gotVersion != "2023-06-01" {
		t.Errorf("headers: key=%q version=%q", gotAPIKey, gotVersion)
	}
	// The system message rides in the dedicated field, not the list.
	if gotReq.System != "You are a reviewer." {
		t.Errorf("system = %q", gotReq.System)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != RoleUser {
		t.Errorf("messages = %+v", gotReq.Messages)
	}

	if resp.Content != "Looks good." {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.Provider != "anthropic" {
		t.Errorf("provider = %q", resp.Provider)
	}
	if resp.Usage.PromptTokens != 12 || resp.Usage.CompletionTokens != 5 || resp.Usage.TotalTokens != 17 {
		t.Errorf("usage = %+v", resp.Usage)
	}
}

func TestAnthropicAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "overloaded"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	a := NewAnthropic(config.ProviderConfig{APIKey: "sk-test", Model: "m"})
	a.baseURL = srv.URL

	_, err := a.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, DefaultOptions())
	if err == nil {
		t.Fatal("expected error on 429")
	}
}

func TestZhipuAIComplete(t *testing.T) {
	var gotReq chatRequest
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "done"}},
			},
			"usage": map[string]int{"prompt_tokens": 8, "completion_tokens": 3, "total_tokens": 11},
		})
	}))
	defer srv.Close()

	z := NewZhipuAI(config.ProviderConfig{APIKey: "zk-test", Model: "glm-4.6"})
	z.baseURL = srv.URL

	resp, err := z.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "hi"},
	}, DefaultOptions())
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if gotAuth != "Bearer zk-test" {
		t.Errorf("auth = %q", gotAuth)
	}
	// OpenAI-compatible APIs take the system message inline.
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != RoleSystem {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
	if resp.Content != "done" || resp.Provider != "zhipuai" {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Usage.TotalTokens != 11 {
		t.Errorf("usage = %+v", resp.Usage)
	}
}

func TestZhipuAINoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	z := NewZhipuAI(config.ProviderConfig{APIKey: "zk-test", Model: "m"})
	z.baseURL = srv.URL

	if _, err := z.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, DefaultOptions()); err == nil {
		t.Fatal("expected error on empty choices")
	}
}

func TestSplitSystem(t *testing.T) {
	system, rest := splitSystem([]Message{
		{Role: RoleSystem, Content: "be brief"},
		{Role: RoleUser, Content: "q1"},
		{Role: RoleAssistant, Content: "a1"},
	})
	if system != "be brief" {
		t.Errorf("system = %q", system)
	}
	if len(rest) != 2 {
		t.Errorf("rest = %+v", rest)
	}

	system, rest = splitSystem([]Message{{Role: RoleUser, Content: "q"}})
	if system != "" || len(rest) != 1 {
		t.Errorf("no-system case: %q %+v", system, rest)
	}
}

type fakeProvider struct {
	name string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Complete(ctx context.Context, messages []Message, opts Options) (*Response, error) {
	return &Response{Content: "ok", Provider: f.name}, nil
}

func TestManager(t *testing.T) {
	cfg := &config.Config{
		Anthropic: config.ProviderConfig{Name: "anthropic", APIKey: "a"},
		// ZhipuAI and OpenAI have no keys and must be skipped.
	}

	m := NewManager(cfg)

	if _, err := m.Get("anthropic"); err != nil {
		t.Errorf("anthropic should be configured: %v", err)
	}
	if _, err := m.Get("zhipuai"); err == nil {
		t.Error("zhipuai without a key should not be configured")
	}
	if len(m.List()) != 1 {
		t.Errorf("List = %v", m.List())
	}

	m.register("fake", &fakeProvider{name: "fake"})
	resp, err := m.Complete(context.Background(), "fake", []Message{{Role: RoleUser, Content: "hi"}}, DefaultOptions())
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "ok" {
		t.Errorf("content = %q", resp.Content)
	}
}
