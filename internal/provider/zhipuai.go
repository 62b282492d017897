package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/crewforge/crewforge/internal/config"
)

const zhipuBaseURL = "https://open.bigmodel.cn/api/paas/v4"

// ZhipuAI calls the GLM chat-completions API (OpenAI-compatible).
type ZhipuAI struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewZhipuAI(cfg config.ProviderConfig) *ZhipuAI {
	return &ZhipuAI{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: zhipuBaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (z *ZhipuAI) Name() string { return "zhipuai" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func (z *ZhipuAI) Complete(ctx context.Context, messages []Message, opts Options) (*Response, error) {
	reqBody := chatRequest{
		Model:       z.model,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}
	for _, m := range messages {
		reqBody.Messages = append(reqBody.Messages, chatMessage{Role: m.Role, Content: m.Content})
	}

	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(reqBody); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, z.baseURL+"/chat/completions", buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+z.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := z.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("zhipuai API error: %s", string(b))
	}

	var cr chatResponse
	if err := json.NewDecoder(res.Body).Decode(&cr); err != nil {
		return nil, err
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("zhipuai API returned no choices")
	}

	return &Response{
		Content:  cr.Choices[0].Message.Content,
		Provider: z.Name(),
		Model:    z.model,
		Usage: Usage{
			PromptTokens:     cr.Usage.PromptTokens,
			CompletionTokens: cr.Usage.CompletionTokens,
			TotalTokens:      cr.Usage.TotalTokens,
		},
	}, nil
}
