package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ChatConfig holds API settings for an OpenAI-compatible completion endpoint.
type ChatConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// OpenAICompatibleCompleter calls a /chat/completions endpoint and implements
// Completer. llama.cpp-style servers accept the repeat_penalty field; plain
// OpenAI servers ignore it.
type OpenAICompatibleCompleter struct {
	httpClient *http.Client
	cfg        ChatConfig
}

func NewOpenAICompatibleCompleter(cfg ChatConfig) *OpenAICompatibleCompleter {
	return &OpenAICompatibleCompleter{
		httpClient: &http.Client{Timeout: 90 * time.Second},
		cfg:        cfg,
	}
}

func (c *OpenAICompatibleCompleter) Model() string { return c.cfg.Model }

func (c *OpenAICompatibleCompleter) Complete(ctx context.Context, prompt string, opts SampleOptions) (*Completion, error) {
	reqBody := map[string]interface{}{
		"model": c.cfg.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"stream": false,
	}
	if opts.MaxTokens > 0 {
		reqBody["max_tokens"] = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		reqBody["temperature"] = opts.Temperature
	}
	if opts.TopP > 0 {
		reqBody["top_p"] = opts.TopP
	}
	if opts.RepeatPenalty > 0 {
		reqBody["repeat_penalty"] = opts.RepeatPenalty
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal llm request failed: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("build llm request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llm request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read llm response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("llm response status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			CompletionTokens int `json:"completion_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse llm json failed: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("empty llm choices")
	}
	return &Completion{
		Text:       strings.TrimSpace(parsed.Choices[0].Message.Content),
		TokensUsed: parsed.Usage.CompletionTokens,
	}, nil
}
