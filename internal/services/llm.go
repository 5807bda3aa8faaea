package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TextModel is a single-prompt text completion backend.
type TextModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

var ErrLLMNotConfigured = errors.New("llm: no API token configured")

// LLMConfig 外部模型配置（OpenAI 兼容接口）
type LLMConfig struct {
	BaseURL string
	Token   string
	Model   string
	Timeout time.Duration
}

// LLMService talks to an OpenAI-compatible chat completions endpoint.
type LLMService struct {
	baseURL string
	token   string
	model   string
	client  *http.Client
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func NewLLMService(cfg LLMConfig) *LLMService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &LLMService{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		model:   cfg.Model,
		client:  &http.Client{Timeout: timeout},
	}
}

// Complete 发送单条 user 消息并返回第一条回复内容
func (s *LLMService) Complete(ctx context.Context, prompt string) (string, error) {
	if s.token == "" {
		return "", ErrLLMNotConfigured
	}

	body, err := json.Marshal(ChatRequest{
		Model:    s.model,
		Messages: []ChatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("llm: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("llm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("llm: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var chat ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", fmt.Errorf("llm: decode response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return "", errors.New("llm: empty choices")
	}
	return chat.Choices[0].Message.Content, nil
}

// renderPrompt fills {name} placeholders in one pass, so substituted text is never
// re-expanded. Values whose placeholder is absent are appended in order.
func renderPrompt(tmpl string, vars map[string]string, order ...string) string {
	pairs := make([]string, 0, 2*len(order))
	var missing []string
	for _, key := range order {
		placeholder := "{" + key + "}"
		if strings.Contains(tmpl, placeholder) {
			pairs = append(pairs, placeholder, vars[key])
		} else {
			missing = append(missing, key)
		}
	}

	out := tmpl
	if len(pairs) > 0 {
		out = strings.NewReplacer(pairs...).Replace(tmpl)
	}
	var b strings.Builder
	b.WriteString(out)
	for _, key := range missing {
		b.WriteString("\n\n")
		b.WriteString(vars[key])
	}
	return b.String()
}
