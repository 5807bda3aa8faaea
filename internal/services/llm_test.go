package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeModel is an in-memory TextModel.
type fakeModel struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (m *fakeModel) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	return m.reply, m.err
}

func (m *fakeModel) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

func chatServer(t *testing.T, content string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("Expected Bearer test-token, got %s", r.Header.Get("Authorization"))
		}

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "test-model" || len(req.Messages) != 1 {
			t.Errorf("unexpected request: %+v", req)
		}

		resp := ChatResponse{
			Choices: []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			}{
				{
					Message: struct {
						Content string `json:"content"`
					}{Content: content},
				},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestComplete(t *testing.T) {
	server := chatServer(t, "false")
	defer server.Close()

	s := NewLLMService(LLMConfig{BaseURL: server.URL + "/", Token: "test-token", Model: "test-model", Timeout: time.Second})

	reply, err := s.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if reply != "false" {
		t.Errorf("Expected false, got %s", reply)
	}
}

func TestCompleteErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	s := NewLLMService(LLMConfig{BaseURL: server.URL, Token: "test-token", Model: "test-model"})
	if _, err := s.Complete(context.Background(), "hello"); err == nil || !strings.Contains(err.Error(), "429") {
		t.Errorf("Expected status error, got %v", err)
	}

	noToken := NewLLMService(LLMConfig{BaseURL: server.URL, Model: "test-model"})
	if _, err := noToken.Complete(context.Background(), "hello"); err != ErrLLMNotConfigured {
		t.Errorf("Expected ErrLLMNotConfigured, got %v", err)
	}
}

func TestCompleteRespectsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	s := NewLLMService(LLMConfig{BaseURL: server.URL, Token: "test-token", Model: "test-model"})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	if _, err := s.Complete(ctx, "hello"); err == nil {
		t.Fatal("Expected timeout error")
	}
	if time.Since(start) > time.Second {
		t.Errorf("Complete ignored context deadline")
	}
}

func TestRenderPrompt(t *testing.T) {
	got := renderPrompt("Post: {post} / Comment: {comment}", map[string]string{"post": "P", "comment": "C"}, "post", "comment")
	if got != "Post: P / Comment: C" {
		t.Errorf("unexpected prompt %q", got)
	}

	got = renderPrompt("Is this rude?", map[string]string{"text": "hi"}, "text")
	if got != "Is this rude?\n\nhi" {
		t.Errorf("unexpected prompt %q", got)
	}

	// user text that looks like a placeholder is left alone
	got = renderPrompt("P: {post}\nC: {comment}", map[string]string{"post": "see {comment}", "comment": "hello"}, "post", "comment")
	if got != "P: see {comment}\nC: hello" {
		t.Errorf("unexpected prompt %q", got)
	}

	got = renderPrompt("Reply to: {post}", map[string]string{"post": "P", "comment": "C"}, "post", "comment")
	if got != "Reply to: P\n\nC" {
		t.Errorf("unexpected prompt %q", got)
	}
}
