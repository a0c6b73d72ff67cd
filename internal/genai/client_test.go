package genai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

func newTestClient(t *testing.T, timeout time.Duration, handler http.HandlerFunc) *OpenAI {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = ts.URL + "/v1"
	return NewOpenAI(openai.NewClientWithConfig(cfg), "test-model", timeout)
}

func chatResponse(content string) string {
	resp := map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"choices": []map[string]any{
			{"index": 0, "message": map[string]any{"role": "assistant", "content": content}, "finish_reason": "stop"},
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestOpenAI_Generate(t *testing.T) {
	var gotModel, gotPrompt string
	c := newTestClient(t, 5*time.Second, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotModel = req.Model
		if len(req.Messages) == 1 {
			gotPrompt = req.Messages[0].Content
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatResponse("four sections it is")))
	})

	out, err := c.Generate(context.Background(), "outline please")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if out != "four sections it is" {
		t.Errorf("out = %q", out)
	}
	if gotModel != "test-model" || gotPrompt != "outline please" {
		t.Errorf("request carried model=%q prompt=%q", gotModel, gotPrompt)
	}
}

func TestOpenAI_Generate_ErrorCauses(t *testing.T) {
	apiError := func(status int) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"nope","type":"test_error"}}`))
		}
	}

	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    Cause
	}{
		{"unauthorized", apiError(http.StatusUnauthorized), CauseAuth},
		{"forbidden", apiError(http.StatusForbidden), CauseAuth},
		{"rate limited", apiError(http.StatusTooManyRequests), CauseQuota},
		{"server error", apiError(http.StatusInternalServerError), CauseUnavailable},
		{"empty choices", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"chatcmpl-test","object":"chat.completion","choices":[]}`))
		}, CauseMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, 5*time.Second, tt.handler)
			_, err := c.Generate(context.Background(), "p")
			var gerr *Error
			if !errors.As(err, &gerr) {
				t.Fatalf("Generate() error = %v, want *Error", err)
			}
			if gerr.Cause != tt.want {
				t.Errorf("cause = %s, want %s", gerr.Cause, tt.want)
			}
		})
	}
}

func TestOpenAI_Generate_Timeout(t *testing.T) {
	c := newTestClient(t, 50*time.Millisecond, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		_, _ = w.Write([]byte(chatResponse("too late")))
	})

	_, err := c.Generate(context.Background(), "p")
	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("Generate() error = %v, want *Error", err)
	}
	if gerr.Cause != CauseTimeout {
		t.Errorf("cause = %s, want %s", gerr.Cause, CauseTimeout)
	}
}

func TestOpenAI_Generate_CancelledBeforeCall(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, 5*time.Second, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(chatResponse("x")))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Generate(ctx, "p"); err == nil {
		t.Fatal("Generate() with cancelled context: want error")
	}
	if calls.Load() != 0 {
		t.Errorf("provider was called %d times after cancellation", calls.Load())
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"prose around", "Sure! Here it is:\n{\"a\":1}\nHope that helps.", `{"a":1}`},
		{"nested", `{"a":{"b":2}}`, `{"a":{"b":2}}`},
		{"no object", "just words", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSON(tt.in); got != tt.want {
				t.Errorf("ExtractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMock_Deterministic(t *testing.T) {
	m := Mock{}
	a, err := m.Generate(context.Background(), "p1")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := m.Generate(context.Background(), "p2")
	if a != b {
		t.Error("mock output varies across calls")
	}
	if a == "" {
		t.Error("mock output empty")
	}
}
