package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenAIComplete(t *testing.T) {
	var gotAuth string
	var gotBody openaiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{
			"model": "gpt-4o-mini",
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "Tighten your CV bullets."}},
			},
		})
	}))
	defer srv.Close()
	SetOpenAIAPIURL(srv.URL)
	defer SetOpenAIAPIURL("https://api.openai.com/v1/chat/completions")

	p := NewOpenAI("sk-test", "gpt-4o-mini")
	resp, err := p.Complete(context.Background(), &Request{
		SystemPrompt: "You are GhostAI.",
		UserPrompt:   "Improve my CV.",
	})
	require.NoError(t, err)
	require.Equal(t, "Tighten your CV bullets.", resp.Content)
	require.Equal(t, "Bearer sk-test", gotAuth)
	require.Len(t, gotBody.Messages, 2)
	require.Equal(t, "system", gotBody.Messages[0].Role)
}

func TestOpenAICompleteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"type": "insufficient_quota", "message": "quota exceeded"},
		})
	}))
	defer srv.Close()
	SetOpenAIAPIURL(srv.URL)
	defer SetOpenAIAPIURL("https://api.openai.com/v1/chat/completions")

	p := NewOpenAI("sk-test", "gpt-4o-mini")
	_, err := p.Complete(context.Background(), &Request{UserPrompt: "hi"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "insufficient_quota")
}
