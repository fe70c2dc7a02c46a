package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchBatch_OpenAIShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), "unexpected path: %s", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		rf, _ := body["response_format"].(map[string]any)
		if assert.NotNil(t, rf, "response_format should be set to force JSON output") {
			assert.Equal(t, "json_object", rf["type"])
		}

		w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":0,"model":"gpt-4o-mini",` +
			`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"{\"translations\":[{\"id\":0,\"text\":\"Oi\"}]}"}}]}`))
	}))
	defer srv.Close()

	cfg := ProviderConfig{Provider: ProviderOpenAI, Endpoint: srv.URL, Model: "gpt-4o-mini", APIKey: "secret"}
	batch := TranslationBatch{Ordinal: 0, Lines: []BatchLine{{ID: 0, Text: "Hello"}}}

	got, err := dispatchBatch(context.Background(), cfg, batch, "system prompt")
	require.NoError(t, err)
	assert.Equal(t, "Oi", got[0])
}

func TestDispatchBatch_GeminiOpenAICompat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), "unexpected path: %s", r.URL.Path)
		assert.Equal(t, "Bearer gkey", r.Header.Get("Authorization"))

		w.Write([]byte(`{"id":"x","object":"chat.completion","created":0,"model":"gemini-2.0-flash",` +
			`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"{\"translations\":[{\"id\":0,\"text\":\"Oi\"}]}"}}]}`))
	}))
	defer srv.Close()

	cfg := ProviderConfig{Provider: ProviderGemini, Endpoint: srv.URL + "/openai", Model: "gemini-2.0-flash", APIKey: "gkey"}
	batch := TranslationBatch{Ordinal: 0, Lines: []BatchLine{{ID: 0, Text: "Hello"}}}

	_, err := dispatchBatch(context.Background(), cfg, batch, "system prompt")
	require.NoError(t, err)
}

func TestDispatchBatch_GeminiNative(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, ":generateContent"), "unexpected path: %s", r.URL.Path)

		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"translations\":[{\"id\":0,\"text\":\"Oi\"}]}"}]}}]}`))
	}))
	defer srv.Close()

	cfg := ProviderConfig{Provider: ProviderGemini, Endpoint: srv.URL + "/v1beta/models/gemini-2.0-flash", Model: "gemini-2.0-flash", APIKey: "gkey"}
	batch := TranslationBatch{Ordinal: 0, Lines: []BatchLine{{ID: 0, Text: "Hello"}}}

	got, err := dispatchBatch(context.Background(), cfg, batch, "system prompt")
	require.NoError(t, err)
	assert.Equal(t, "Oi", got[0])
}

func TestDispatchBatch_OpenRouterShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer orkey", r.Header.Get("Authorization"))

		w.Write([]byte(`{"id":"x","model":"openrouter/auto",` +
			`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"{\"translations\":[{\"id\":0,\"text\":\"Oi\"}]}"}}]}`))
	}))
	defer srv.Close()

	cfg := ProviderConfig{Provider: ProviderOpenRouter, Endpoint: srv.URL, Model: "openrouter/auto", APIKey: "orkey"}
	batch := TranslationBatch{Ordinal: 0, Lines: []BatchLine{{ID: 0, Text: "Hello"}}}

	got, err := dispatchBatch(context.Background(), cfg, batch, "system prompt")
	require.NoError(t, err)
	assert.Equal(t, "Oi", got[0])
}

func TestDispatchBatch_OllamaShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "", r.Header.Get("Authorization"), "ollama should not require an auth header")

		var req chatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if assert.NotNil(t, req.Stream) {
			assert.False(t, *req.Stream)
		}
		assert.Equal(t, "json", req.Format)

		resp := ollamaChatResponse{Message: chatMessage{Role: "assistant", Content: `{"translations":[{"id":0,"text":"Oi"}]}`}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	cfg := ProviderConfig{Provider: ProviderOllama, Endpoint: srv.URL, Model: "llama3"}
	batch := TranslationBatch{Ordinal: 0, Lines: []BatchLine{{ID: 0, Text: "Hello"}}}

	got, err := dispatchBatch(context.Background(), cfg, batch, "system prompt")
	require.NoError(t, err)
	assert.Equal(t, "Oi", got[0])
}

func TestDispatchBatch_PartialResponseLeavesOthersUntranslated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"x","object":"chat.completion","created":0,"model":"gpt-4o-mini",` +
			`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"{\"translations\":[{\"id\":0,\"text\":\"A\"},{\"id\":2,\"text\":\"C\"}]}"}}]}`))
	}))
	defer srv.Close()

	cfg := ProviderConfig{Provider: ProviderOpenAI, Endpoint: srv.URL, Model: "gpt-4o-mini", APIKey: "k"}
	batch := TranslationBatch{Ordinal: 0, Lines: []BatchLine{{ID: 0, Text: "a"}, {ID: 1, Text: "b"}, {ID: 2, Text: "c"}, {ID: 3, Text: "d"}}}

	got, err := dispatchBatch(context.Background(), cfg, batch, "system prompt")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0])
	assert.Equal(t, "C", got[2])
	_, ok := got[1]
	assert.False(t, ok, "id 1 should be absent, not translated")
}

func TestDispatchBatch_IgnoresIdsOutsideBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"x","object":"chat.completion","created":0,"model":"gpt-4o-mini",` +
			`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"{\"translations\":[{\"id\":0,\"text\":\"A\"},{\"id\":99,\"text\":\"ghost\"}]}"}}]}`))
	}))
	defer srv.Close()

	cfg := ProviderConfig{Provider: ProviderOpenAI, Endpoint: srv.URL, Model: "gpt-4o-mini", APIKey: "k"}
	batch := TranslationBatch{Ordinal: 0, Lines: []BatchLine{{ID: 0, Text: "a"}}}

	got, err := dispatchBatch(context.Background(), cfg, batch, "system prompt")
	require.NoError(t, err)
	_, ok := got[99]
	assert.False(t, ok, "id not in submitted batch should be ignored")
}

func TestDispatchBatch_NonTwoxxStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	cfg := ProviderConfig{Provider: ProviderOpenAI, Endpoint: srv.URL, Model: "gpt-4o-mini", APIKey: "k"}
	batch := TranslationBatch{Ordinal: 0, Lines: []BatchLine{{ID: 0, Text: "a"}}}

	_, err := dispatchBatch(context.Background(), cfg, batch, "system prompt")
	assert.Error(t, err)
}

func TestDispatchBatch_UnrecognizedProvider(t *testing.T) {
	cfg := ProviderConfig{Provider: "deepseek", Endpoint: "http://example.invalid"}
	batch := TranslationBatch{Ordinal: 0, Lines: []BatchLine{{ID: 0, Text: "a"}}}

	_, err := dispatchBatch(context.Background(), cfg, batch, "system prompt")
	assert.Error(t, err)
}
