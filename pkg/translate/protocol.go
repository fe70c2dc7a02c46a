package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/timeout"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/revrost/go-openrouter"
	"github.com/rs/zerolog"
	"github.com/tidwall/pretty"
	"google.golang.org/genai"
)

const (
	requestTimeout     = 60 * time.Second
	requestTemperature = 0.3
)

var httpClient = &http.Client{Timeout: requestTimeout + 5*time.Second}

// chatMessage, chatCompletionRequest and friends remain for the two
// providers that have no SDK in this module's dependency graph: Ollama
// and LM Studio are local, OpenAI-compatible-ish servers with no
// published Go client, so they are driven over net/http directly.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
}

type chatCompletionRequest struct {
	Model       string         `json:"model"`
	Messages    []chatMessage  `json:"messages"`
	Temperature float64        `json:"temperature,omitempty"`
	Stream      *bool          `json:"stream,omitempty"`
	Format      string         `json:"format,omitempty"`
	Options     *ollamaOptions `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message chatMessage `json:"message"`
}

type linesPayload struct {
	Lines []BatchLine `json:"lines"`
}

type translationsPayload struct {
	Translations []BatchLine `json:"translations"`
}

// dispatchBatch performs one LLM call for batch b and returns the
// id→text pairs the provider returned. There is no per-batch retry
// (§7); a failsafe-go Timeout policy bounds the attempt so a hung
// provider cannot stall a wave indefinitely.
func dispatchBatch(ctx context.Context, cfg ProviderConfig, b TranslationBatch, systemMsg string) (map[int]string, error) {
	if !cfg.Provider.recognized() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}

	userContent, err := json.Marshal(linesPayload{Lines: b.Lines})
	if err != nil {
		return nil, fmt.Errorf("encode batch payload: %w", err)
	}

	policy := timeout.With[string](requestTimeout)
	content, err := failsafe.Get(func() (string, error) {
		return callProvider(ctx, cfg, systemMsg, string(userContent), b.Ordinal)
	}, policy)
	if err != nil {
		return nil, err
	}

	cleaned, ok := cleanJSON(content)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object in model output", ErrMalformedTranslations)
	}

	var parsed translationsPayload
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTranslations, err)
	}

	submitted := make(map[int]bool, len(b.Lines))
	for _, l := range b.Lines {
		submitted[l.ID] = true
	}

	result := make(map[int]string, len(parsed.Translations))
	for _, t := range parsed.Translations {
		if !submitted[t.ID] {
			continue // ids outside the submitted batch are ignored
		}
		result[t.ID] = t.Text // duplicate ids: last occurrence wins
	}
	return result, nil
}

// callProvider dispatches to the SDK (or, for Ollama/LM Studio, the raw
// HTTP call) matching cfg.Provider, per the dispatch table in §4.4.1, and
// returns the assistant's raw text content.
func callProvider(ctx context.Context, cfg ProviderConfig, systemMsg, userContent string, ordinal int) (string, error) {
	var (
		content string
		err     error
	)

	switch {
	case cfg.Provider == ProviderGemini && !strings.Contains(cfg.Endpoint, "/openai"):
		content, err = callGeminiNative(ctx, cfg, systemMsg, userContent)
	case cfg.Provider == ProviderOpenRouter:
		content, err = callOpenRouter(ctx, cfg, systemMsg, userContent)
	case cfg.Provider == ProviderOllama || cfg.Provider == ProviderLMStudio:
		content, err = callOllamaStyle(ctx, cfg, systemMsg, userContent)
	default: // openai, and gemini's OpenAI-compat endpoint
		content, err = callOpenAI(ctx, cfg, systemMsg, userContent)
	}
	if err != nil {
		return "", err
	}

	if Logger.GetLevel() <= zerolog.TraceLevel {
		Logger.Trace().Int("batch", ordinal).Msg("raw provider response:\n" + string(pretty.Color(pretty.Pretty([]byte(content)), nil)))
	}
	return content, nil
}

// callOpenAI drives both the real OpenAI endpoint and Gemini's
// OpenAI-compatible "/openai" endpoint through openai-go, since the two
// speak the identical chat-completions wire format.
func callOpenAI(ctx context.Context, cfg ProviderConfig, systemMsg, userContent string) (string, error) {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(0)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}
	client := openai.NewClient(opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemMsg),
			openai.UserMessage(userContent),
		},
		Temperature: openai.Float(requestTemperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: choices[0].message.content", ErrMissingContentPath)
	}
	return resp.Choices[0].Message.Content, nil
}

// callOpenRouter drives OpenRouter's non-streaming chat completions
// through revrost/go-openrouter, the same client the provider package
// uses for real (non-stub) requests.
func callOpenRouter(ctx context.Context, cfg ProviderConfig, systemMsg, userContent string) (string, error) {
	config := openrouter.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		config.BaseURL = cfg.Endpoint
	}
	client := openrouter.NewClientWithConfig(config)

	resp, err := client.CreateChatCompletion(ctx, openrouter.ChatCompletionRequest{
		Model: cfg.Model,
		Messages: []openrouter.ChatCompletionMessage{
			{Role: openrouter.ChatMessageRoleSystem, Content: openrouter.Content{Text: systemMsg}},
			{Role: openrouter.ChatMessageRoleUser, Content: openrouter.Content{Text: userContent}},
		},
		Temperature: float32(requestTemperature),
	})
	if err != nil {
		return "", fmt.Errorf("openrouter chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: choices[0].message.content", ErrMissingContentPath)
	}
	return resp.Choices[0].Message.Content.Text, nil
}

// callGeminiNative drives Gemini's native generateContent API through
// google.golang.org/genai, mirroring the real (non-stub) Gemini client.
func callGeminiNative(ctx context.Context, cfg ProviderConfig, systemMsg, userContent string) (string, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if base := geminiAPIBase(cfg.Endpoint); base != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return "", fmt.Errorf("genai client: %w", err)
	}

	contents := []*genai.Content{genai.NewContentFromText(userContent, genai.RoleUser)}
	genConfig := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(float32(requestTemperature)),
		SystemInstruction: genai.NewContentFromText(systemMsg, genai.RoleModel),
	}

	resp, err := client.Models.GenerateContent(ctx, cfg.Model, contents, genConfig)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: candidates[0].content.parts[0].text", ErrMissingContentPath)
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// geminiAPIBase strips the model-resource suffix a native Gemini endpoint
// carries (".../v1beta/models/gemini-2.0-flash") down to everything before
// "/v1beta" (scheme and host), the root genai.HTTPOptions.BaseURL expects,
// so tests can point it at an httptest server.
func geminiAPIBase(endpoint string) string {
	if endpoint == "" {
		return ""
	}
	if i := strings.Index(endpoint, "/v1beta"); i >= 0 {
		return endpoint[:i]
	}
	return endpoint
}

// callOllamaStyle is the one remaining hand-rolled HTTP path: Ollama and
// LM Studio are local servers with no published Go SDK in this project's
// dependency graph, so they are driven directly per §4.4.1's "ollama"
// dispatch row.
func callOllamaStyle(ctx context.Context, cfg ProviderConfig, systemMsg, userContent string) (string, error) {
	streamFalse := false
	body, err := json.Marshal(chatCompletionRequest{
		Model: cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemMsg},
			{Role: "user", Content: userContent},
		},
		Stream:  &streamFalse,
		Format:  "json",
		Options: &ollamaOptions{Temperature: requestTemperature},
	})
	if err != nil {
		return "", fmt.Errorf("encode ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d: %s", ErrHTTPStatus, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	if len(respBody) == 0 {
		return "", ErrEmptyResponseBody
	}

	var parsed ollamaChatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMissingContentPath, err)
	}
	if parsed.Message.Content == "" {
		return "", fmt.Errorf("%w: message.content", ErrMissingContentPath)
	}
	return parsed.Message.Content, nil
}
