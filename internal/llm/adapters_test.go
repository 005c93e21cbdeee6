package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

var answerSchema = &Schema{
	Name: "test-answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"answer": map[string]any{"type": "string"},
		},
		"required":             []any{"answer"},
		"additionalProperties": false,
	},
}

func userTurn(s string) []Message { return []Message{{Role: RoleUser, Content: s}} }

func anthropicServer(t *testing.T, status int, body any) *AnthropicProvider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)

	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "k", Model: "claude-haiku"},
		option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	require.NoError(t, err)
	return p
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 40, "output_tokens": 12},
	}
}

func TestAnthropicGenerate(t *testing.T) {
	p := anthropicServer(t, http.StatusOK, anthropicMessage(`{"answer":"Paris"}`, "end_turn"))

	resp, err := p.Generate(context.Background(), Request{Messages: userTurn("capital of France?"), Schema: answerSchema})
	require.NoError(t, err)
	assert.JSONEq(t, `{"answer":"Paris"}`, string(resp.Content))
	assert.Equal(t, Usage{InputTokens: 40, OutputTokens: 12, TotalTokens: 52}, resp.Usage)
	assert.Equal(t, "end", resp.StopReason)
	assert.Equal(t, "claude-haiku-4-5-20251001", p.ModelID())
}

func TestAnthropicSchemaMismatch(t *testing.T) {
	p := anthropicServer(t, http.StatusOK, anthropicMessage(`{"reply":"Paris"}`, "end_turn"))

	_, err := p.Generate(context.Background(), Request{Messages: userTurn("q"), Schema: answerSchema})
	var invalid *ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)
}

func TestAnthropicTruncated(t *testing.T) {
	p := anthropicServer(t, http.StatusOK, anthropicMessage(`{"answ`, "max_tokens"))

	_, err := p.Generate(context.Background(), Request{Messages: userTurn("q"), Schema: answerSchema})
	var truncated *ErrMaxTokensExceeded
	assert.ErrorAs(t, err, &truncated)
}

func TestAnthropicErrorStatus(t *testing.T) {
	errBody := map[string]any{"type": "error", "error": map[string]any{"type": "x", "message": "nope"}}

	t.Run("rate limit", func(t *testing.T) {
		p := anthropicServer(t, http.StatusTooManyRequests, errBody)
		_, err := p.Generate(context.Background(), Request{Messages: userTurn("q")})
		var rl *ErrRateLimit
		assert.ErrorAs(t, err, &rl)
	})
	t.Run("server error", func(t *testing.T) {
		p := anthropicServer(t, http.StatusInternalServerError, errBody)
		_, err := p.Generate(context.Background(), Request{Messages: userTurn("q")})
		var unavailable *ErrProviderUnavailable
		assert.ErrorAs(t, err, &unavailable)
	})
}

func chatServer(t *testing.T, status int, body any, seen *map[string]any) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return newChatProvider("k", srv.URL, "gpt-4o-mini")
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 20, "completion_tokens": 8, "total_tokens": 28},
	}
}

func TestOpenAIGenerate(t *testing.T) {
	var seen map[string]any
	p := chatServer(t, http.StatusOK, chatCompletion(`{"answer":"4"}`, "stop"), &seen)

	resp, err := p.Generate(context.Background(), Request{
		System:   "be brief",
		Messages: userTurn("2+2?"),
		Schema:   answerSchema,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"answer":"4"}`, string(resp.Content))
	assert.Equal(t, 28, resp.Usage.TotalTokens)

	msgs, _ := seen["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	format, _ := seen["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
}

func TestOpenAIErrors(t *testing.T) {
	t.Run("length", func(t *testing.T) {
		p := chatServer(t, http.StatusOK, chatCompletion(`{"ans`, "length"), nil)
		_, err := p.Generate(context.Background(), Request{Messages: userTurn("q"), Schema: answerSchema})
		var truncated *ErrMaxTokensExceeded
		assert.ErrorAs(t, err, &truncated)
	})
	t.Run("rate limit", func(t *testing.T) {
		body := map[string]any{"error": map[string]any{"message": "slow down", "type": "rate_limit"}}
		p := chatServer(t, http.StatusTooManyRequests, body, nil)
		_, err := p.Generate(context.Background(), Request{Messages: userTurn("q")})
		var rl *ErrRateLimit
		assert.ErrorAs(t, err, &rl)
	})
	t.Run("no choices", func(t *testing.T) {
		body := chatCompletion("", "stop")
		body["choices"] = []any{}
		p := chatServer(t, http.StatusOK, body, nil)
		_, err := p.Generate(context.Background(), Request{Messages: userTurn("q")})
		var invalid *ErrInvalidResponse
		assert.ErrorAs(t, err, &invalid)
	})
}

func TestOpenRouterDefaults(t *testing.T) {
	_, err := NewOpenRouterProvider(OpenRouterConfig{})
	assert.Error(t, err)

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "k", Model: "meta/llama"})
	require.NoError(t, err)
	assert.Equal(t, "meta/llama", p.ModelID())
}

func TestResolveModel(t *testing.T) {
	assert.Equal(t, "claude-sonnet-4-20250514", resolveModel("claude-sonnet", anthropicModels))
	assert.Equal(t, "gemini-2.0-flash", resolveModel("gemini-flash", geminiModels))
	assert.Equal(t, "custom-model", resolveModel("custom-model", openaiModels))
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"level": map[string]any{"type": "string", "enum": []string{"easy", "hard"}},
			"items": map[string]any{"type": "array", "minItems": 1, "items": map[string]any{"type": "integer"}},
		},
		"required": []any{"level"},
	})

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, []string{"level"}, s.Required)
	assert.Equal(t, []string{"easy", "hard"}, s.Properties["level"].Enum)
	items := s.Properties["items"]
	assert.Equal(t, genai.TypeArray, items.Type)
	assert.Equal(t, genai.TypeInteger, items.Items.Type)
	require.NotNil(t, items.MinItems)
	assert.EqualValues(t, 1, *items.MinItems)
}
