// Package llm generates structured output from hosted language models.
// Every provider returns JSON that has already been checked against the
// requested schema.
package llm

import (
	"context"
	"encoding/json"
)

// Provider sends a Request to a model and returns its structured output.
type Provider interface {
	// Generate runs one completion. When req.Schema is set, Content in the
	// returned Response is JSON that validates against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model the provider sends requests to.
	ModelID() string
}

// Request is a single completion request.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, asks the provider for JSON in this shape using its
	// native structured output support.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the sender of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema.
type Schema struct {
	// Name is kebab-case, e.g. "trivia-questions". It doubles as the
	// schema name sent to providers that require one.
	Name        string
	Description string
	Definition  map[string]any
}

// Response is the output of a completion.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string // "end" or "max_tokens"
}

// Usage counts tokens for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
