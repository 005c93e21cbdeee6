package trivia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/abhisek/triviaz/internal/llm"
	"github.com/abhisek/triviaz/internal/quiz"
)

var questionSchema = &llm.Schema{
	Name:        "trivia-questions",
	Description: "A batch of multiple-choice trivia questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"category":   map[string]any{"type": "string"},
						"difficulty": map[string]any{"type": "string", "enum": []any{"easy", "medium", "hard"}},
						"question":   map[string]any{"type": "string"},
						"correct_answer": map[string]any{
							"type": "string",
						},
						"incorrect_answers": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
					},
					"required":             []any{"category", "difficulty", "question", "correct_answer", "incorrect_answers"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

const questionSystemPrompt = `You write multiple-choice trivia questions for a quiz game.
Every question has exactly one correct answer and three plausible incorrect answers.
Answers are short. Do not repeat questions within a batch. Do not use HTML entities.`

// LLMSource generates questions with a language model. It implements
// quiz.Provider.
type LLMSource struct {
	provider llm.Provider
	catalog  Catalog
	logger   *log.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewLLMSource creates an LLMSource. catalog names the category ids in
// requests.
func NewLLMSource(p llm.Provider, catalog Catalog, logger *log.Logger) *LLMSource {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &LLMSource{
		provider: p,
		catalog:  catalog,
		logger:   logger.WithPrefix("llm-source"),
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x6c6c6d)),
	}
}

type generatedBatch struct {
	Questions []apiQuestion `json:"questions"`
}

// Fetch asks the model for req.Amount questions. Malformed items are
// dropped; a batch with nothing usable fails with quiz.CodeNoResults and a
// provider rate limit maps to quiz.CodeRateLimit.
func (s *LLMSource) Fetch(ctx context.Context, req quiz.Request) ([]quiz.Question, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuestions)
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      questionSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: s.prompt(req)}},
		Schema:      questionSchema,
		Temperature: 0.9,
	})
	if err != nil {
		var rl *llm.ErrRateLimit
		if errors.As(err, &rl) {
			return nil, &quiz.ProviderError{Code: quiz.CodeRateLimit, Err: err}
		}
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	var batch generatedBatch
	if err := json.Unmarshal(resp.Content, &batch); err != nil {
		return nil, fmt.Errorf("decode generated questions: %w", err)
	}

	out := make([]quiz.Question, 0, req.Amount)
	s.mu.Lock()
	for _, q := range batch.Questions {
		if len(out) == req.Amount {
			break
		}
		if !usable(q) {
			s.logger.Debug("dropping generated question", "question", q.Question)
			continue
		}
		if q.Type == "" {
			q.Type = "multiple"
		}
		out = append(out, normalize(q, s.rng))
	}
	s.mu.Unlock()

	if len(out) == 0 {
		return nil, &quiz.ProviderError{Code: quiz.CodeNoResults}
	}
	s.logger.Info("generated questions", "want", req.Amount, "got", len(out), "model", resp.Model)
	return out, nil
}

func (s *LLMSource) prompt(req quiz.Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write %d trivia questions.\n", req.Amount)
	if req.Category != nil {
		fmt.Fprintf(&b, "Category: %s. Use it as the category of every question.\n", s.catalog.Name(req.Category))
	} else {
		b.WriteString("Mix categories.\n")
	}
	if req.Difficulty != "" {
		fmt.Fprintf(&b, "Difficulty: %s.\n", req.Difficulty)
	}
	return b.String()
}

func usable(q apiQuestion) bool {
	q.Question = strings.TrimSpace(q.Question)
	q.CorrectAnswer = strings.TrimSpace(q.CorrectAnswer)
	if q.Question == "" || q.CorrectAnswer == "" || len(q.IncorrectAnswers) == 0 {
		return false
	}
	if slices.Contains(q.IncorrectAnswers, q.CorrectAnswer) {
		return false
	}
	for _, a := range q.IncorrectAnswers {
		if strings.TrimSpace(a) == "" {
			return false
		}
	}
	return true
}
