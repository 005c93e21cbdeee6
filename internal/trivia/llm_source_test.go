package trivia

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/triviaz/internal/llm"
	"github.com/abhisek/triviaz/internal/quiz"
)

func batch(t *testing.T, qs ...apiQuestion) llm.MockResponse {
	t.Helper()
	b, err := json.Marshal(generatedBatch{Questions: qs})
	require.NoError(t, err)
	return llm.MockResponse{Content: b}
}

func genQ(text, correct string, wrong ...string) apiQuestion {
	return apiQuestion{
		Category:         "Science & Nature",
		Difficulty:       "easy",
		Question:         text,
		CorrectAnswer:    correct,
		IncorrectAnswers: wrong,
	}
}

func TestLLMSourceFetch(t *testing.T) {
	mock := llm.NewMockProvider(batch(t,
		genQ("Closest star?", "The Sun", "Sirius", "Vega", "Rigel"),
		genQ("", "blank", "a"),
		genQ("Dup?", "x", "x", "y"),
		genQ("Planet count?", "8", "7", "9", "10"),
		genQ("Extra?", "a", "b"),
	))
	src := NewLLMSource(mock, DefaultCatalog(), nil)

	qs, err := src.Fetch(context.Background(), quiz.Request{Amount: 2, Category: intp(17), Difficulty: "easy"})
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, "Closest star?", qs[0].Text)
	assert.Equal(t, "multiple", qs[0].Type)
	assert.ElementsMatch(t, []string{"The Sun", "Sirius", "Vega", "Rigel"}, qs[0].Options)
	assert.Equal(t, "Planet count?", qs[1].Text)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "trivia-questions", calls[0].Schema.Name)
	prompt := calls[0].Messages[0].Content
	assert.Contains(t, prompt, "Write 2 trivia questions")
	assert.Contains(t, prompt, "Science & Nature")
	assert.Contains(t, prompt, "Difficulty: easy")
}

func TestLLMSourceNothingUsable(t *testing.T) {
	src := NewLLMSource(llm.NewMockProvider(batch(t, genQ("?", "", "a"))), DefaultCatalog(), nil)

	_, err := src.Fetch(context.Background(), quiz.Request{Amount: 5})
	var pe *quiz.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, quiz.CodeNoResults, pe.Code)
}

func TestLLMSourceErrors(t *testing.T) {
	rl := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("429")}})
	_, err := NewLLMSource(rl, nil, nil).Fetch(context.Background(), quiz.Request{Amount: 5})
	var pe *quiz.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, quiz.CodeRateLimit, pe.Code)

	down := llm.NewMockProvider()
	_, err = NewLLMSource(down, nil, nil).Fetch(context.Background(), quiz.Request{Amount: 5})
	var unavailable *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavailable)
	assert.Contains(t, quiz.ErrorMessage(err), "generate questions")
}
