// Package quiz drives a single quiz attempt: fetching questions, the
// speed-mode countdown, answer locking, scoring and the hand-off of the
// finished run to the session store.
package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/triviaz/internal/state"
)

// Question is a normalized multiple-choice question. Options contains
// CorrectAnswer exactly once.
type Question struct {
	Category      string   `json:"category"`
	Type          string   `json:"type"`
	Difficulty    string   `json:"difficulty"`
	Text          string   `json:"question"`
	CorrectAnswer string   `json:"correct_answer"`
	Options       []string `json:"options"`
}

// Request asks a Provider for questions.
type Request struct {
	Amount     int
	Category   *int
	Difficulty state.Difficulty
}

// NewRequest builds a Request from quiz settings.
func NewRequest(s state.Settings) Request {
	req := Request{Amount: s.Amount, Difficulty: s.Difficulty}
	if s.Category != nil {
		c := *s.Category
		req.Category = &c
	}
	return req
}

// Provider supplies questions. Failures the question bank reports with a
// response code are returned as *ProviderError.
type Provider interface {
	Fetch(ctx context.Context, req Request) ([]Question, error)
}

// Question bank response codes.
const (
	CodeNoResults        = 1
	CodeInvalidParameter = 2
	CodeTokenNotFound    = 3
	CodeTokenEmpty       = 4
	CodeRateLimit        = 5
)

// ProviderError is a coded failure from the question bank.
type ProviderError struct {
	Code int
	Err  error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("API error code: %d: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("API error code: %d", e.Code)
}

func (e *ProviderError) Unwrap() error { return e.Err }

var codeMessages = map[int]string{
	CodeNoResults:        "Not enough questions in this category for the selected amount. Try reducing the number of questions.",
	CodeInvalidParameter: "Invalid parameter. Please check settings.",
	CodeTokenNotFound:    "Session Token not found.",
	CodeTokenEmpty:       "Token Empty. Resetting.",
	CodeRateLimit:        "Too many requests. Wait a few seconds and try again.",
}

// ErrorMessage maps err to the text shown to the player. Known codes get a
// fixed message; anything else passes its own message through.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		if msg, ok := codeMessages[pe.Code]; ok {
			return msg
		}
	}
	return err.Error()
}

// Fetch asks p for the questions described by s.
func Fetch(ctx context.Context, p Provider, s state.Settings) ([]Question, error) {
	qs, err := p.Fetch(ctx, NewRequest(s))
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	return qs, nil
}
