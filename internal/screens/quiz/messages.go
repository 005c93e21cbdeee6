package quiz

import "github.com/abhisek/triviaz/internal/quiz"

// fetchedMsg carries the result of a question fetch for one attempt.
type fetchedMsg struct {
	attempt   uint64
	questions []quiz.Question
	err       error
}

// taskFiredMsg is sent when a scheduled machine task comes due.
type taskFiredMsg struct {
	attempt uint64
	id      int
}
