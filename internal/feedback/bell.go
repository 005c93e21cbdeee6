// Package feedback plays quiz cues on the terminal.
package feedback

import (
	"io"
	"sync"

	"github.com/abhisek/triviaz/internal/quiz"
)

// Bell rings the terminal bell for quiz cues: once for a wrong answer or a
// timeout, twice when the quiz finishes. Correct answers stay silent.
type Bell struct {
	mu      sync.Mutex
	w       io.Writer
	enabled bool
}

// NewBell returns a Bell writing to w. A disabled Bell never writes.
func NewBell(w io.Writer, enabled bool) *Bell {
	return &Bell{w: w, enabled: enabled && w != nil}
}

// Play implements quiz.Feedback. Write errors are ignored.
func (b *Bell) Play(c quiz.Cue) {
	if !b.enabled {
		return
	}
	var seq string
	switch c {
	case quiz.CueWrong:
		seq = "\a"
	case quiz.CueFinish:
		seq = "\a\a"
	default:
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = io.WriteString(b.w, seq)
}

// SetEnabled turns the bell on or off.
func (b *Bell) SetEnabled(on bool) {
	b.mu.Lock()
	b.enabled = on && b.w != nil
	b.mu.Unlock()
}
