package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/abhisek/triviaz/internal/store"
)

type loggingProvider struct {
	inner    Provider
	provider string
	events   store.EventRepo
	logger   *log.Logger
	now      func() time.Time
}

// WithLogging records every request as an LLM request event. A failure to
// record is logged and never fails the request.
func WithLogging(p Provider, provider string, events store.EventRepo, logger *log.Logger) Provider {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &loggingProvider{
		inner:    p,
		provider: provider,
		events:   events,
		logger:   logger.WithPrefix("llm"),
		now:      time.Now,
	}
}

func (l *loggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := l.now()
	resp, err := l.inner.Generate(ctx, req)
	latency := l.now().Sub(start)

	ev := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   latency.Milliseconds(),
		Success:     err == nil,
		RequestBody: describeRequest(req),
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
		l.logger.Warn("generate failed", "purpose", ev.Purpose, "model", ev.Model, "err", err)
	} else {
		l.logger.Debug("generate", "purpose", ev.Purpose, "model", ev.Model,
			"latency", latency, "in", ev.InputTokens, "out", ev.OutputTokens)
	}

	// The caller's context may already be cancelled; the record should still land.
	if rerr := l.events.AppendLLMRequest(context.WithoutCancel(ctx), ev); rerr != nil {
		l.logger.Warn("record llm request", "err", rerr)
	}
	return resp, err
}

func (l *loggingProvider) ModelID() string { return l.inner.ModelID() }

// describeRequest renders req as readable text for the event log.
func describeRequest(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
