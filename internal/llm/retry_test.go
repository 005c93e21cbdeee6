package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// retrying wraps inner and records waits instead of sleeping.
func retrying(inner Provider, attempts int) (*retryProvider, *[]time.Duration) {
	var waits []time.Duration
	p := WithRetry(inner, RetryConfig{
		MaxAttempts: attempts,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     time.Second,
		Multiplier:  2,
	}).(*retryProvider)
	p.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return p, &waits
}

var okReply = MockResponse{Content: json.RawMessage(`{"ok":true}`)}

func TestRetryTransientThenSuccess(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Err: errors.New("connection reset")},
		okReply,
	)
	p, waits := retrying(mock, 3)

	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Content))
	assert.Len(t, mock.Calls(), 3)
	require.Len(t, *waits, 2)
	assert.InDelta(t, float64(100*time.Millisecond), float64((*waits)[0]), float64(20*time.Millisecond))
	assert.InDelta(t, float64(200*time.Millisecond), float64((*waits)[1]), float64(40*time.Millisecond))
}

func TestRetryGivesUp(t *testing.T) {
	down := MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
	mock := NewMockProvider(down, down, down, okReply)
	p, _ := retrying(mock, 3)

	_, err := p.Generate(context.Background(), Request{})
	var unavailable *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavailable)
	assert.Len(t, mock.Calls(), 3)
}

func TestRetryHonorsRetryAfter(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{RetryAfter: 3 * time.Second}}, okReply)
	p, waits := retrying(mock, 2)

	_, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{3 * time.Second}, *waits)
}

func TestRetryInvalidResponseOnce(t *testing.T) {
	bad := MockResponse{Err: &ErrInvalidResponse{Err: errors.New("shape")}}
	mock := NewMockProvider(bad, bad, okReply)
	p, _ := retrying(mock, 5)

	_, err := p.Generate(context.Background(), Request{})
	var invalid *ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)
	assert.Len(t, mock.Calls(), 2)
}

func TestRetryStopsOnPermanentErrors(t *testing.T) {
	for name, cause := range map[string]error{
		"truncated": &ErrMaxTokensExceeded{},
		"canceled":  context.Canceled,
		"deadline":  context.DeadlineExceeded,
	} {
		t.Run(name, func(t *testing.T) {
			mock := NewMockProvider(MockResponse{Err: cause}, okReply)
			p, _ := retrying(mock, 3)

			_, err := p.Generate(context.Background(), Request{})
			assert.ErrorIs(t, err, cause)
			assert.Len(t, mock.Calls(), 1)
		})
	}
}

func TestRetrySleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepCtx(ctx, time.Hour), context.Canceled)
}

func TestMockProviderScript(t *testing.T) {
	mock := NewMockProvider(okReply)
	mock.Push(MockResponse{Err: errors.New("boom")})

	resp, err := mock.Generate(context.Background(), Request{Messages: userTurn("a")})
	require.NoError(t, err)
	assert.Equal(t, "mock", resp.Model)

	_, err = mock.Generate(context.Background(), Request{})
	assert.EqualError(t, err, "boom")

	_, err = mock.Generate(context.Background(), Request{})
	var unavailable *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavailable)

	calls := mock.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "a", calls[0].Messages[0].Content)
}
