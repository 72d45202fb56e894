package qa

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errUpstream = errors.New("upstream down")

func fail() error    { return errUpstream }
func succeed() error { return nil }

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b := NewBreaker(2, time.Minute)

	assert.ErrorIs(t, b.Call(fail, nil), errUpstream)
	assert.Equal(t, StateClosed, b.State())
	assert.ErrorIs(t, b.Call(fail, nil), errUpstream)
	assert.Equal(t, StateOpen, b.State())

	called := false
	err := b.Call(func() error { called = true; return nil }, nil)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
	assert.Equal(t, int64(1), b.Stats().TotalRejections)
}

func TestBreaker_SuccessResetsFailures(t *testing.T) {
	b := NewBreaker(2, time.Minute)
	b.Call(fail, nil)
	b.Call(succeed, nil)
	b.Call(fail, nil)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_HalfOpenRecovery(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBreaker(1, time.Minute)
	b.now = func() time.Time { return now }

	b.Call(fail, nil)
	assert.Equal(t, StateOpen, b.State())

	now = now.Add(2 * time.Minute)
	assert.NoError(t, b.Call(succeed, nil))
	assert.Equal(t, StateHalfOpen, b.State())
	assert.NoError(t, b.Call(succeed, nil))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBreaker(1, time.Minute)
	b.now = func() time.Time { return now }

	b.Call(fail, nil)
	now = now.Add(2 * time.Minute)
	b.Call(fail, nil)
	assert.Equal(t, StateOpen, b.State())
}

func TestBreaker_UncountableErrorsIgnored(t *testing.T) {
	b := NewBreaker(1, time.Minute)
	ignore := func(error) bool { return false }

	assert.ErrorIs(t, b.Call(fail, ignore), errUpstream)
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, int64(0), b.Stats().TotalFailures)
}

func TestBreaker_Reset(t *testing.T) {
	b := NewBreaker(1, time.Hour)
	b.Call(fail, nil)
	assert.Equal(t, StateOpen, b.State())
	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	assert.NoError(t, b.Call(succeed, nil))
}

func TestBreaker_HalfOpenLimitsConcurrentTrials(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBreaker(1, time.Minute)
	b.now = func() time.Time { return now }

	b.Call(fail, nil)
	now = now.Add(2 * time.Minute)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- b.Call(func() error {
			close(started)
			<-release
			return nil
		}, nil)
	}()
	<-started

	assert.Equal(t, StateHalfOpen, b.State())
	assert.ErrorIs(t, b.Call(succeed, nil), ErrTooManyRequests)

	close(release)
	assert.NoError(t, <-done)
	assert.Equal(t, int64(1), b.Stats().TotalRejections)
}
