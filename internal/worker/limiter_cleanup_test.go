package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLimiters struct {
	size  int
	idle  int
	calls int
}

func (f *fakeLimiters) Cleanup() int {
	f.calls++
	removed := f.idle
	f.size -= f.idle
	f.idle = 0
	return removed
}

func (f *fakeLimiters) Size() int { return f.size }

func TestLimiterCleanup_Run(t *testing.T) {
	limiters := &fakeLimiters{size: 5, idle: 3}
	job := NewLimiterCleanup(limiters, zap.NewNop())

	require.NoError(t, job.Run(context.Background()))
	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, "rate-limiter-cleanup", job.Name())
	assert.Equal(t, 2, limiters.calls)
	assert.Equal(t, 2, limiters.size)
}
