package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutorRunsTasksInSubmissionOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	exec := NewExecutor(16)
	go exec.Run(ctx)

	var got []int
	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		i := i
		require.NoError(t, exec.Submit(func() { got = append(got, i) }))
	}
	require.NoError(t, exec.Submit(func() { close(done) }))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("executor did not drain")
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestExecutorSubmitReportsFullQueue(t *testing.T) {
	exec := NewExecutor(1)
	// Not running: the first task fills the queue, the second must fail.
	require.NoError(t, exec.Submit(func() {}))
	assert.ErrorIs(t, exec.Submit(func() {}), ErrQueueFull)
}

func TestExecutorBacklogAndCapacity(t *testing.T) {
	exec := NewExecutor(4)
	assert.Equal(t, 4, exec.Capacity())
	assert.Equal(t, 0, exec.Backlog())

	require.NoError(t, exec.Submit(func() {}))
	require.NoError(t, exec.Submit(func() {}))
	assert.Equal(t, 2, exec.Backlog())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go exec.Run(ctx)

	done := make(chan struct{})
	require.NoError(t, exec.Submit(func() { close(done) }))
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("executor did not drain")
	}
	assert.Equal(t, 0, exec.Backlog())
}
