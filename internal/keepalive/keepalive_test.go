package keepalive

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Schedules(t *testing.T) {
	t.Parallel()

	j, err := New("")
	require.NoError(t, err)
	require.Len(t, j.cron.Entries(), 1)

	_, err = New("every now and then")
	assert.Error(t, err)
}

func TestJob_Ticks(t *testing.T) {
	t.Parallel()

	j, err := New("@every 1s")
	require.NoError(t, err)

	var ticks atomic.Int32
	j.tick = func() { ticks.Add(1) }

	j.Start()
	assert.Eventually(t, func() bool { return ticks.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	j.Stop(ctx)
}

func TestJob_NextRunWithin14Minutes(t *testing.T) {
	t.Parallel()

	j, err := New(DefaultSchedule)
	require.NoError(t, err)

	now := time.Date(2026, 1, 1, 10, 1, 0, 0, time.Local)
	next := j.cron.Entries()[0].Schedule.Next(now)
	assert.True(t, next.Equal(time.Date(2026, 1, 1, 10, 14, 0, 0, time.Local)), "next run %s", next)
}
