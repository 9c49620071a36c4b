package agenda

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"roster/domain/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedToday []schedule.Occurrence

func (f fixedToday) TodayOccurrences() []schedule.Occurrence { return f }

type countingSweeper struct{ calls atomic.Int32 }

func (c *countingSweeper) Sweep() int {
	c.calls.Add(1)
	return 0
}

func TestNew_RegistersJobs(t *testing.T) {
	s, err := New(time.UTC, "0 6 * * *", fixedToday(nil), &countingSweeper{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Jobs())

	s, err = New(time.UTC, "", fixedToday(nil), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Jobs())

	_, err = New(time.UTC, "not a spec", fixedToday(nil), nil, nil)
	assert.Error(t, err)
}

func TestLogAgenda(t *testing.T) {
	s, err := New(time.UTC, "", nil, nil, nil)
	require.NoError(t, err)

	lines := s.LogAgenda(fixedToday{
		{Name: "Camp Aguda", Address: "Ferndale", Phone: "917-697-4263"},
		{Name: "Landaus", Address: "South Fallsburg"},
	})

	assert.Equal(t, []string{
		"Camp Aguda, Ferndale (917-697-4263)",
		"Landaus, South Fallsburg",
	}, lines)
	assert.Empty(t, s.LogAgenda(fixedToday(nil)))
}

func TestRun_StopsOnCancel(t *testing.T) {
	s, err := New(time.UTC, "", nil, &countingSweeper{}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
