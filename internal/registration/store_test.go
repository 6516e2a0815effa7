package registration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable clock for the store.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(ttl time.Duration) (*Store, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	s := NewStore(ttl)
	s.now = clock.now
	return s, clock
}

func TestStore(t *testing.T) {
	s := NewStore(DefaultSessionTTL)
	id, f := s.Start()
	assert.NotEmpty(t, id)

	got, ok := s.Get(id)
	require.True(t, ok)
	assert.Same(t, f, got)

	seeded := s.Restart(id, sampleDraft())
	assert.NotSame(t, f, seeded)
	assert.Equal(t, sampleDraft(), seeded.State().Draft)
	assert.Equal(t, StepEntry, seeded.State().Step)
	assert.Equal(t, 1, s.Len())

	_, ok = s.Get("unknown")
	assert.False(t, ok)
}

func TestStore_SweepDropsIdleSessions(t *testing.T) {
	s, clock := newTestStore(10 * time.Minute)

	idle, _ := s.Start()
	clock.advance(6 * time.Minute)
	active, _ := s.Start()
	clock.advance(5 * time.Minute)

	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())

	_, ok := s.Get(idle)
	assert.False(t, ok)
	_, ok = s.Get(active)
	assert.True(t, ok)
}

func TestStore_GetRefreshesSession(t *testing.T) {
	s, clock := newTestStore(10 * time.Minute)
	id, _ := s.Start()

	for i := 0; i < 3; i++ {
		clock.advance(8 * time.Minute)
		_, ok := s.Get(id)
		require.True(t, ok)
	}
	assert.Zero(t, s.Sweep())

	clock.advance(10 * time.Minute)
	_, ok := s.Get(id)
	assert.False(t, ok)
	assert.Zero(t, s.Len())
}

func TestStore_SweepKeepsSubmittingFlow(t *testing.T) {
	s, clock := newTestStore(time.Minute)
	_, f := s.Start()
	require.NoError(t, f.Enter(sampleDraft()))

	creator := &fakeCreator{block: make(chan struct{})}
	done := make(chan error, 1)
	go func() { done <- f.Confirm(context.Background(), creator) }()
	require.Eventually(t, func() bool { return f.State().Submitting }, time.Second, time.Millisecond)

	clock.advance(time.Hour)
	assert.Zero(t, s.Sweep())

	close(creator.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, s.Sweep())
}

func TestStore_RunSweepsUntilCanceled(t *testing.T) {
	s := NewStore(time.Millisecond)
	for i := 0; i < 10; i++ {
		s.Start()
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, 5*time.Millisecond) }()

	require.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}
