package stat

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/canmon/helpers"
)

func TestIncSnapshot(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := helpers.NewManualClock(base)
	s := New(clock, time.Millisecond)
	s.Inc(Received)
	s.Inc(Received)
	s.Inc(BusOff)
	clock.Advance(3 * time.Second)

	ss, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), ss.Get(Received))
	assert.Equal(t, uint64(1), ss.Get(BusOff))
	assert.Equal(t, uint64(0), ss.Get(Transmitted))
	assert.Equal(t, 3*time.Second, ss.Uptime)
	assert.Equal(t, base, ss.Start.UTC())
	assert.Contains(t, ss.String(), "uptime=3s received=2 ")
}

func TestSnapshotValue(t *testing.T) {
	t.Parallel()
	s := New(helpers.NewManualClock(time.Unix(0, 0)), time.Millisecond)
	s.Inc(Skipped)
	snapshot := func() Snapshot {
		ss, err := s.Snapshot()
		require.NoError(t, err)
		return ss
	}
	assert.Equal(t, uint64(1), snapshot().Get(Skipped))
	assert.Contains(t, fmt.Sprint(snapshot()), "skipped=1")
}

func TestReset(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := helpers.NewManualClock(base)
	s := New(clock, time.Millisecond)
	for k := Kind(0); k < KindCount; k++ {
		s.Add(k, 5)
	}
	clock.Advance(time.Minute)

	require.NoError(t, s.Reset(false))
	ss, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, [KindCount]uint64{}, ss.Counts)
	assert.Equal(t, time.Minute, ss.Uptime)

	s.Inc(TxQueueFull)
	ss, err = s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), ss.Get(TxQueueFull))

	require.NoError(t, s.Reset(true))
	assert.Equal(t, time.Duration(0), s.Uptime())
}

func TestLockTimeout(t *testing.T) {
	t.Parallel()
	s := New(helpers.SystemClock{}, time.Millisecond)
	s.mu.Lock()
	assert.False(t, s.Add(Received, 1))
	_, err := s.Snapshot()
	assert.True(t, errors.IsTimeout(err))
	assert.True(t, errors.IsTimeout(s.Reset(false)))
	s.mu.Unlock()

	ss, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), ss.Get(Received))
}

func TestConcurrentInc(t *testing.T) {
	t.Parallel()
	s := New(helpers.SystemClock{}, time.Second)
	wg := sync.WaitGroup{}
	const N = 8
	const M = 1000
	wg.Add(N)
	for i := 0; i < N; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < M; j++ {
				s.Inc(Received)
			}
		}()
	}
	wg.Wait()
	ss, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, uint64(N*M), ss.Get(Received))
}

func TestKindString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "bus_off", BusOff.String())
	assert.Equal(t, "skipped", Skipped.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
}
