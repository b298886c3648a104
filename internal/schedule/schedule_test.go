package schedule

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/alive/v2"
	"github.com/temoto/canmon/helpers"
	"github.com/temoto/canmon/log2"
)

var base = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func TestRunDue(t *testing.T) {
	t.Parallel()
	clock := helpers.NewManualClock(base)
	s := New(clock, log2.NewTest(t, log2.LDebug))
	fast, slow := []time.Time{}, []time.Time{}
	require.NoError(t, s.Add(Task{Name: "fast", Period: 100 * time.Millisecond, Run: func(now time.Time) { fast = append(fast, now) }}))
	require.NoError(t, s.Add(Task{Name: "slow", Period: time.Second, Run: func(now time.Time) { slow = append(slow, now) }}))

	assert.Equal(t, 2, s.RunDue(clock.Now()))
	assert.Equal(t, 0, s.RunDue(clock.Advance(50*time.Millisecond)))
	assert.Equal(t, 1, s.RunDue(clock.Advance(50*time.Millisecond)))
	for i := 0; i < 9; i++ {
		s.RunDue(clock.Advance(100 * time.Millisecond))
	}
	assert.Len(t, fast, 11)
	assert.Len(t, slow, 2)
	assert.Equal(t, base.Add(time.Second), slow[1])
	assert.Equal(t, uint64(11), s.Runs("fast"))
	assert.Equal(t, base.Add(1100*time.Millisecond), s.Next())
}

func TestRunDueSkipsMissed(t *testing.T) {
	t.Parallel()
	clock := helpers.NewManualClock(base)
	s := New(clock, nil)
	n := 0
	require.NoError(t, s.Add(Task{Name: "t", Period: 100 * time.Millisecond, Run: func(time.Time) { n++ }}))
	s.RunDue(clock.Now())
	// long stall runs once, not ten times
	assert.Equal(t, 1, s.RunDue(clock.Advance(time.Second)))
	assert.Equal(t, base.Add(1100*time.Millisecond), s.Next())
	assert.Equal(t, 2, n)
}

func TestAddInvalid(t *testing.T) {
	t.Parallel()
	s := New(helpers.SystemClock{}, nil)
	assert.True(t, errors.IsNotValid(s.Add(Task{Name: "zero", Run: func(time.Time) {}})))
	assert.True(t, errors.IsNotValid(s.Add(Task{Name: "nil", Period: time.Second})))
	assert.True(t, s.Next().IsZero())
}

func TestAddDuplicate(t *testing.T) {
	t.Parallel()
	s := New(helpers.SystemClock{}, nil)
	task := Task{Name: "report", Period: time.Second, Run: func(time.Time) {}}
	require.NoError(t, s.Add(task))
	assert.True(t, errors.IsAlreadyExists(s.Add(task)))
	assert.Equal(t, 1, s.RunDue(time.Now()))
}

func TestRunStops(t *testing.T) {
	t.Parallel()
	s := New(helpers.SystemClock{}, nil)
	s.Resolution = time.Millisecond
	var n int32
	require.NoError(t, s.Add(Task{Name: "t", Period: 2 * time.Millisecond, Run: func(time.Time) { atomic.AddInt32(&n, 1) }}))
	a := alive.NewAlive()
	go s.Run(a)
	time.Sleep(30 * time.Millisecond)
	a.Stop()
	a.Wait()
	assert.True(t, atomic.LoadInt32(&n) >= 2)
}
