package helpers

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoldErrors(t *testing.T) {
	t.Parallel()
	assert.NoError(t, FoldErrors(nil))
	assert.NoError(t, FoldErrors([]error{nil, nil}))
	err := FoldErrors([]error{fmt.Errorf("one"), nil, fmt.Errorf("two")})
	require.Error(t, err)
	assert.Equal(t, "one\ntwo", err.Error())
}

func TestFoldErrChan(t *testing.T) {
	t.Parallel()
	wg := sync.WaitGroup{}
	ch := make(chan error, 3)
	wg.Add(3)
	go WrapErrChan(&wg, ch, func() error { return nil })
	go WrapErrChan(&wg, ch, func() error { return fmt.Errorf("bad") })
	go WrapErrChan(&wg, ch, func() error { return nil })
	wg.Wait()
	close(ch)
	err := FoldErrChan(ch)
	require.Error(t, err)
	assert.Equal(t, "bad", err.Error())
}

func TestTimedMutex(t *testing.T) {
	t.Parallel()
	m := NewTimedMutex()
	require.True(t, m.TryLock())
	assert.False(t, m.TryLock())

	tbegin := time.Now()
	assert.False(t, m.LockTimeout(20*time.Millisecond))
	assert.True(t, time.Since(tbegin) >= 20*time.Millisecond)

	go func() {
		time.Sleep(10 * time.Millisecond)
		m.Unlock()
	}()
	assert.True(t, m.LockTimeout(time.Second))
	m.Unlock()

	assert.Panics(t, func() { m.Unlock() })
}

func TestManualClock(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := NewManualClock(base)
	assert.Equal(t, base, c.Now())
	assert.Equal(t, base.Add(time.Second), c.Advance(time.Second))
	assert.Equal(t, base.Add(time.Second), c.Now())
}

func TestParseHex(t *testing.T) {
	t.Parallel()
	cases := []struct {
		input  string
		expect []byte
		valid  bool
	}{
		{"", []byte{}, true},
		{"0102ff", []byte{1, 2, 0xff}, true},
		{"01 02:03.04", []byte{1, 2, 3, 4}, true},
		{"1", nil, false},
		{"zz", nil, false},
	}
	for _, c := range cases {
		c := c
		t.Run(c.input, func(t *testing.T) {
			b, err := ParseHex(c.input)
			if !c.valid {
				require.Error(t, err)
				return
			}
			require.NoError(t, err, errors.ErrorStack(err))
			assert.Equal(t, c.expect, b)
		})
	}
}

func TestBackoff(t *testing.T) {
	t.Parallel()
	b := Backoff{Min: 100 * time.Millisecond, Max: time.Second, K: 2}
	base := time.Unix(1700000000, 0)
	assert.Equal(t, time.Duration(0), b.DelayBeforeAt(base))

	b.FailureAt(base)
	assert.Equal(t, 100*time.Millisecond, b.DelayBeforeAt(base))
	b.FailureAt(base)
	assert.Equal(t, 200*time.Millisecond, b.DelayBeforeAt(base))
	assert.Equal(t, 50*time.Millisecond, b.DelayBeforeAt(base.Add(150*time.Millisecond)))
	for i := 0; i < 10; i++ {
		b.FailureAt(base)
	}
	assert.Equal(t, time.Second, b.DelayBeforeAt(base))
}
