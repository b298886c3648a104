package watchdog

import (
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/canmon/frc"
	"github.com/temoto/canmon/hardware/can"
)

const controllerID = 0x01011840

var base = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newTest(opt Options) *Watchdog {
	opt.LockTimeout = time.Millisecond
	opt.Timeout = 100 * time.Millisecond
	return New(opt)
}

func feed(t testing.TB, w *Watchdog, f can.Frame, now time.Time) bool {
	ok, err := w.Observe(f, frc.LayoutAPI10.Decode(f.ID), now)
	require.NoError(t, err)
	return ok
}

func status(t testing.TB, w *Watchdog, now time.Time) Status {
	s, err := w.Status(now)
	require.NoError(t, err)
	return s
}

func TestInitialLost(t *testing.T) {
	t.Parallel()
	w := newTest(Options{})
	s := status(t, w, base)
	assert.Equal(t, StateHeartbeatLost, s.State)
	assert.False(t, s.HeartbeatActive)
	assert.True(t, s.LastHeartbeat.IsZero())
}

func TestEnabledThenTimeout(t *testing.T) {
	t.Parallel()
	w := newTest(Options{})
	require.True(t, feed(t, w, can.MustFrame(controllerID, true, []byte{0x01}), base))
	s := status(t, w, base.Add(50*time.Millisecond))
	assert.Equal(t, StateEnabled, s.State)
	assert.True(t, s.HeartbeatActive)
	assert.Equal(t, 50*time.Millisecond, s.Since)

	s = status(t, w, base.Add(100*time.Millisecond))
	assert.Equal(t, StateHeartbeatLost, s.State)
	assert.False(t, s.HeartbeatActive)
	assert.False(t, s.Enabled)
	assert.True(t, s.LastEnableBit)
}

func TestDisabledThenEnabled(t *testing.T) {
	t.Parallel()
	w := newTest(Options{})
	feed(t, w, can.MustFrame(controllerID, true, []byte{0x00}), base)
	assert.Equal(t, StateDisabled, status(t, w, base).State)
	feed(t, w, can.MustFrame(controllerID, true, []byte{0xf1}), base.Add(50*time.Millisecond))
	assert.Equal(t, StateEnabled, status(t, w, base.Add(60*time.Millisecond)).State)
}

func TestUnrelatedFrames(t *testing.T) {
	t.Parallel()
	w := newTest(Options{})
	feed(t, w, can.MustFrame(controllerID, true, []byte{0x01}), base)
	assert.False(t, feed(t, w, can.MustFrame(0x0A081801, true, []byte{0x00}), base))
	// standard frame with same low bits is not controller status
	assert.False(t, feed(t, w, can.MustFrame(0x040, false, []byte{0x00}), base))
	assert.False(t, feed(t, w, can.AlertFrame(can.AlertBusOff), base))
	assert.Equal(t, StateEnabled, status(t, w, base).State)
}

func TestEmptyPayloadPolicy(t *testing.T) {
	t.Parallel()
	empty := can.MustFrame(controllerID, true, nil)

	w := newTest(Options{EmptyPayload: EmptyPayloadRefresh})
	feed(t, w, can.MustFrame(controllerID, true, []byte{0x01}), base)
	assert.True(t, feed(t, w, empty, base.Add(90*time.Millisecond)))
	s := status(t, w, base.Add(150*time.Millisecond))
	assert.Equal(t, StateEnabled, s.State)

	w = newTest(Options{EmptyPayload: EmptyPayloadIgnore})
	feed(t, w, can.MustFrame(controllerID, true, []byte{0x01}), base)
	assert.False(t, feed(t, w, empty, base.Add(90*time.Millisecond)))
	s = status(t, w, base.Add(150*time.Millisecond))
	assert.Equal(t, StateHeartbeatLost, s.State)
}

func TestParseEmptyPayloadPolicy(t *testing.T) {
	t.Parallel()
	p, err := ParseEmptyPayloadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, EmptyPayloadRefresh, p)
	p, err = ParseEmptyPayloadPolicy("ignore")
	require.NoError(t, err)
	assert.Equal(t, EmptyPayloadIgnore, p)
	_, err = ParseEmptyPayloadPolicy("drop")
	assert.True(t, errors.IsNotValid(err))
}

func TestPollOnChange(t *testing.T) {
	t.Parallel()
	type change struct{ prev, next State }
	changes := []change{}
	w := newTest(Options{OnChange: func(prev, next State) {
		changes = append(changes, change{prev, next})
	}})
	_, err := w.Poll(base)
	require.NoError(t, err)
	feed(t, w, can.MustFrame(controllerID, true, []byte{0x00}), base)
	_, _ = w.Poll(base)
	_, _ = w.Poll(base.Add(10 * time.Millisecond))
	feed(t, w, can.MustFrame(controllerID, true, []byte{0x01}), base.Add(20*time.Millisecond))
	_, _ = w.Poll(base.Add(30 * time.Millisecond))
	_, _ = w.Poll(base.Add(time.Second))
	assert.Equal(t, []change{
		{StateHeartbeatLost, StateDisabled},
		{StateDisabled, StateEnabled},
		{StateEnabled, StateHeartbeatLost},
	}, changes)
}

func TestOutput(t *testing.T) {
	t.Parallel()
	const flash = 250 * time.Millisecond
	assert.True(t, StateEnabled.Output(base, flash))
	assert.False(t, StateDisabled.Output(base, flash))

	// base is aligned to flash period
	assert.True(t, StateHeartbeatLost.Output(base, flash))
	assert.True(t, StateHeartbeatLost.Output(base.Add(249*time.Millisecond), flash))
	assert.False(t, StateHeartbeatLost.Output(base.Add(250*time.Millisecond), flash))
	assert.True(t, StateHeartbeatLost.Output(base.Add(500*time.Millisecond), flash))
}

func TestLockTimeout(t *testing.T) {
	t.Parallel()
	w := newTest(Options{})
	w.mu.Lock()
	ok, err := w.Observe(can.MustFrame(controllerID, true, []byte{1}), frc.LayoutAPI10.Decode(controllerID), base)
	assert.False(t, ok)
	assert.True(t, errors.IsTimeout(err))
	_, err = w.Status(base)
	assert.True(t, errors.IsTimeout(err))
	w.mu.Unlock()
}
