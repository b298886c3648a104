// Package watchdog derives robot enable state from controller status frames.
//
// Heartbeat liveness is never stored, every reader computes it from
// the last heartbeat time and its own clock.
package watchdog

import (
	"strings"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/canmon/frc"
	"github.com/temoto/canmon/hardware/can"
	"github.com/temoto/canmon/helpers"
)

const (
	DefaultTimeout = 500 * time.Millisecond
	DefaultFlash   = 250 * time.Millisecond
)

type State uint8

const (
	StateHeartbeatLost State = iota
	StateDisabled
	StateEnabled
)

func (s State) String() string {
	switch s {
	case StateHeartbeatLost:
		return "heartbeat-lost"
	case StateDisabled:
		return "disabled"
	case StateEnabled:
		return "enabled"
	}
	return "invalid"
}

// Output is relay value: enabled=on, disabled=off, lost=square wave of flash period.
// Flash phase comes from now only, independent of bus activity.
func (s State) Output(now time.Time, flash time.Duration) bool {
	switch s {
	case StateEnabled:
		return true
	case StateDisabled:
		return false
	}
	if flash <= 0 {
		flash = DefaultFlash
	}
	return (now.UnixNano()/int64(flash))%2 == 0
}

type EmptyPayloadPolicy uint8

const (
	// heartbeat refreshed, enable bit unchanged
	EmptyPayloadRefresh EmptyPayloadPolicy = iota
	// frame ignored entirely
	EmptyPayloadIgnore
)

func ParseEmptyPayloadPolicy(s string) (EmptyPayloadPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "refresh":
		return EmptyPayloadRefresh, nil
	case "ignore":
		return EmptyPayloadIgnore, nil
	}
	return EmptyPayloadRefresh, errors.NotValidf("watchdog empty_payload=%q", s)
}

type Options struct {
	Layout       frc.Layout
	Signature    frc.Signature
	Timeout      time.Duration
	EmptyPayload EmptyPayloadPolicy
	LockTimeout  time.Duration
	// OnChange is called from Poll when derived state differs from previous Poll.
	OnChange func(prev, next State)
}

type Status struct {
	State State
	// Enabled is State==StateEnabled, false once heartbeat is lost.
	Enabled bool
	// LastEnableBit is raw bit of last controller status, kept after heartbeat loss.
	LastEnableBit   bool
	HeartbeatActive bool
	LastHeartbeat   time.Time
	// Since last heartbeat, zero if never seen.
	Since time.Duration
}

type Watchdog struct {
	mu       *helpers.TimedMutex
	opt      Options
	enabled  bool
	last     time.Time
	reported State
}

func New(opt Options) *Watchdog {
	if opt.Timeout <= 0 {
		opt.Timeout = DefaultTimeout
	}
	if opt.Layout == frc.LayoutInvalid {
		opt.Layout = frc.LayoutAPI10
	}
	if opt.Signature == (frc.Signature{}) {
		opt.Signature = frc.ControllerSignature
	}
	return &Watchdog{
		mu:       helpers.NewTimedMutex(),
		opt:      opt,
		reported: StateHeartbeatLost,
	}
}

// Match reports whether frame is controller status.
func (w *Watchdog) Match(f can.Frame, fields frc.Fields) bool {
	return f.Extended && !f.IsAlert() && !f.RTR && w.opt.Signature.Match(fields)
}

// Observe applies controller status frame, other frames return false.
func (w *Watchdog) Observe(f can.Frame, fields frc.Fields, now time.Time) (bool, error) {
	if !w.Match(f, fields) {
		return false, nil
	}
	if f.Len == 0 && w.opt.EmptyPayload == EmptyPayloadIgnore {
		return false, nil
	}
	if !w.mu.LockTimeout(w.opt.LockTimeout) {
		return false, errors.Timeoutf("watchdog lock")
	}
	if f.Len > 0 {
		w.enabled = f.Data[0]&0x01 != 0
	}
	w.last = now
	w.mu.Unlock()
	return true, nil
}

func (w *Watchdog) Status(now time.Time) (Status, error) {
	if !w.mu.LockTimeout(w.opt.LockTimeout) {
		return Status{}, errors.Timeoutf("watchdog lock")
	}
	enabled, last := w.enabled, w.last
	w.mu.Unlock()
	return w.derive(enabled, last, now), nil
}

func (w *Watchdog) derive(enabled bool, last, now time.Time) Status {
	s := Status{LastEnableBit: enabled, LastHeartbeat: last, State: StateHeartbeatLost}
	if last.IsZero() {
		return s
	}
	s.Since = now.Sub(last)
	s.HeartbeatActive = s.Since < w.opt.Timeout
	switch {
	case !s.HeartbeatActive:
		s.State = StateHeartbeatLost
	case enabled:
		s.State = StateEnabled
	default:
		s.State = StateDisabled
	}
	s.Enabled = s.State == StateEnabled
	return s
}

// Poll is Status plus change notification, used by single relay task.
func (w *Watchdog) Poll(now time.Time) (Status, error) {
	s, err := w.Status(now)
	if err != nil {
		return s, err
	}
	if s.State != w.reported {
		prev := w.reported
		w.reported = s.State
		if w.opt.OnChange != nil {
			w.opt.OnChange(prev, s.State)
		}
	}
	return s, nil
}

func (w *Watchdog) Timeout() time.Duration { return w.opt.Timeout }
