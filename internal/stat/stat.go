// Package stat counts bus events.
package stat

import (
	"fmt"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/canmon/helpers"
	"github.com/temoto/canmon/helpers/atomic_clock"
)

type Kind uint8

const (
	Received Kind = iota
	Transmitted
	TransmitFailed
	BusOff
	ArbitrationLost
	RxQueueFull
	TxQueueFull
	BusError
	Recovery
	Skipped
	KindCount
)

var kindNames = [KindCount]string{
	"received",
	"transmitted",
	"transmit_failed",
	"bus_off",
	"arbitration_lost",
	"rx_queue_full",
	"tx_queue_full",
	"bus_error",
	"recovery",
	"skipped",
}

func (k Kind) String() string {
	if k < KindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

type Snapshot struct {
	Counts [KindCount]uint64
	Start  time.Time
	Uptime time.Duration
}

func (s Snapshot) Get(k Kind) uint64 {
	if k >= KindCount {
		return 0
	}
	return s.Counts[k]
}

func (s Snapshot) String() string {
	b := make([]byte, 0, 256)
	b = append(b, fmt.Sprintf("uptime=%s", s.Uptime.Truncate(time.Second))...)
	for k := Kind(0); k < KindCount; k++ {
		b = append(b, fmt.Sprintf(" %s=%d", k, s.Counts[k])...)
	}
	return string(b)
}

type Stats struct {
	mu          *helpers.TimedMutex
	lockTimeout time.Duration
	clock       helpers.Clock
	counts      [KindCount]uint64
	start       atomic_clock.Clock
}

func New(clock helpers.Clock, lockTimeout time.Duration) *Stats {
	s := &Stats{
		mu:          helpers.NewTimedMutex(),
		lockTimeout: lockTimeout,
		clock:       clock,
	}
	s.start.SetTime(clock.Now())
	return s
}

// Inc never fails, increment is dropped when lock wait times out.
func (s *Stats) Inc(k Kind) { s.Add(k, 1) }

func (s *Stats) Add(k Kind, n uint64) bool {
	if k >= KindCount {
		return false
	}
	if !s.mu.LockTimeout(s.lockTimeout) {
		return false
	}
	s.counts[k] += n
	s.mu.Unlock()
	return true
}

// Uptime does not take lock.
func (s *Stats) Uptime() time.Duration { return s.start.SinceAt(s.clock.Now()) }

func (s *Stats) Snapshot() (Snapshot, error) {
	if !s.mu.LockTimeout(s.lockTimeout) {
		return Snapshot{}, errors.Timeoutf("stat lock")
	}
	ss := Snapshot{Counts: s.counts}
	s.mu.Unlock()
	ss.Start = s.start.Time()
	ss.Uptime = s.Uptime()
	return ss, nil
}

// Reset zeroes counters, start time only if resetUptime.
func (s *Stats) Reset(resetUptime bool) error {
	if !s.mu.LockTimeout(s.lockTimeout) {
		return errors.Timeoutf("stat lock")
	}
	s.counts = [KindCount]uint64{}
	if resetUptime {
		s.start.SetTime(s.clock.Now())
	}
	s.mu.Unlock()
	return nil
}
