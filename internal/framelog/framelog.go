// Package framelog keeps last N frames in a ring.
package framelog

import (
	"fmt"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/canmon/hardware/can"
	"github.com/temoto/canmon/helpers"
)

const DefaultCapacity = 500

type Dir uint8

const (
	DirRx Dir = iota
	DirTx
)

func (d Dir) String() string {
	if d == DirTx {
		return "tx"
	}
	return "rx"
}

// Entry is immutable after Append, Frame carries data by value.
type Entry struct {
	Time  time.Time
	Dir   Dir
	Frame can.Frame
}

func (e Entry) IsError() bool { return e.Frame.IsAlert() }

func (e Entry) String() string {
	return fmt.Sprintf("%s %s %s", e.Time.Format("15:04:05.000"), e.Dir, e.Frame.String())
}

// Log is fixed capacity ring, overwrites oldest.
type Log struct {
	mu          *helpers.TimedMutex
	lockTimeout time.Duration
	buf         []Entry
	head        int // index of oldest
	count       int
}

func New(capacity int, lockTimeout time.Duration) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		mu:          helpers.NewTimedMutex(),
		lockTimeout: lockTimeout,
		buf:         make([]Entry, capacity),
	}
}

func (l *Log) Cap() int { return len(l.buf) }

// Append returns false when lock wait timed out and entry was dropped.
func (l *Log) Append(e Entry) bool {
	if !l.mu.LockTimeout(l.lockTimeout) {
		return false
	}
	if l.count < len(l.buf) {
		l.buf[(l.head+l.count)%len(l.buf)] = e
		l.count++
	} else {
		l.buf[l.head] = e
		l.head = (l.head + 1) % len(l.buf)
	}
	l.mu.Unlock()
	return true
}

// Export returns copy oldest first.
// limit<=0 means all, otherwise newest limit entries.
func (l *Log) Export(limit int) ([]Entry, error) {
	if !l.mu.LockTimeout(l.lockTimeout) {
		return nil, errors.Timeoutf("framelog lock")
	}
	defer l.mu.Unlock()
	n := l.count
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Entry, n)
	skip := l.count - n
	for i := 0; i < n; i++ {
		out[i] = l.buf[(l.head+skip+i)%len(l.buf)]
	}
	return out, nil
}

func (l *Log) Clear() error {
	if !l.mu.LockTimeout(l.lockTimeout) {
		return errors.Timeoutf("framelog lock")
	}
	for i := range l.buf {
		l.buf[i] = Entry{}
	}
	l.head, l.count = 0, 0
	l.mu.Unlock()
	return nil
}

func (l *Log) Len() (int, error) {
	if !l.mu.LockTimeout(l.lockTimeout) {
		return 0, errors.Timeoutf("framelog lock")
	}
	n := l.count
	l.mu.Unlock()
	return n, nil
}
