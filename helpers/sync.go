package helpers

// Random synchronisation util stash

import (
	"time"
)

// TimedMutex is a mutex with bounded wait acquisition.
// Zero value is not usable, see NewTimedMutex.
type TimedMutex struct {
	ch chan struct{}
}

func NewTimedMutex() *TimedMutex {
	return &TimedMutex{ch: make(chan struct{}, 1)}
}

func (m *TimedMutex) Lock() { m.ch <- struct{}{} }

// TryLock returns false when mutex is held.
func (m *TimedMutex) TryLock() bool {
	select {
	case m.ch <- struct{}{}:
		return true
	default:
		return false
	}
}

// LockTimeout waits at most d. d<=0 means TryLock.
func (m *TimedMutex) LockTimeout(d time.Duration) bool {
	if m.TryLock() {
		return true
	}
	if d <= 0 {
		return false
	}
	tmr := time.NewTimer(d)
	defer tmr.Stop()
	select {
	case m.ch <- struct{}{}:
		return true
	case <-tmr.C:
		return false
	}
}

func (m *TimedMutex) Unlock() {
	select {
	case <-m.ch:
	default:
		panic("code error TimedMutex.Unlock of unlocked mutex")
	}
}
