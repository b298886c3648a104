// Package schedule runs periodic tasks from one clock.
// RunDue is the whole scheduling logic, Run only decides when to call it.
package schedule

import (
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/canmon/helpers"
	"github.com/temoto/canmon/log2"
)

const DefaultResolution = 5 * time.Millisecond

type Task struct {
	Name   string
	Period time.Duration
	Run    func(now time.Time)
}

type entry struct {
	Task
	next time.Time
	runs uint64
}

type Scheduler struct {
	clock helpers.Clock
	log   *log2.Log
	// Run loop never sleeps less than Resolution.
	Resolution time.Duration

	mu    sync.Mutex
	tasks []*entry
}

func New(clock helpers.Clock, log *log2.Log) *Scheduler {
	return &Scheduler{clock: clock, log: log, Resolution: DefaultResolution}
}

// Add registers task, first run is due immediately. Names are unique.
func (s *Scheduler) Add(t Task) error {
	if t.Period <= 0 {
		return errors.NotValidf("schedule task=%s period=%v", t.Name, t.Period)
	}
	if t.Run == nil {
		return errors.NotValidf("schedule task=%s Run=nil", t.Name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.tasks {
		if e.Name == t.Name {
			return errors.AlreadyExistsf("schedule task=%s", t.Name)
		}
	}
	s.tasks = append(s.tasks, &entry{Task: t})
	return nil
}

// RunDue runs every task with next<=now, returns number of runs.
// Missed periods are not replayed, next run is aligned after now.
func (s *Scheduler) RunDue(now time.Time) int {
	s.mu.Lock()
	due := make([]*entry, 0, len(s.tasks))
	for _, e := range s.tasks {
		if !e.next.After(now) {
			due = append(due, e)
			if e.next.IsZero() {
				e.next = now.Add(e.Period)
			} else {
				e.next = e.next.Add(e.Period)
				if !e.next.After(now) {
					e.next = now.Add(e.Period)
				}
			}
			e.runs++
		}
	}
	s.mu.Unlock()

	for _, e := range due {
		begin := time.Now()
		e.Run(now)
		if d := time.Since(begin); d > e.Period {
			s.log.Debugf("schedule task=%s took=%v period=%v", e.Name, d, e.Period)
		}
	}
	return len(due)
}

// Next is earliest due time, zero when no tasks.
func (s *Scheduler) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	var next time.Time
	for _, e := range s.tasks {
		if next.IsZero() || e.next.Before(next) {
			next = e.next
		}
	}
	return next
}

func (s *Scheduler) Runs(name string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n uint64
	for _, e := range s.tasks {
		if e.Name == name {
			n += e.runs
		}
	}
	return n
}

// Run blocks until a is stopped.
func (s *Scheduler) Run(a *alive.Alive) {
	if !a.Add(1) {
		return
	}
	defer a.Done()
	stopch := a.StopChan()
	tmr := time.NewTimer(0)
	defer tmr.Stop()
	for {
		select {
		case <-stopch:
			return
		case <-tmr.C:
		}
		now := s.clock.Now()
		s.RunDue(now)
		d := s.Next().Sub(s.clock.Now())
		if d < s.Resolution {
			d = s.Resolution
		}
		tmr.Reset(d)
	}
}
