package can

import (
	"sync"
	"time"

	"github.com/juju/errors"
)

// Mock is in-memory Bus for tests and driver="mock" dry runs.
// Inject feeds Receive, transmitted frames are recorded and echoed to Sent channel.
type Mock struct {
	rx   chan Frame
	Sent chan Frame

	mu          sync.Mutex
	health      Health
	recoverErr  error
	recoverN    int
	transmitErr error
	txLog       []Frame
	closed      bool
	stop        chan struct{}
}

var _ Bus = &Mock{}

func NewMock(queue int) *Mock {
	if queue <= 0 {
		queue = DefaultQueueSize
	}
	return &Mock{
		rx:   make(chan Frame, queue),
		Sent: make(chan Frame, queue),
		stop: make(chan struct{}),
	}
}

// Inject returns false when receive queue is full.
func (m *Mock) Inject(f Frame) bool {
	select {
	case m.rx <- f:
		return true
	default:
		return false
	}
}

func (m *Mock) Receive(timeout time.Duration) (Frame, error) {
	select {
	case f := <-m.rx:
		return f, nil
	case <-m.stop:
		return Frame{}, ErrClosed
	default:
	}
	tmr := time.NewTimer(timeout)
	defer tmr.Stop()
	select {
	case f := <-m.rx:
		return f, nil
	case <-tmr.C:
		return Frame{}, ErrTimeout
	case <-m.stop:
		return Frame{}, ErrClosed
	}
}

func (m *Mock) Transmit(f Frame, timeout time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.transmitErr != nil {
		return m.transmitErr
	}
	if m.health == HealthOff {
		return errors.Errorf("mock transmit bus off")
	}
	m.txLog = append(m.txLog, f)
	select {
	case m.Sent <- f:
	default:
	}
	return nil
}

func (m *Mock) Transmitted() []Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Frame, len(m.txLog))
	copy(out, m.txLog)
	return out
}

func (m *Mock) SetHealth(h Health) {
	m.mu.Lock()
	m.health = h
	m.mu.Unlock()
}

func (m *Mock) SetTransmitError(err error) {
	m.mu.Lock()
	m.transmitErr = err
	m.mu.Unlock()
}

func (m *Mock) SetRecoverError(err error) {
	m.mu.Lock()
	m.recoverErr = err
	m.mu.Unlock()
}

func (m *Mock) RecoverCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recoverN
}

func (m *Mock) Health() Health {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.health
}

// Recover brings health back to normal unless SetRecoverError was used.
func (m *Mock) Recover() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recoverN++
	if m.recoverErr != nil {
		return m.recoverErr
	}
	m.health = HealthNormal
	return nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.stop)
	}
	return nil
}
