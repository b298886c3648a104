package can

import (
	"time"

	"github.com/juju/errors"
)

type Health uint8

const (
	HealthNormal Health = iota
	HealthRecovering
	HealthOff
)

func (h Health) String() string {
	switch h {
	case HealthNormal:
		return "normal"
	case HealthRecovering:
		return "recovering"
	case HealthOff:
		return "off"
	}
	return "invalid"
}

// ErrTimeout means nothing happened within timeout, it is not a failure.
var ErrTimeout = errors.New("can timeout")
var ErrClosed = errors.New("can bus closed")

func IsTimeout(err error) bool { return err != nil && errors.Cause(err) == ErrTimeout }
func IsClosed(err error) bool  { return err != nil && errors.Cause(err) == ErrClosed }

// Bus is the transport consumed by monitor.
// Every blocking call is bounded by timeout.
type Bus interface {
	// Receive returns ErrTimeout when no frame arrived.
	// Bus conditions are delivered as frames with non-zero Alert.
	Receive(timeout time.Duration) (Frame, error)
	Transmit(f Frame, timeout time.Duration) error
	Health() Health
	// Recover requests bus-off recovery, may block for retry delays.
	Recover() error
	Close() error
}
