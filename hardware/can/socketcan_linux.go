//go:build linux

package can

import (
	stderrors "errors"
	"fmt"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	socketcan "github.com/FabianPetersen/can"
	"github.com/avast/retry-go"
	"github.com/juju/errors"
	"github.com/temoto/canmon/log2"
	"golang.org/x/sys/unix"
)

// SocketCAN reads frames in background into bounded queue.
// Queue overflow is reported once as AlertRxQueueFull frame.
type SocketCAN struct {
	name     string
	log      *log2.Log
	attempts uint
	delay    time.Duration

	mu   sync.Mutex
	bus  *socketcan.Bus
	gen  uint32
	rx   chan Frame
	stop chan struct{}

	overflow   uint32 // atomic
	txAlert    uint32 // atomic
	recovering uint32 // atomic
	closeOnce  sync.Once
}

var _ Bus = &SocketCAN{}

func OpenSocketCAN(c *Config, log *log2.Log) (*SocketCAN, error) {
	s := &SocketCAN{
		name:     c.Interface,
		log:      log,
		attempts: c.RecoverAttempts(),
		delay:    c.RecoverDelay(),
		rx:       make(chan Frame, c.queueSize()),
		stop:     make(chan struct{}),
	}
	if err := s.connect(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SocketCAN) connect() error {
	rwc, err := openRaw(s.name)
	if err != nil {
		return errors.Annotatef(err, "socketcan open interface=%s", s.name)
	}
	b := socketcan.NewBus(rwc, s.name)
	s.mu.Lock()
	s.bus = b
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	b.SubscribeFunc(s.handle)
	go func() {
		// returns on read error or Disconnect
		err := b.ConnectAndPublish()
		s.mu.Lock()
		current := s.gen == gen
		s.mu.Unlock()
		select {
		case <-s.stop:
			return
		default:
		}
		if err != nil && current {
			s.log.Errorf("socketcan interface=%s read err=%v", s.name, err)
		}
	}()
	s.log.Debugf("socketcan interface=%s connected gen=%d", s.name, gen)
	return nil
}

// openRaw is CAN_RAW socket bound to interface with all error classes enabled,
// otherwise kernel drops error frames and alerts never arrive.
func openRaw(name string) (socketcan.ReadWriteCloser, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil, err
	}
	fd, err := newRawSocket()
	if err != nil {
		return nil, err
	}
	if err = unix.Bind(fd, &unix.SockaddrCAN{Ifindex: iface.Index}); err != nil {
		_ = unix.Close(fd)
		return nil, errors.Annotate(err, "bind")
	}
	return socketcan.NewReadWriteCloser(os.NewFile(uintptr(fd), fmt.Sprintf("can %s fd %d", name, fd))), nil
}

func newRawSocket() (int, error) {
	fd, err := unix.Socket(unix.AF_CAN, unix.SOCK_RAW, unix.CAN_RAW)
	if err != nil {
		return -1, errors.Annotate(err, "socket")
	}
	if err = unix.SetsockoptInt(fd, unix.SOL_CAN_RAW, unix.CAN_RAW_ERR_FILTER, unix.CAN_ERR_MASK); err != nil {
		_ = unix.Close(fd)
		return -1, errors.Annotate(err, "setsockopt CAN_RAW_ERR_FILTER")
	}
	return fd, nil
}

func (s *SocketCAN) handle(raw socketcan.Frame) {
	f := fromRaw(raw)
	if f.IsAlert() {
		s.log.Debugf("socketcan interface=%s error frame id=%08x data=%x alert=%s", s.name, raw.ID, raw.Data, f.Alert.String())
	} else if raw.ID&MaskErr != 0 {
		return
	}
	select {
	case s.rx <- f:
	default:
		atomic.StoreUint32(&s.overflow, 1)
	}
}

func fromRaw(raw socketcan.Frame) Frame {
	if raw.ID&MaskErr != 0 {
		return AlertFrame(AlertFromErrorFrame(raw.ID&MaskExtID, raw.Data))
	}
	f := Frame{
		Extended: raw.ID&MaskEff != 0,
		RTR:      raw.ID&MaskRtr != 0,
		Len:      raw.Length,
		Data:     raw.Data,
	}
	if f.Len > MaxDataLen {
		f.Len = MaxDataLen
	}
	if f.Extended {
		f.ID = raw.ID & MaskExtID
	} else {
		f.ID = raw.ID & MaskStdID
	}
	return f
}

func toRaw(f Frame) socketcan.Frame {
	raw := socketcan.Frame{Length: f.Len, Data: f.Data}
	if f.Extended {
		raw.ID = f.ID&MaskExtID | MaskEff
	} else {
		raw.ID = f.ID & MaskStdID
	}
	if f.RTR {
		raw.ID |= MaskRtr
	}
	return raw
}

func (s *SocketCAN) Receive(timeout time.Duration) (Frame, error) {
	if atomic.CompareAndSwapUint32(&s.overflow, 1, 0) {
		return AlertFrame(AlertRxQueueFull), nil
	}
	if atomic.CompareAndSwapUint32(&s.txAlert, 1, 0) {
		return AlertFrame(AlertTxQueueFull), nil
	}
	select {
	case f := <-s.rx:
		return f, nil
	case <-s.stop:
		return Frame{}, ErrClosed
	default:
	}
	tmr := time.NewTimer(timeout)
	defer tmr.Stop()
	select {
	case f := <-s.rx:
		return f, nil
	case <-tmr.C:
		return Frame{}, ErrTimeout
	case <-s.stop:
		return Frame{}, ErrClosed
	}
}

func (s *SocketCAN) Transmit(f Frame, timeout time.Duration) error {
	if f.IsAlert() {
		return errors.NotValidf("transmit alert frame")
	}
	s.mu.Lock()
	b := s.bus
	s.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- b.Publish(toRaw(f)) }()
	tmr := time.NewTimer(timeout)
	defer tmr.Stop()
	select {
	case err := <-done:
		if err != nil && stderrors.Is(err, unix.ENOBUFS) {
			atomic.StoreUint32(&s.txAlert, 1)
		}
		return errors.Annotatef(err, "socketcan transmit %s", f.String())
	case <-tmr.C:
		return ErrTimeout
	case <-s.stop:
		return ErrClosed
	}
}

func (s *SocketCAN) Health() Health {
	if atomic.LoadUint32(&s.recovering) != 0 {
		return HealthRecovering
	}
	flags, err := ifaceFlags(s.name)
	if err != nil {
		s.log.Debugf("socketcan health err=%v", err)
		return HealthOff
	}
	return healthFromFlags(flags)
}

// Recover cycles interface down/up and reopens socket.
// Concurrent calls while recovery is in progress return nil immediately.
func (s *SocketCAN) Recover() error {
	if !atomic.CompareAndSwapUint32(&s.recovering, 0, 1) {
		return nil
	}
	defer atomic.StoreUint32(&s.recovering, 0)

	s.log.Infof("socketcan interface=%s recovery begin", s.name)
	err := retry.Do(func() error {
		if err := setIfaceUp(s.name, false); err != nil {
			return err
		}
		return setIfaceUp(s.name, true)
	},
		retry.Attempts(s.attempts),
		retry.Delay(s.delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			s.log.Debugf("socketcan interface=%s recovery attempt=%d err=%v", s.name, n, err)
		}),
	)
	if err != nil {
		return errors.Annotatef(err, "socketcan recover interface=%s", s.name)
	}

	s.mu.Lock()
	old := s.bus
	s.mu.Unlock()
	if old != nil {
		_ = old.Disconnect()
	}
	return s.connect()
}

func (s *SocketCAN) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stop)
		s.mu.Lock()
		b := s.bus
		s.mu.Unlock()
		if b != nil {
			err = b.Disconnect()
		}
	})
	return errors.Annotate(err, "socketcan close")
}
