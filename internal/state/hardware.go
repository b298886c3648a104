package state

import (
	"sync"
	"sync/atomic"

	"github.com/juju/errors"
	"github.com/temoto/canmon/hardware/can"
	"github.com/temoto/canmon/hardware/relay"
)

type hardware struct {
	Can struct {
		once
		Bus can.Bus
	}
	Relay struct {
		once
		Output relay.Output
	}
}

// Bus opens configured CAN driver once.
func (g *Global) Bus() (can.Bus, error) {
	x := &g.Hardware.Can // short alias
	_ = x.do(func() error {
		if x.Bus != nil { // state_new testing mode
			return nil
		}
		bus, err := can.Open(&g.Config.Can, g.Log)
		if err != nil {
			return errors.Annotatef(err, "config: can driver=%s interface=%s", g.Config.Can.Driver, g.Config.Can.Interface)
		}
		x.Bus = bus
		return nil
	})
	return x.Bus, x.err
}

// Relay opens relay output once, logging output when disabled.
func (g *Global) Relay() (relay.Output, error) {
	x := &g.Hardware.Relay // short alias
	_ = x.do(func() error {
		if x.Output != nil { // state_new testing mode
			return nil
		}
		out, err := relay.Open(&g.Config.Relay, g.Log)
		if err != nil {
			return errors.Annotatef(err, "config: relay pin_chip=%s pin=%s", g.Config.Relay.PinChip, g.Config.Relay.Pin)
		}
		x.Output = out
		return nil
	})
	return x.Output, x.err
}

type once struct {
	sync.Mutex
	called uint32 // atomic bool
	err    error
}

func (o *once) done() bool {
	return atomic.LoadUint32(&o.called) == 1
}

func (o *once) do(f func() error) error {
	if o.done() { // fast path
		return o.err
	}
	o.Lock()
	defer o.Unlock()
	if o.done() {
		return o.err
	}
	o.err = f()
	atomic.StoreUint32(&o.called, 1)
	return o.err
}
