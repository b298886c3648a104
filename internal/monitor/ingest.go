package monitor

import (
	"time"

	"github.com/juju/errors"
	"github.com/temoto/canmon/hardware/can"
	"github.com/temoto/canmon/internal/framelog"
	"github.com/temoto/canmon/internal/stat"
)

var alertKinds = []struct {
	alert can.Alert
	kind  stat.Kind
}{
	{can.AlertBusOff, stat.BusOff},
	{can.AlertArbitrationLost, stat.ArbitrationLost},
	{can.AlertRxQueueFull, stat.RxQueueFull},
	{can.AlertTxQueueFull, stat.TxQueueFull},
	{can.AlertBusError, stat.BusError},
}

// Poll is one ingestion iteration: receive with timeout, then apply frame
// or check bus health. Returned error is transport failure, never timeout.
func (m *Monitor) Poll() error {
	f, err := m.bus.Receive(m.receiveTimeout)
	now := m.clock.Now()
	switch {
	case err == nil:
		m.Ingest(f, now)
		return nil
	case can.IsTimeout(err):
		m.checkHealth(now)
		return nil
	}
	return errors.Annotate(err, "receive")
}

// Ingest applies received frame to registry, watchdog, frame log and stats.
// A component whose lock wait times out misses this frame, counted as Skipped.
func (m *Monitor) Ingest(f can.Frame, now time.Time) {
	if f.IsAlert() {
		m.handleAlert(f.Alert, now)
		return
	}
	m.stats.Inc(stat.Received)
	fields := m.layout.Decode(f.ID)

	skipped := false
	if _, err := m.devices.Observe(f, fields, now); err != nil {
		skipped = true
	}
	if _, err := m.robot.Observe(f, fields, now); err != nil {
		skipped = true
	}
	if !m.frames.Append(framelog.Entry{Time: now, Dir: framelog.DirRx, Frame: f}) {
		skipped = true
	}
	if skipped {
		m.stats.Inc(stat.Skipped)
		m.log.Debugf("ingest skipped part of frame=%s", f)
	}
}

func (m *Monitor) handleAlert(a can.Alert, now time.Time) {
	for _, x := range alertKinds {
		if a.Has(x.alert) {
			m.stats.Inc(x.kind)
		}
	}
	if !m.frames.Append(framelog.Entry{Time: now, Dir: framelog.DirRx, Frame: can.AlertFrame(a)}) {
		m.stats.Inc(stat.Skipped)
	}
	m.log.Debugf("bus alert=%s", a)
	if a.Has(can.AlertBusOff) {
		m.health = can.HealthOff
		m.recover(now)
	}
}

// checkHealth turns silent transition to off into bus-off alert
// and keeps retrying recovery while bus stays off.
func (m *Monitor) checkHealth(now time.Time) {
	h := m.bus.Health()
	prev := m.health
	m.health = h
	if h != can.HealthOff {
		return
	}
	if prev != can.HealthOff {
		m.handleAlert(can.AlertBusOff, now)
		return
	}
	m.recover(now)
}

func (m *Monitor) recover(now time.Time) {
	if d := m.recovery.DelayBeforeAt(now); d > 0 {
		m.log.Debugf("bus recovery postponed delay=%v", d)
		return
	}
	m.stats.Inc(stat.Recovery)
	if err := m.bus.Recover(); err != nil {
		m.recovery.FailureAt(now)
		m.log.Error(errors.Annotate(err, "bus recovery"))
		return
	}
	m.recovery.ResetAt(now)
	m.health = m.bus.Health()
	m.log.Infof("bus recovery health=%s", m.health)
}
