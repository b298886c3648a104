package monitor

import (
	"encoding/binary"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/canmon/frc"
	"github.com/temoto/canmon/hardware/can"
	"github.com/temoto/canmon/internal/stat"
)

const (
	StatusBitEnabled   = 0x01
	StatusBitHeartbeat = 0x02
	StatusBitBusNormal = 0x04
)

// BeaconID encodes identifier for this monitor with given 10-bit api.
func (m *Monitor) BeaconID(api uint16) uint32 {
	f := frc.Fields{
		DeviceType:   frc.MonitorSignature.DeviceType,
		Manufacturer: frc.MonitorSignature.Manufacturer,
		DeviceNumber: m.DeviceNumber(),
	}
	return m.layout.Encode(m.layout.WithAPI(f, api))
}

// HeartbeatPayload is uptime seconds uint32 LE followed by sequence byte.
func HeartbeatPayload(uptime time.Duration, seq uint8) []byte {
	b := make([]byte, 5)
	binary.LittleEndian.PutUint32(b[0:4], uint32(uptime/time.Second))
	b[4] = seq
	return b
}

// StatusPayload layout:
// byte0 flags (StatusBit*), byte1 active devices capped at 255,
// bytes2-5 received frames uint32 LE, bytes6-7 bus-off count uint16 LE.
func StatusPayload(enabled, heartbeat, busNormal bool, active int, received, busOff uint64) []byte {
	b := make([]byte, can.MaxDataLen)
	if enabled {
		b[0] |= StatusBitEnabled
	}
	if heartbeat {
		b[0] |= StatusBitHeartbeat
	}
	if busNormal {
		b[0] |= StatusBitBusNormal
	}
	if active > 0xff {
		active = 0xff
	}
	if active > 0 {
		b[1] = uint8(active)
	}
	binary.LittleEndian.PutUint32(b[2:6], uint32(received))
	if busOff > 0xffff {
		busOff = 0xffff
	}
	binary.LittleEndian.PutUint16(b[6:8], uint16(busOff))
	return b
}

func (m *Monitor) heartbeatTick(now time.Time) {
	m.heartbeatSeq++
	payload := HeartbeatPayload(m.stats.Uptime(), m.heartbeatSeq)
	m.sendBeacon(frc.APIHeartbeat, payload)
}

func (m *Monitor) statusTick(now time.Time) {
	ws, err := m.robot.Status(now)
	if err != nil {
		m.log.Debugf("beacon status skip err=%v", err)
		return
	}
	active, err := m.devices.CountActive(now, m.activeThreshold)
	if err != nil {
		m.log.Debugf("beacon status skip err=%v", err)
		return
	}
	ss, err := m.stats.Snapshot()
	if err != nil {
		m.log.Debugf("beacon status skip err=%v", err)
		return
	}
	payload := StatusPayload(ws.Enabled, ws.HeartbeatActive, m.bus.Health() == can.HealthNormal,
		active, ss.Get(stat.Received), ss.Get(stat.BusOff))
	m.sendBeacon(frc.APIStatus, payload)
}

func (m *Monitor) sendBeacon(api uint16, payload []byte) {
	f, err := can.NewFrame(m.BeaconID(api), true, payload)
	if err != nil {
		m.log.Error(errors.Annotatef(err, "code error beacon api=%03x", api))
		return
	}
	if err := m.transmit(f); err != nil {
		m.log.Debugf("beacon api=%03x err=%v", api, err)
	}
}

func (m *Monitor) relayTick(now time.Time) {
	ws, err := m.robot.Poll(now)
	if err != nil {
		m.log.Debugf("relay skip err=%v", err)
		return
	}
	on := ws.State.Output(now, m.flash)
	err = m.relay.Set(on)
	m.reportRelayError(err)
}

// reportRelayError logs only changes, relay task runs every few milliseconds.
func (m *Monitor) reportRelayError(err error) {
	var s string
	if err != nil {
		s = err.Error()
	}
	if s == m.relayErr {
		return
	}
	m.relayErr = s
	if err != nil {
		m.log.Error(errors.Annotate(err, "relay"))
	} else {
		m.log.Infof("relay output restored")
	}
}
