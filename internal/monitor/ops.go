package monitor

import (
	"github.com/juju/errors"
	"github.com/temoto/canmon/frc"
	"github.com/temoto/canmon/hardware/can"
	"github.com/temoto/canmon/internal/framelog"
	"github.com/temoto/canmon/internal/registry"
	"github.com/temoto/canmon/internal/stat"
	"github.com/temoto/canmon/internal/watchdog"
)

type RobotStatus struct {
	watchdog.Status
	Bus          can.Health
	DeviceNumber uint8
}

func (m *Monitor) Stats() (stat.Snapshot, error) {
	s, err := m.stats.Snapshot()
	return s, errors.Annotate(err, "stats")
}

// Devices is registry snapshot sorted by identifier.
func (m *Monitor) Devices() ([]registry.Device, error) {
	ds, err := m.devices.Snapshot()
	return ds, errors.Annotate(err, "devices")
}

// ActiveDevices counts devices seen within registry.active_ms.
func (m *Monitor) ActiveDevices() (int, error) {
	n, err := m.devices.CountActive(m.clock.Now(), m.activeThreshold)
	return n, errors.Annotate(err, "active devices")
}

func (m *Monitor) RobotStatus() (RobotStatus, error) {
	s, err := m.robot.Status(m.clock.Now())
	if err != nil {
		return RobotStatus{}, errors.Annotate(err, "robot status")
	}
	return RobotStatus{
		Status:       s,
		Bus:          m.bus.Health(),
		DeviceNumber: m.DeviceNumber(),
	}, nil
}

// LogEntries returns newest limit entries oldest first, limit<=0 means all.
func (m *Monitor) LogEntries(limit int) ([]framelog.Entry, error) {
	es, err := m.frames.Export(limit)
	return es, errors.Annotate(err, "log entries")
}

func (m *Monitor) ClearLog() error {
	return errors.Annotate(m.frames.Clear(), "clear log")
}

func (m *Monitor) ResetStats(resetUptime bool) error {
	return errors.Annotate(m.stats.Reset(resetUptime), "reset stats")
}

// ResetStatsDefault uses stat.reset_uptime from config.
func (m *Monitor) ResetStatsDefault() error { return m.ResetStats(m.resetUptime) }

func (m *Monitor) ResetDevices() error {
	return errors.Annotate(m.devices.Reset(), "reset devices")
}

// Layout is identifier layout this monitor decodes with.
func (m *Monitor) Layout() frc.Layout { return m.layout }
