package monitor

import (
	"sync/atomic"

	"github.com/juju/errors"
	"github.com/temoto/canmon/frc"
	"github.com/temoto/canmon/internal/state"
)

const deviceNumberPersistTag = "device"

// deviceNumber is 1 byte persisted value, invalid stored byte loads as default.
type deviceNumber struct {
	v        uint32 // atomic
	fellBack bool
}

func (d *deviceNumber) Load() uint8   { return uint8(atomic.LoadUint32(&d.v)) }
func (d *deviceNumber) Store(n uint8) { atomic.StoreUint32(&d.v, uint32(n)) }

func (d *deviceNumber) MarshalBinary() ([]byte, error) {
	return []byte{d.Load()}, nil
}

func (d *deviceNumber) UnmarshalBinary(b []byte) error {
	if len(b) != 1 {
		return errors.NotValidf("device number length=%d", len(b))
	}
	n := b[0]
	d.fellBack = n > frc.MaxDeviceNumber
	if d.fellBack {
		n = state.DefaultDeviceNumber
	}
	d.Store(n)
	return nil
}

func (m *Monitor) initDeviceNumber() error {
	cfg := m.g.Config
	m.devnum.Store(cfg.DeviceNumber())
	err := m.devnumPersist.Init(deviceNumberPersistTag, &m.devnum, cfg.Persist.Root, true, m.log)
	if err != nil {
		return errors.Annotate(err, "device number")
	}
	found, err := m.devnumPersist.Load()
	if err != nil {
		// keep config value, nothing in core is fatal
		m.log.Error(errors.Annotate(err, "device number"))
		return nil
	}
	if found && m.devnum.fellBack {
		m.log.Errorf("device number stored value invalid, using default=%d", state.DefaultDeviceNumber)
	}
	m.log.Debugf("device number=%d stored=%t", m.devnum.Load(), found)
	return nil
}

func (m *Monitor) DeviceNumber() uint8 { return m.devnum.Load() }

// SetDeviceNumber applies immediately, see SaveDeviceNumber for durable store.
func (m *Monitor) SetDeviceNumber(n int) error {
	if n < 0 || n > frc.MaxDeviceNumber {
		return errors.NotValidf("device number=%d (valid 0-%d)", n, frc.MaxDeviceNumber)
	}
	m.devnum.Store(uint8(n))
	m.log.Infof("device number set=%d", n)
	return nil
}

// SaveDeviceNumber durably stores current value.
func (m *Monitor) SaveDeviceNumber() error {
	return errors.Annotate(m.devnumPersist.Store(), "save device number")
}
