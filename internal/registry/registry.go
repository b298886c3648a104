// Package registry tracks devices seen on the bus, keyed by raw identifier.
package registry

import (
	"time"

	"github.com/juju/errors"
	"github.com/temoto/canmon/frc"
	"github.com/temoto/canmon/hardware/can"
	"github.com/temoto/canmon/helpers"
	"golang.org/x/exp/slices"
)

const DefaultMaxDevices = 128

type Device struct {
	ID        uint32
	Extended  bool
	Fields    frc.Fields
	Count     uint64
	FirstSeen time.Time
	LastSeen  time.Time
	LastData  []byte
}

// Active is presentation helper, not stored state.
func (d *Device) Active(now time.Time, threshold time.Duration) bool {
	return now.Sub(d.LastSeen) < threshold
}

type Options struct {
	MaxDevices  int
	LockTimeout time.Duration
	// Exclude returns true for frames not tracked, nil tracks everything.
	Exclude func(can.Frame) bool
}

type key uint64

func keyOf(id uint32, extended bool) key {
	k := key(id)
	if extended {
		k |= 1 << 32
	}
	return k
}

type record struct {
	id        uint32
	extended  bool
	fields    frc.Fields
	count     uint64
	firstSeen time.Time
	lastSeen  time.Time
	data      [can.MaxDataLen]byte
	dataLen   uint8
}

func (r *record) device() Device {
	d := Device{
		ID:        r.id,
		Extended:  r.extended,
		Fields:    r.fields,
		Count:     r.count,
		FirstSeen: r.firstSeen,
		LastSeen:  r.lastSeen,
		LastData:  make([]byte, r.dataLen),
	}
	copy(d.LastData, r.data[:r.dataLen])
	return d
}

type Registry struct {
	mu  *helpers.TimedMutex
	opt Options
	m   map[key]*record
}

func New(opt Options) *Registry {
	if opt.MaxDevices <= 0 {
		opt.MaxDevices = DefaultMaxDevices
	}
	return &Registry{
		mu:  helpers.NewTimedMutex(),
		opt: opt,
		m:   make(map[key]*record, opt.MaxDevices),
	}
}

// Observe creates or refreshes record for frame.
// Returns false if frame was excluded, registry is full or lock wait timed out.
// Only lock timeout returns error.
func (r *Registry) Observe(f can.Frame, fields frc.Fields, now time.Time) (bool, error) {
	if f.IsAlert() {
		return false, nil
	}
	if r.opt.Exclude != nil && r.opt.Exclude(f) {
		return false, nil
	}
	if !r.mu.LockTimeout(r.opt.LockTimeout) {
		return false, errors.Timeoutf("registry lock")
	}
	defer r.mu.Unlock()

	k := keyOf(f.ID, f.Extended)
	rec, ok := r.m[k]
	if !ok {
		if len(r.m) >= r.opt.MaxDevices {
			return false, nil
		}
		rec = &record{id: f.ID, extended: f.Extended, fields: fields, firstSeen: now}
		r.m[k] = rec
	}
	rec.count++
	rec.lastSeen = now
	rec.data = f.Data
	rec.dataLen = f.Len
	return true, nil
}

// Snapshot returns deep copy sorted by identifier, standard frames first.
func (r *Registry) Snapshot() ([]Device, error) {
	if !r.mu.LockTimeout(r.opt.LockTimeout) {
		return nil, errors.Timeoutf("registry lock")
	}
	ds := make([]Device, 0, len(r.m))
	for _, rec := range r.m {
		ds = append(ds, rec.device())
	}
	r.mu.Unlock()

	slices.SortFunc(ds, func(a, b Device) int {
		ka, kb := keyOf(a.ID, a.Extended), keyOf(b.ID, b.Extended)
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		}
		return 0
	})
	return ds, nil
}

func (r *Registry) Get(id uint32, extended bool) (Device, bool, error) {
	if !r.mu.LockTimeout(r.opt.LockTimeout) {
		return Device{}, false, errors.Timeoutf("registry lock")
	}
	defer r.mu.Unlock()
	rec, ok := r.m[keyOf(id, extended)]
	if !ok {
		return Device{}, false, nil
	}
	return rec.device(), true, nil
}

func (r *Registry) Len() (int, error) {
	if !r.mu.LockTimeout(r.opt.LockTimeout) {
		return 0, errors.Timeoutf("registry lock")
	}
	n := len(r.m)
	r.mu.Unlock()
	return n, nil
}

// CountActive is number of devices seen within threshold.
func (r *Registry) CountActive(now time.Time, threshold time.Duration) (int, error) {
	if !r.mu.LockTimeout(r.opt.LockTimeout) {
		return 0, errors.Timeoutf("registry lock")
	}
	n := 0
	for _, rec := range r.m {
		if now.Sub(rec.lastSeen) < threshold {
			n++
		}
	}
	r.mu.Unlock()
	return n, nil
}

func (r *Registry) Reset() error {
	if !r.mu.LockTimeout(r.opt.LockTimeout) {
		return errors.Timeoutf("registry lock")
	}
	r.m = make(map[key]*record, r.opt.MaxDevices)
	r.mu.Unlock()
	return nil
}
