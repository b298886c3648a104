package monitor

import (
	"context"
	"strconv"

	"github.com/juju/errors"
	"github.com/temoto/canmon/hardware/can"
	"github.com/temoto/canmon/internal/framelog"
	"github.com/temoto/canmon/internal/stat"
)

// SendFrame transmits extended frame, id and data are validated first.
func (m *Monitor) SendFrame(ctx context.Context, id uint32, data []byte) error {
	f, err := can.NewFrame(id, true, data)
	if err != nil {
		return errors.Annotate(err, "send frame")
	}
	return m.send(ctx, f)
}

// SendFrameText accepts hex id and payload as typed by a human or remote caller.
// Id longer than 3 digits or above 0x7ff is extended.
func (m *Monitor) SendFrameText(ctx context.Context, idHex, dataHex string) error {
	f, err := can.ParseFrameParts(idHex, dataHex)
	if err != nil {
		return errors.Annotate(err, "send frame")
	}
	return m.send(ctx, f)
}

func (m *Monitor) send(ctx context.Context, f can.Frame) error {
	if err := ctx.Err(); err != nil {
		return errors.Trace(err)
	}
	return m.transmit(f)
}

// transmit serializes writers of one identifier, different identifiers go in parallel.
func (m *Monitor) transmit(f can.Frame) error {
	key := strconv.FormatUint(uint64(f.ID), 16)
	if f.Extended {
		key += "x"
	}
	m.sendLock.Lock(key)
	defer m.sendLock.Unlock(key)

	if err := m.bus.Transmit(f, m.transmitTimeout); err != nil {
		m.stats.Inc(stat.TransmitFailed)
		return errors.Annotatef(err, "transmit frame=%s", f)
	}
	m.stats.Inc(stat.Transmitted)
	if !m.frames.Append(framelog.Entry{Time: m.clock.Now(), Dir: framelog.DirTx, Frame: f}) {
		m.stats.Inc(stat.Skipped)
	}
	return nil
}
