package tele

import (
	"context"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/canmon/internal/framelog"
	"github.com/temoto/canmon/internal/monitor"
	"github.com/temoto/canmon/internal/stat"
	"github.com/temoto/canmon/log2"
	tele_api "github.com/temoto/canmon/tele"
)

const logMsgDisabled = "tele disabled"

func (self *tele) CommandReplyErr(c *tele_api.Command, e error) {
	if !self.config.Enabled {
		self.log.Infof(logMsgDisabled)
		return
	}
	errText := ""
	if e != nil {
		errText = e.Error()
	}
	r := tele_api.Response{Error: errText}
	err := self.qpushCommandResponse(c, &r)
	if err != nil {
		self.log.Error(errors.Annotatef(err, "CRITICAL command=%#v response=%#v", c, r))
	}
}

// Error is also log2 error hook, so failures here must not go through log.Error.
// Identical consecutive messages are sent once and counted, count goes out with next Report.
func (self *tele) Error(e error) {
	if !self.config.Enabled || e == nil {
		return
	}
	msg := e.Error()
	self.mu.Lock()
	if msg == self.errLast {
		self.errRepeat++
		self.mu.Unlock()
		return
	}
	self.errLast, self.errRepeat = msg, 1
	self.mu.Unlock()

	self.log.Debugf("tele.Error: %s", errors.ErrorStack(e))
	tm := &tele_api.Telemetry{
		Error: &tele_api.Telemetry_Error{Message: msg, Count: 1},
	}
	if err := self.qpushTelemetry(tm); err != nil {
		self.log.Logf(log2.LError, "CRITICAL qpushTelemetry telemetry_error=%#v err=%v", tm.Error, err)
	}
}

// takeRepeatedError returns error repeated since last send and resets counter.
func (self *tele) takeRepeatedError() *tele_api.Telemetry_Error {
	self.mu.Lock()
	defer self.mu.Unlock()
	if self.errRepeat <= 1 {
		return nil
	}
	te := &tele_api.Telemetry_Error{Message: self.errLast, Count: self.errRepeat}
	self.errRepeat = 1
	return te
}

func (self *tele) Report(ctx context.Context) error {
	return self.report(ctx, self.config.ReportLogLimit)
}

func (self *tele) report(ctx context.Context, logLimit int) error {
	if !self.config.Enabled {
		self.log.Infof(logMsgDisabled)
		return nil
	}

	m := monitor.GetGlobal(ctx)
	if m == nil {
		return errors.Errorf("tele report: monitor is not running")
	}
	if logLimit == 0 {
		logLimit = DefaultReportLogLimit
	}
	tm, err := BuildTelemetry(m, logLimit)
	if err != nil {
		return errors.Annotate(err, "tele report")
	}
	tm.Error = self.takeRepeatedError()
	if err = self.qpushTelemetry(tm); err != nil {
		self.log.Errorf("CRITICAL qpushTelemetry tm=%#v err=%v", tm, err)
	}
	return err
}

// BuildTelemetry collects monitor snapshot. logLimit<0 omits frame log.
func BuildTelemetry(m *monitor.Monitor, logLimit int) (*tele_api.Telemetry, error) {
	st, err := m.Stats()
	if err != nil {
		return nil, err
	}
	rs, err := m.RobotStatus()
	if err != nil {
		return nil, err
	}
	ds, err := m.Devices()
	if err != nil {
		return nil, err
	}
	tm := &tele_api.Telemetry{
		Stat: &tele_api.Telemetry_Stat{
			Received:        st.Get(stat.Received),
			Transmitted:     st.Get(stat.Transmitted),
			TransmitFailed:  st.Get(stat.TransmitFailed),
			BusOff:          st.Get(stat.BusOff),
			ArbitrationLost: st.Get(stat.ArbitrationLost),
			RxQueueFull:     st.Get(stat.RxQueueFull),
			TxQueueFull:     st.Get(stat.TxQueueFull),
			BusError:        st.Get(stat.BusError),
			Recovery:        st.Get(stat.Recovery),
			Skipped:         st.Get(stat.Skipped),
			UptimeSec:       uint64(st.Uptime / time.Second),
		},
		Robot: &tele_api.Telemetry_Robot{
			State:           monitor.TeleState(rs.State),
			Enabled:         rs.Enabled,
			HeartbeatActive: rs.HeartbeatActive,
			SinceMs:         int64(rs.Since / time.Millisecond),
			BusHealth:       rs.Bus.String(),
			DeviceNumber:    uint32(rs.DeviceNumber),
		},
		Devices: make([]*tele_api.Telemetry_Device, 0, len(ds)),
	}
	layout := m.Layout()
	for _, d := range ds {
		tm.Devices = append(tm.Devices, &tele_api.Telemetry_Device{
			Id:           d.ID,
			Extended:     d.Extended,
			DeviceType:   uint32(d.Fields.DeviceType),
			Manufacturer: uint32(d.Fields.Manufacturer),
			Api:          uint32(layout.APIValue(d.Fields)),
			DeviceNumber: uint32(d.Fields.DeviceNumber),
			Count:        d.Count,
			FirstSeen:    d.FirstSeen.UnixNano(),
			LastSeen:     d.LastSeen.UnixNano(),
			LastData:     d.LastData,
		})
	}
	if logLimit >= 0 {
		es, err := m.LogEntries(logLimit)
		if err != nil {
			return nil, err
		}
		tm.Log = make([]*tele_api.Telemetry_LogEntry, 0, len(es))
		for _, e := range es {
			tm.Log = append(tm.Log, &tele_api.Telemetry_LogEntry{
				Time:     e.Time.UnixNano(),
				Tx:       e.Dir == framelog.DirTx,
				Id:       e.Frame.ID,
				Extended: e.Frame.Extended,
				Data:     e.Frame.Payload(),
				Alert:    uint32(e.Frame.Alert),
			})
		}
	}
	return tm, nil
}

// State messages are sent on change only in background, may be lost.
// Called from relay task, must not wait for network.
func (self *tele) State(s tele_api.State) {
	self.mu.Lock()
	changed := self.currentState != s
	self.currentState = s
	self.mu.Unlock()
	if changed && self.config.Enabled && self.stateCh != nil {
		self.pushState(s)
	}
}
