package tele

import (
	"context"
	"fmt"

	"github.com/golang/protobuf/proto"
	"github.com/juju/errors"
	"github.com/temoto/canmon/internal/monitor"
	"github.com/temoto/canmon/internal/state"
	tele_api "github.com/temoto/canmon/tele"
)

var (
	errInvalidArg = fmt.Errorf("invalid arg")
	errNoMonitor  = fmt.Errorf("monitor is not running")
)

func (self *tele) onCommandMessage(ctx context.Context, payload []byte) bool {
	cmd := new(tele_api.Command)
	err := proto.Unmarshal(payload, cmd)
	if err != nil {
		self.log.Errorf("tele command parse raw=%x err=%v", payload, err)
		return true
	}
	self.log.Debugf("tele command raw=%x task=%s", payload, cmd.String())

	now := state.GetGlobal(ctx).Clock.Now().UnixNano()
	if cmd.Deadline != 0 && now > cmd.Deadline {
		self.CommandReplyErr(cmd, fmt.Errorf("deadline"))
	} else {
		err = self.dispatchCommand(ctx, cmd)
		self.CommandReplyErr(cmd, err)
	}

	return true
}

func (self *tele) dispatchCommand(ctx context.Context, cmd *tele_api.Command) error {
	if cmd.Report != nil {
		return self.cmdReport(ctx, cmd.Report)
	}

	m := monitor.GetGlobal(ctx)
	if m == nil {
		return errNoMonitor
	}
	switch {
	case cmd.ClearLog != nil:
		return m.ClearLog()

	case cmd.ResetStats != nil:
		return self.cmdResetStats(m, cmd.ResetStats)

	case cmd.ResetDevices != nil:
		return m.ResetDevices()

	case cmd.SendFrame != nil:
		return m.SendFrameText(ctx, cmd.SendFrame.Id, cmd.SendFrame.Data)

	case cmd.SetDeviceNumber != nil:
		return self.cmdSetDeviceNumber(m, cmd.SetDeviceNumber)

	default:
		err := fmt.Errorf("unknown command=%s", cmd.String())
		self.log.Error(err)
		return err
	}
}

func (self *tele) cmdReport(ctx context.Context, arg *tele_api.Command_ArgReport) error {
	limit := int(arg.LogLimit)
	if limit == 0 {
		limit = self.config.ReportLogLimit
	}
	return errors.Annotate(self.report(ctx, limit), "cmdReport")
}

func (self *tele) cmdResetStats(m *monitor.Monitor, arg *tele_api.Command_ArgResetStats) error {
	switch arg.Uptime {
	case tele_api.Command_Default:
		return m.ResetStatsDefault()
	case tele_api.Command_Keep:
		return m.ResetStats(false)
	case tele_api.Command_Reset:
		return m.ResetStats(true)
	}
	return errInvalidArg
}

func (self *tele) cmdSetDeviceNumber(m *monitor.Monitor, arg *tele_api.Command_ArgSetDeviceNumber) error {
	if err := m.SetDeviceNumber(int(arg.Number)); err != nil {
		return err
	}
	if arg.Save {
		return m.SaveDeviceNumber()
	}
	return nil
}
