package console

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	prompt "github.com/c-bata/go-prompt"
	"github.com/golang/protobuf/proto"
	"github.com/juju/errors"
	"github.com/temoto/canmon/cmd/canmon/subcmd"
	"github.com/temoto/canmon/helpers/cli"
	"github.com/temoto/canmon/internal/monitor"
	"github.com/temoto/canmon/internal/state"
	"github.com/temoto/canmon/internal/tele"
)

const modName = "cli"

const usage = `commands:
- stats              event counters and uptime
- devices            discovered devices
- status             robot state, bus health, device number
- log [N]            last N frame log entries (default 20)
- clear              clear frame log
- reset-stats [uptime]
- reset-devices
- send ID#HEX        transmit frame, e.g. send 0A081801#0102
- devnum [N]         show or set monitor device number
- save               store device number
- report             telemetry snapshot as text
`

const defaultLogLines = 20

var Mod = subcmd.Mod{Name: modName, Usage: "interactive console with running monitor", Main: Main}

func Main(ctx context.Context, config *state.Config, args []string) error {
	g := state.GetGlobal(ctx)
	g.MustInit(ctx, config)

	m, err := monitor.New(ctx)
	if err != nil {
		return errors.Annotate(err, "monitor init")
	}
	go func() {
		if err := m.Run(ctx); err != nil {
			g.Log.Error(err)
		}
	}()

	exec := func(line string) {
		out, err := Exec(ctx, m, line)
		if err != nil {
			g.Log.Errorf(errors.ErrorStack(err))
			return
		}
		if out != "" {
			fmt.Print(out)
		}
	}
	onSignal := func(os.Signal) {
		g.StopWait(subcmd.StopTimeout)
		os.Exit(0)
	}
	err = cli.MainLoop("canmon", exec, newCompleter(), onSignal)
	g.StopWait(subcmd.StopTimeout)
	return err
}

func newCompleter() func(d prompt.Document) []prompt.Suggest {
	suggests := []prompt.Suggest{
		{Text: "stats", Description: "event counters"},
		{Text: "devices", Description: "discovered devices"},
		{Text: "status", Description: "robot state"},
		{Text: "log", Description: "frame log, optional N"},
		{Text: "clear", Description: "clear frame log"},
		{Text: "reset-stats", Description: "zero counters, optional uptime"},
		{Text: "reset-devices", Description: "forget devices"},
		{Text: "send", Description: "send ID#HEX"},
		{Text: "devnum", Description: "device number, optional N"},
		{Text: "save", Description: "store device number"},
		{Text: "report", Description: "telemetry snapshot"},
		{Text: "help"},
	}
	return func(d prompt.Document) []prompt.Suggest {
		return prompt.FilterHasPrefix(suggests, d.GetWordBeforeCursor(), true)
	}
}

// Exec runs one console line and returns printable output.
func Exec(ctx context.Context, m *monitor.Monitor, line string) (string, error) {
	words := strings.Fields(line)
	if len(words) == 0 {
		return "", nil
	}
	cmd, args := words[0], words[1:]
	b := strings.Builder{}

	switch cmd {
	case "help", "?":
		return usage, nil

	case "stats":
		s, err := m.Stats()
		if err != nil {
			return "", err
		}
		return s.String() + "\n", nil

	case "devices":
		ds, err := m.Devices()
		if err != nil {
			return "", err
		}
		now := state.GetGlobal(ctx).Clock.Now()
		threshold := state.GetGlobal(ctx).Config.ActiveThreshold()
		for _, d := range ds {
			mark := ""
			if d.Active(now, threshold) {
				mark = " active"
			}
			f := d.Fields
			fmt.Fprintf(&b, "%08X type=%d manufacturer=%d api=%03x number=%d count=%d last=%s data=%X%s\n",
				d.ID, f.DeviceType, f.Manufacturer, m.Layout().APIValue(f), f.DeviceNumber,
				d.Count, d.LastSeen.Format("15:04:05.000"), d.LastData, mark)
		}
		fmt.Fprintf(&b, "total=%d\n", len(ds))
		return b.String(), nil

	case "status":
		rs, err := m.RobotStatus()
		if err != nil {
			return "", err
		}
		active, err := m.ActiveDevices()
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "state=%s enabled=%t heartbeat=%t since=%s bus=%s device_number=%d active_devices=%d\n",
			rs.State, rs.Enabled, rs.HeartbeatActive, rs.Since.Truncate(time.Millisecond), rs.Bus, rs.DeviceNumber, active)
		return b.String(), nil

	case "log":
		n := defaultLogLines
		if len(args) > 0 {
			x, err := strconv.Atoi(args[0])
			if err != nil || x < 0 {
				return "", errors.NotValidf("log lines=%q", args[0])
			}
			n = x
		}
		es, err := m.LogEntries(n)
		if err != nil {
			return "", err
		}
		for _, e := range es {
			b.WriteString(e.String())
			b.WriteByte('\n')
		}
		return b.String(), nil

	case "clear":
		return "", m.ClearLog()

	case "reset-stats":
		if len(args) > 0 {
			if args[0] != "uptime" {
				return "", errors.NotValidf("reset-stats arg=%q", args[0])
			}
			return "", m.ResetStats(true)
		}
		return "", m.ResetStatsDefault()

	case "reset-devices":
		return "", m.ResetDevices()

	case "send":
		if len(args) != 1 {
			return "", errors.NotValidf("send expects ID#HEX")
		}
		parts := strings.SplitN(args[0], "#", 2)
		if len(parts) != 2 {
			return "", errors.NotValidf("send frame=%q expected ID#HEX", args[0])
		}
		return "", m.SendFrameText(ctx, parts[0], parts[1])

	case "devnum":
		if len(args) == 0 {
			return fmt.Sprintf("%d\n", m.DeviceNumber()), nil
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return "", errors.NotValidf("device number=%q", args[0])
		}
		return "", m.SetDeviceNumber(n)

	case "save":
		return "", m.SaveDeviceNumber()

	case "report":
		tm, err := tele.BuildTelemetry(m, defaultLogLines)
		if err != nil {
			return "", err
		}
		return proto.MarshalTextString(tm), nil
	}
	return "", errors.NotFoundf("command=%q, try help", cmd)
}
