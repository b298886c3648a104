package devnum

import (
	"context"
	"fmt"
	"strconv"

	"github.com/juju/errors"
	"github.com/temoto/canmon/cmd/canmon/subcmd"
	"github.com/temoto/canmon/internal/monitor"
	"github.com/temoto/canmon/internal/state"
)

var Mod = subcmd.Mod{Name: "devnum", Usage: "[N] show or store monitor device number", Main: Main}

func Main(ctx context.Context, config *state.Config, args []string) error {
	g := state.GetGlobal(ctx)
	config.Beacon.Disable = true
	g.MustInit(ctx, config)
	defer g.StopWait(subcmd.StopTimeout)

	m, err := monitor.New(ctx)
	if err != nil {
		return errors.Annotate(err, "monitor init")
	}
	if len(args) == 0 {
		fmt.Printf("%d\n", m.DeviceNumber())
		return nil
	}
	return Set(m, args[0])
}

// Set applies and persists device number from text.
func Set(m *monitor.Monitor, s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return errors.NotValidf("device number=%q", s)
	}
	if err = m.SetDeviceNumber(n); err != nil {
		return err
	}
	return m.SaveDeviceNumber()
}
