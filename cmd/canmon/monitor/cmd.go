package monitor

import (
	"context"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/temoto/canmon/cmd/canmon/subcmd"
	"github.com/temoto/canmon/internal/monitor"
	"github.com/temoto/canmon/internal/state"
)

var Mod = subcmd.Mod{Name: "monitor", Usage: "run bus monitor service (default)", Main: Main}

func Main(ctx context.Context, config *state.Config, args []string) error {
	g := state.GetGlobal(ctx)
	g.MustInit(ctx, config)
	g.Log.Debugf("config=%+v", g.Config)
	g.StopOnSignal()

	m, err := monitor.New(ctx)
	if err != nil {
		return errors.Annotate(err, "monitor init")
	}

	subcmd.SdNotify(daemon.SdNotifyReady)
	g.Log.Debugf("monitor init complete")
	err = m.Run(ctx)
	if !g.StopWait(subcmd.StopTimeout) {
		g.Log.Errorf("stop timeout")
	}
	return err
}
