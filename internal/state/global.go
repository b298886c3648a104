package state

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/canmon/helpers"
	"github.com/temoto/canmon/log2"
	tele_api "github.com/temoto/canmon/tele"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Global struct {
	Alive        *alive.Alive
	BuildVersion string
	Clock        helpers.Clock
	Config       *Config
	Hardware     hardware // hardware.go
	Log          *log2.Log
	Tele         tele_api.Teler

	logFile io.Closer

	XXX_monitor atomic.Value // *monitor.Monitor crutch to import cycle

	_copy_guard sync.Mutex //nolint:unused
}

const ContextKey = "run/state-global"

func GetGlobal(ctx context.Context) *Global {
	v := ctx.Value(ContextKey)
	if v == nil {
		panic(fmt.Sprintf("context['%s'] is nil", ContextKey))
	}
	if g, ok := v.(*Global); ok {
		return g
	}
	panic(fmt.Sprintf("context['%s'] expected type *Global actual=%#v", ContextKey, v))
}

// If `Init` fails, consider `Global` is in broken state.
func (g *Global) Init(ctx context.Context, cfg *Config) error {
	g.Config = cfg
	if err := g.Config.Normalize(); err != nil {
		return errors.Annotate(err, "config")
	}
	if g.Clock == nil {
		g.Clock = helpers.SystemClock{}
	}

	if g.Config.Log.File != "" {
		lj := &lumberjack.Logger{
			Filename:   g.Config.Log.File,
			MaxSize:    g.Config.Log.FileMaxSizeMB,
			MaxBackups: g.Config.Log.FileMaxBackup,
		}
		g.logFile = lj
		g.Log.SetOutput(io.MultiWriter(os.Stderr, lj))
	}

	g.Log.Infof("build version=%s", g.BuildVersion)
	if g.Config.Persist.Root == "" {
		g.Config.Persist.Root = DefaultPersistRoot
		g.Log.Errorf("config: persist.root=empty changed=%s", g.Config.Persist.Root)
	}
	g.Log.Debugf("config: persist.root=%s", g.Config.Persist.Root)

	// Since tele is remote error reporting mechanism, it must be inited before anything else
	g.Config.Tele.BuildVersion = g.BuildVersion
	if g.Config.Tele.PersistPath == "" {
		g.Config.Tele.PersistPath = filepath.Join(g.Config.Persist.Root, "tele")
	}
	// Tele.Init gets g.Log clone before SetErrorFunc, so Tele.Log.Error doesn't recurse on itself
	if err := g.Tele.Init(ctx, g.Log.Clone(log2.LInfo), g.Config.Tele); err != nil {
		g.Tele = tele_api.Noop{}
		return errors.Annotate(err, "tele init")
	}
	g.Log.SetErrorFunc(g.Tele.Error)
	g.Tele.State(tele_api.State_Boot)

	if g.BuildVersion == "unknown" {
		g.Log.Infof("build version is not set, please use script/build")
	} else if g.Config.Tele.VmId > 0 && strings.HasSuffix(g.BuildVersion, "-dirty") { // vmid<=0 is staging
		g.Error(fmt.Errorf("running development build with uncommited changes, bad idea for production"))
	}

	const initTasks = 2
	wg := sync.WaitGroup{}
	wg.Add(initTasks)
	errch := make(chan error, initTasks)
	go helpers.WrapErrChan(&wg, errch, func() error { _, err := g.Bus(); return err })
	go helpers.WrapErrChan(&wg, errch, func() error { _, err := g.Relay(); return err })
	wg.Wait()
	close(errch)

	return helpers.FoldErrChan(errch)
}

func (g *Global) MustInit(ctx context.Context, cfg *Config) {
	err := g.Init(ctx, cfg)
	if err != nil {
		g.Fatal(err)
	}
}

func (g *Global) Error(err error, args ...interface{}) {
	if err != nil {
		if len(args) != 0 {
			msg := args[0].(string)
			args = args[1:]
			err = errors.Annotatef(err, msg, args...)
		}
		g.Log.Error(errors.ErrorStack(err))
	}
}

func (g *Global) Fatal(err error, args ...interface{}) {
	if err != nil {
		g.Error(err, args...)
		g.StopWait(5 * time.Second)
		g.Log.Fatal(errors.ErrorStack(err))
		os.Exit(1)
	}
}

// StopOnSignal stops Alive on SIGINT/SIGTERM.
func (g *Global) StopOnSignal() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigs:
			g.Log.Infof("signal=%v stopping", sig)
			g.Stop()
		case <-g.Alive.StopChan():
		}
		signal.Stop(sigs)
	}()
}

func (g *Global) Stop() {
	g.Alive.Stop()
}

// StopWait stops all tasks and releases hardware.
// Returns false if tasks did not finish in time.
func (g *Global) StopWait(timeout time.Duration) bool {
	g.Alive.Stop()
	ok := true
	select {
	case <-g.Alive.WaitChan():
	case <-time.After(timeout):
		ok = false
	}
	g.close()
	return ok
}

func (g *Global) close() {
	errs := make([]error, 0, 2)
	if x := &g.Hardware.Can; x.Bus != nil {
		errs = append(errs, errors.Annotate(x.Bus.Close(), "can close"))
	}
	if x := &g.Hardware.Relay; x.Output != nil {
		errs = append(errs, errors.Annotate(x.Output.Close(), "relay close"))
	}
	if err := helpers.FoldErrors(errs); err != nil {
		g.Log.Error(err)
	}
	g.Tele.Close()
	if g.logFile != nil {
		_ = g.logFile.Close()
	}
}
