// Sorry, workaround to import cycles.
package state_new

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/temoto/alive/v2"
	"github.com/temoto/canmon/hardware/can"
	"github.com/temoto/canmon/hardware/relay"
	"github.com/temoto/canmon/helpers"
	"github.com/temoto/canmon/internal/state"
	"github.com/temoto/canmon/log2"
	tele_api "github.com/temoto/canmon/tele"
)

const MockContextKey = "test/can-mock"

// TestEpoch is ManualClock start in test contexts.
var TestEpoch = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

func NewContext(log *log2.Log, teler tele_api.Teler) (context.Context, *state.Global) {
	if log == nil {
		panic("code error NewContext() log=nil")
	}

	g := &state.Global{
		Alive: alive.NewAlive(),
		Clock: helpers.SystemClock{},
		Log:   log,
		Tele:  teler,
	}
	ctx := context.Background()
	ctx = context.WithValue(ctx, log2.ContextKey, log)
	ctx = context.WithValue(ctx, state.ContextKey, g)

	return ctx, g
}

// NewTestContext builds Global from inline config with mock CAN bus,
// logging relay and ManualClock at TestEpoch.
func NewTestContext(t testing.TB, buildVersion string, confString string) (context.Context, *state.Global) {
	fs := state.NewMockFullReader(map[string]string{
		"test-inline": confString,
	})

	var log *log2.Log
	if os.Getenv("canmon_test_log_stderr") == "1" {
		log = log2.NewStderr(log2.LDebug) // useful with panics
	} else {
		log = log2.NewTest(t, log2.LDebug)
	}
	log.SetFlags(log2.LTestFlags)
	ctx, g := NewContext(log, tele_api.NewStub())
	g.BuildVersion = buildVersion
	g.Clock = helpers.NewManualClock(TestEpoch)

	config := state.MustReadConfig(log, fs, "test-inline")
	if config.Persist.Root == "" {
		config.Persist.Root = t.TempDir()
	}
	mock := can.NewMock(can.DefaultQueueSize)
	g.Hardware.Can.Bus = mock
	g.Hardware.Relay.Output = relay.NewLogOutput(log)
	g.MustInit(ctx, config)
	ctx = context.WithValue(ctx, MockContextKey, mock)

	return ctx, g
}

func GetMock(ctx context.Context) *can.Mock {
	return ctx.Value(MockContextKey).(*can.Mock)
}

func GetClock(ctx context.Context) *helpers.ManualClock {
	return state.GetGlobal(ctx).Clock.(*helpers.ManualClock)
}
