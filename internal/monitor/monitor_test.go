package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/canmon/frc"
	"github.com/temoto/canmon/hardware/can"
	"github.com/temoto/canmon/hardware/relay"
	"github.com/temoto/canmon/helpers"
	"github.com/temoto/canmon/internal/framelog"
	"github.com/temoto/canmon/internal/stat"
	state_new "github.com/temoto/canmon/internal/state/new"
	"github.com/temoto/canmon/internal/state/persist"
	"github.com/temoto/canmon/internal/watchdog"
	"github.com/temoto/canmon/log2"
	tele_api "github.com/temoto/canmon/tele"
	tele_config "github.com/temoto/canmon/tele/config"
)

const testConfig = `can { receive_timeout_ms = 1 }`

// controller status, type=1 manufacturer=1 api=0x061 number=0
const controllerID = 0x01011840

type env struct {
	ctx   context.Context
	m     *Monitor
	bus   *can.Mock
	clock *helpers.ManualClock
}

func newEnv(t testing.TB, config string) *env {
	ctx, _ := state_new.NewTestContext(t, "test", config)
	m, err := New(ctx)
	require.NoError(t, err)
	return &env{ctx: ctx, m: m, bus: state_new.GetMock(ctx), clock: state_new.GetClock(ctx)}
}

func mustStats(t testing.TB, m *Monitor) stat.Snapshot {
	s, err := m.Stats()
	require.NoError(t, err)
	return s
}

func TestIngestScenario(t *testing.T) {
	t.Parallel()
	for _, c := range []struct {
		name   string
		config string
		check  func(t testing.TB, f frc.Fields)
	}{
		{"api10", testConfig, func(t testing.TB, f frc.Fields) {
			assert.Equal(t, uint16(0x060), f.API)
		}},
		{"class_index", testConfig + ` frc { layout = "class_index" }`, func(t testing.TB, f frc.Fields) {
			assert.Equal(t, uint8(6), f.APIClass)
			assert.Equal(t, uint8(0), f.APIIndex)
		}},
	} {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			e := newEnv(t, c.config)
			now := e.clock.Now()
			e.m.Ingest(can.MustFrame(0x0A081801, true, []byte{1, 2}), now)

			ds, err := e.m.Devices()
			require.NoError(t, err)
			require.Len(t, ds, 1)
			f := ds[0].Fields
			assert.Equal(t, uint8(0x0A), f.DeviceType)
			assert.Equal(t, uint8(0x08), f.Manufacturer)
			assert.Equal(t, uint8(1), f.DeviceNumber)
			c.check(t, f)
			assert.Equal(t, uint32(0x0A081801), e.m.Layout().Encode(f))
			assert.Equal(t, uint32(0x0A081801), e.m.BeaconID(frc.APIStatus))

			assert.Equal(t, uint64(1), mustStats(t, e.m).Get(stat.Received))
			es, err := e.m.LogEntries(0)
			require.NoError(t, err)
			require.Len(t, es, 1)
			assert.Equal(t, framelog.DirRx, es[0].Dir)
		})
	}
}

func TestIngestCountsAndTimes(t *testing.T) {
	t.Parallel()
	e := newEnv(t, testConfig)
	f := can.MustFrame(0x0A081801, true, []byte{1})
	t0 := e.clock.Now()
	e.m.Ingest(f, t0)
	t1 := e.clock.Advance(time.Second)
	f.Data[0] = 2
	e.m.Ingest(f, t1)

	ds, err := e.m.Devices()
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.Equal(t, uint64(2), ds[0].Count)
	assert.Equal(t, t0, ds[0].FirstSeen)
	assert.Equal(t, t1, ds[0].LastSeen)
	assert.Equal(t, []byte{2}, ds[0].LastData)

	require.NoError(t, e.m.ResetDevices())
	ds, err = e.m.Devices()
	require.NoError(t, err)
	assert.Len(t, ds, 0)
}

func TestExcludeController(t *testing.T) {
	t.Parallel()
	e := newEnv(t, testConfig+` registry { exclude_controller = true }`)
	now := e.clock.Now()
	e.m.Ingest(can.MustFrame(controllerID, true, []byte{1}), now)
	e.m.Ingest(can.MustFrame(0x0A081801, true, nil), now)

	ds, err := e.m.Devices()
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.Equal(t, uint32(0x0A081801), ds[0].ID)
	rs, err := e.m.RobotStatus()
	require.NoError(t, err)
	assert.True(t, rs.Enabled, "excluded from registry, still seen by watchdog")
}

func TestRobotStatus(t *testing.T) {
	t.Parallel()
	e := newEnv(t, testConfig+` watchdog { timeout_ms = 500 }`)

	rs, err := e.m.RobotStatus()
	require.NoError(t, err)
	assert.Equal(t, watchdog.StateHeartbeatLost, rs.State)
	assert.Equal(t, can.HealthNormal, rs.Bus)
	assert.Equal(t, uint8(1), rs.DeviceNumber)

	e.m.Ingest(can.MustFrame(controllerID, true, []byte{0}), e.clock.Now())
	rs, err = e.m.RobotStatus()
	require.NoError(t, err)
	assert.Equal(t, watchdog.StateDisabled, rs.State)

	e.clock.Advance(100 * time.Millisecond)
	e.m.Ingest(can.MustFrame(controllerID, true, []byte{1}), e.clock.Now())
	rs, err = e.m.RobotStatus()
	require.NoError(t, err)
	assert.Equal(t, watchdog.StateEnabled, rs.State)
	assert.True(t, rs.HeartbeatActive)

	e.clock.Advance(500 * time.Millisecond)
	rs, err = e.m.RobotStatus()
	require.NoError(t, err)
	assert.Equal(t, watchdog.StateHeartbeatLost, rs.State)
	assert.False(t, rs.HeartbeatActive)
}

func TestAlertBusOff(t *testing.T) {
	t.Parallel()
	e := newEnv(t, testConfig)
	e.bus.SetHealth(can.HealthOff)
	e.m.Ingest(can.AlertFrame(can.AlertBusOff|can.AlertArbitrationLost), e.clock.Now())

	s := mustStats(t, e.m)
	assert.Equal(t, uint64(1), s.Get(stat.BusOff))
	assert.Equal(t, uint64(1), s.Get(stat.ArbitrationLost))
	assert.Equal(t, uint64(1), s.Get(stat.Recovery))
	assert.Equal(t, uint64(0), s.Get(stat.Received))
	assert.Equal(t, 1, e.bus.RecoverCount())
	assert.Equal(t, can.HealthNormal, e.bus.Health())

	es, err := e.m.LogEntries(0)
	require.NoError(t, err)
	require.Len(t, es, 1)
	assert.True(t, es[0].IsError())
	assert.True(t, es[0].Frame.Alert.Has(can.AlertBusOff))
}

func TestHealthPollRecovery(t *testing.T) {
	t.Parallel()
	e := newEnv(t, testConfig)

	require.NoError(t, e.m.Poll())
	assert.Equal(t, uint64(0), mustStats(t, e.m).Get(stat.BusOff))

	// silent transition to off is reported as bus-off
	e.bus.SetHealth(can.HealthOff)
	e.bus.SetRecoverError(errors.New("still off"))
	require.NoError(t, e.m.Poll())
	assert.Equal(t, uint64(1), mustStats(t, e.m).Get(stat.BusOff))
	assert.Equal(t, 1, e.bus.RecoverCount())

	// failed recovery backs off
	require.NoError(t, e.m.Poll())
	assert.Equal(t, 1, e.bus.RecoverCount())

	e.clock.Advance(recoveryMinDelay)
	e.bus.SetRecoverError(nil)
	require.NoError(t, e.m.Poll())
	assert.Equal(t, 2, e.bus.RecoverCount())
	assert.Equal(t, can.HealthNormal, e.bus.Health())
	s := mustStats(t, e.m)
	assert.Equal(t, uint64(1), s.Get(stat.BusOff), "one off period is one bus-off")
	assert.Equal(t, uint64(2), s.Get(stat.Recovery))
}

func TestPollReceive(t *testing.T) {
	t.Parallel()
	e := newEnv(t, testConfig)
	require.True(t, e.bus.Inject(can.MustFrame(0x123, false, []byte{0xff})))
	require.NoError(t, e.m.Poll())
	assert.Equal(t, uint64(1), mustStats(t, e.m).Get(stat.Received))

	require.NoError(t, e.bus.Close())
	err := e.m.Poll()
	assert.True(t, can.IsClosed(err), "err=%v", err)
}

func TestSendFrame(t *testing.T) {
	t.Parallel()
	e := newEnv(t, testConfig+` beacon { disable = true }`)

	require.NoError(t, e.m.SendFrame(e.ctx, 0x0A081801, []byte{1, 2}))
	require.NoError(t, e.m.SendFrameText(e.ctx, "123", "aa.bb"))
	sent := e.bus.Transmitted()
	require.Len(t, sent, 2)
	assert.Equal(t, "0A081801#0102", sent[0].String())
	assert.Equal(t, "123#AABB", sent[1].String())

	s := mustStats(t, e.m)
	assert.Equal(t, uint64(2), s.Get(stat.Transmitted))
	es, err := e.m.LogEntries(1)
	require.NoError(t, err)
	require.Len(t, es, 1)
	assert.Equal(t, framelog.DirTx, es[0].Dir)
	assert.Equal(t, uint32(0x123), es[0].Frame.ID)

	// boundary validation leaves state untouched
	for _, err := range []error{
		e.m.SendFrame(e.ctx, 0x20000000, nil),
		e.m.SendFrame(e.ctx, 1, make([]byte, 9)),
		e.m.SendFrameText(e.ctx, "zz", ""),
		e.m.SendFrameText(e.ctx, "0A081801", "0g"),
	} {
		assert.True(t, errors.IsNotValid(errors.Cause(err)), "err=%v", err)
	}
	assert.Len(t, e.bus.Transmitted(), 2)
	assert.Equal(t, s, mustStats(t, e.m))

	e.bus.SetTransmitError(errors.New("tx fail"))
	assert.Error(t, e.m.SendFrame(e.ctx, 1, nil))
	assert.Equal(t, uint64(1), mustStats(t, e.m).Get(stat.TransmitFailed))

	ctx, cancel := context.WithCancel(e.ctx)
	cancel()
	assert.Equal(t, context.Canceled, errors.Cause(e.m.SendFrame(ctx, 1, nil)))
}

func TestResetStatsAndClearLog(t *testing.T) {
	t.Parallel()
	e := newEnv(t, testConfig)
	f := can.MustFrame(0x0A081801, true, nil)
	e.m.Ingest(f, e.clock.Now())
	e.clock.Advance(time.Minute)

	require.NoError(t, e.m.ResetStats(false))
	s := mustStats(t, e.m)
	assert.Equal(t, uint64(0), s.Get(stat.Received))
	assert.Equal(t, time.Minute, s.Uptime)
	e.m.Ingest(f, e.clock.Now())
	assert.Equal(t, uint64(1), mustStats(t, e.m).Get(stat.Received))

	require.NoError(t, e.m.ResetStatsDefault())
	assert.Equal(t, time.Minute, mustStats(t, e.m).Uptime, "stat.reset_uptime default is false")
	require.NoError(t, e.m.ResetStats(true))
	assert.Equal(t, time.Duration(0), mustStats(t, e.m).Uptime)

	require.NoError(t, e.m.ClearLog())
	es, err := e.m.LogEntries(0)
	require.NoError(t, err)
	assert.Len(t, es, 0)
}

func TestDeviceNumber(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	config := testConfig + ` persist { root = "` + root + `" }`
	e := newEnv(t, config)
	assert.Equal(t, uint8(1), e.m.DeviceNumber())

	err := e.m.SetDeviceNumber(64)
	assert.True(t, errors.IsNotValid(err))
	assert.True(t, errors.IsNotValid(e.m.SetDeviceNumber(-1)))
	assert.Equal(t, uint8(1), e.m.DeviceNumber())

	require.NoError(t, e.m.SetDeviceNumber(5))
	assert.Equal(t, uint32(0x0A081805), e.m.BeaconID(frc.APIStatus))
	require.NoError(t, e.m.SaveDeviceNumber())

	e2 := newEnv(t, config)
	assert.Equal(t, uint8(5), e2.m.DeviceNumber())
}

func TestDeviceNumberConfigZero(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	e := newEnv(t, testConfig+` beacon { device_number = 0 } persist { root = "`+root+`" }`)
	assert.Equal(t, uint8(0), e.m.DeviceNumber())
	assert.Equal(t, uint32(0x0A081800), e.m.BeaconID(frc.APIStatus))
}

func TestDeviceNumberInvalidStored(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	var p persist.Persist
	bad := &deviceNumber{}
	bad.Store(70)
	require.NoError(t, p.Init(deviceNumberPersistTag, bad, root, true, log2.NewTest(t, log2.LDebug)))
	require.NoError(t, p.Store())

	e := newEnv(t, testConfig+` beacon { device_number = 9 } persist { root = "`+root+`" }`)
	assert.Equal(t, uint8(1), e.m.DeviceNumber())
}

func TestBeaconTick(t *testing.T) {
	t.Parallel()
	e := newEnv(t, testConfig+` beacon { heartbeat_ms = 100 status_ms = 1000 }`)
	now := e.clock.Now()
	e.m.Ingest(can.MustFrame(0x02051901, true, nil), now)

	assert.Equal(t, 3, e.m.Tick(now))
	sent := e.bus.Transmitted()
	require.Len(t, sent, 2)
	assert.Equal(t, uint32(0x0A081841), sent[0].ID)
	assert.Equal(t, HeartbeatPayload(0, 1), sent[0].Payload())
	assert.Equal(t, uint32(0x0A081801), sent[1].ID)
	status := sent[1].Payload()
	require.Len(t, status, 8)
	assert.Equal(t, byte(StatusBitBusNormal), status[0])
	assert.Equal(t, byte(1), status[1])
	assert.Equal(t, []byte{1, 0, 0, 0}, status[2:6])
	assert.Equal(t, []byte{0, 0}, status[6:8])

	now = e.clock.Advance(100 * time.Millisecond)
	e.m.Tick(now)
	assert.Equal(t, uint64(2), e.m.TaskRuns("heartbeat"))
	assert.Equal(t, uint64(1), e.m.TaskRuns("status"))
	assert.Equal(t, uint64(3), mustStats(t, e.m).Get(stat.Transmitted))
}

func TestBeaconStatusAfterHeartbeatLost(t *testing.T) {
	t.Parallel()
	e := newEnv(t, testConfig+` watchdog { timeout_ms = 500 } beacon { status_ms = 1000 }`)
	e.m.Ingest(can.MustFrame(controllerID, true, []byte{1}), e.clock.Now())
	e.m.statusTick(e.clock.Now())
	sent := e.bus.Transmitted()
	require.Len(t, sent, 1)
	assert.Equal(t, byte(StatusBitEnabled), sent[0].Payload()[0]&StatusBitEnabled)

	now := e.clock.Advance(2 * time.Second)
	e.m.statusTick(now)
	sent = e.bus.Transmitted()
	require.Len(t, sent, 2)
	assert.Equal(t, byte(0), sent[1].Payload()[0]&(StatusBitEnabled|StatusBitHeartbeat))

	rs, err := e.m.RobotStatus()
	require.NoError(t, err)
	assert.Equal(t, watchdog.StateHeartbeatLost, rs.State)
	assert.False(t, rs.Enabled)
	assert.True(t, rs.LastEnableBit)
}

func TestStatusPayload(t *testing.T) {
	t.Parallel()
	b := StatusPayload(true, true, false, 300, 0x01020304, 0x10000)
	assert.Equal(t, []byte{0x03, 0xff, 0x04, 0x03, 0x02, 0x01, 0xff, 0xff}, b)
	assert.Equal(t, []byte{0x3c, 0, 0, 0, 7}, HeartbeatPayload(time.Minute+time.Millisecond, 7))
}

type stateRecorder struct {
	tele_api.Teler
	mu     sync.Mutex
	states []tele_api.State
}

func (r *stateRecorder) Init(context.Context, *log2.Log, tele_config.Config) error { return nil }
func (r *stateRecorder) State(s tele_api.State) {
	r.mu.Lock()
	r.states = append(r.states, s)
	r.mu.Unlock()
}

type reportCounter struct {
	tele_api.Teler
	n int32
}

func (r *reportCounter) Report(context.Context) error {
	atomic.AddInt32(&r.n, 1)
	return nil
}

func TestTeleReportTask(t *testing.T) {
	t.Parallel()
	ctx, g := state_new.NewTestContext(t, "test", testConfig+` beacon { disable = true } tele { enable = true report_sec = 10 }`)
	rc := &reportCounter{Teler: tele_api.NewStub()}
	g.Tele = rc
	m, err := New(ctx)
	require.NoError(t, err)
	clock := state_new.GetClock(ctx)

	// registered once by New, Run is not needed
	m.Tick(clock.Now())
	assert.Equal(t, uint64(1), m.TaskRuns("tele-report"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&rc.n))
	err = m.addTasks(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task=tele-report already exists")

	m.Tick(clock.Advance(10 * time.Second))
	assert.Equal(t, uint64(2), m.TaskRuns("tele-report"))
	assert.Equal(t, int32(2), atomic.LoadInt32(&rc.n))
}

func TestRelayFollowsWatchdog(t *testing.T) {
	t.Parallel()
	ctx, g := state_new.NewTestContext(t, "test", testConfig+` beacon { disable = true } relay { flash_ms = 250 }`)
	rec := &stateRecorder{Teler: tele_api.NewStub()}
	g.Tele = rec
	m, err := New(ctx)
	require.NoError(t, err)
	clock := state_new.GetClock(ctx)
	out := g.Hardware.Relay.Output.(*relay.LogOutput)

	// lost: square wave
	now := clock.Now()
	m.Tick(now)
	on1, _ := out.State()
	now = clock.Advance(250 * time.Millisecond)
	m.Tick(now)
	on2, _ := out.State()
	assert.NotEqual(t, on1, on2)

	m.Ingest(can.MustFrame(controllerID, true, []byte{1}), now)
	now = clock.Advance(20 * time.Millisecond)
	m.Tick(now)
	on, _ := out.State()
	assert.True(t, on)

	m.Ingest(can.MustFrame(controllerID, true, []byte{0}), now)
	now = clock.Advance(20 * time.Millisecond)
	m.Tick(now)
	on, _ = out.State()
	assert.False(t, on)

	rec.mu.Lock()
	assert.Equal(t, []tele_api.State{tele_api.State_Enabled, tele_api.State_Disabled}, rec.states)
	rec.mu.Unlock()
}

func TestRunStop(t *testing.T) {
	t.Parallel()
	e := newEnv(t, testConfig+` beacon { disable = true }`)
	g := e.m.g
	done := make(chan error, 1)
	go func() { done <- e.m.Run(e.ctx) }()

	require.True(t, e.bus.Inject(can.MustFrame(0x0A081801, true, nil)))
	assert.Eventually(t, func() bool {
		s, err := e.m.Stats()
		return err == nil && s.Get(stat.Received) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, e.m, GetGlobal(e.ctx))
	g.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
	assert.True(t, g.StopWait(time.Second))
}
