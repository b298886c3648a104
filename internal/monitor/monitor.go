// Package monitor is the core service: ingestion loop, beacon and relay tasks,
// public query and control operations.
package monitor

import (
	"context"
	"time"

	"github.com/jpillora/maplock"
	"github.com/juju/errors"
	"github.com/temoto/canmon/frc"
	"github.com/temoto/canmon/hardware/can"
	"github.com/temoto/canmon/hardware/relay"
	"github.com/temoto/canmon/helpers"
	"github.com/temoto/canmon/internal/framelog"
	"github.com/temoto/canmon/internal/registry"
	"github.com/temoto/canmon/internal/schedule"
	"github.com/temoto/canmon/internal/stat"
	"github.com/temoto/canmon/internal/state"
	"github.com/temoto/canmon/internal/state/persist"
	"github.com/temoto/canmon/internal/watchdog"
	"github.com/temoto/canmon/log2"
	tele_api "github.com/temoto/canmon/tele"
)

const DefaultReportInterval = time.Minute

const (
	recoveryMinDelay = 200 * time.Millisecond
	recoveryMaxDelay = 10 * time.Second
)

type Monitor struct {
	g     *state.Global
	log   *log2.Log
	clock helpers.Clock
	bus   can.Bus
	relay relay.Output

	layout          frc.Layout
	receiveTimeout  time.Duration
	transmitTimeout time.Duration
	activeThreshold time.Duration
	flash           time.Duration
	resetUptime     bool

	devices *registry.Registry
	robot   *watchdog.Watchdog
	frames  *framelog.Log
	stats   *stat.Stats

	sched    *schedule.Scheduler
	sendLock *maplock.Maplock

	devnum        deviceNumber
	devnumPersist persist.Persist

	// ingestion goroutine only
	recovery helpers.Backoff
	health   can.Health

	// scheduler goroutine only
	heartbeatSeq uint8
	relayErr     string
}

// GetGlobal returns monitor registered by New, nil before that.
func GetGlobal(ctx context.Context) *Monitor {
	x := state.GetGlobal(ctx).XXX_monitor.Load()
	if x == nil {
		return nil
	}
	return x.(*Monitor)
}

// New builds monitor from initialized Global and registers it there.
func New(ctx context.Context) (*Monitor, error) {
	g := state.GetGlobal(ctx)
	cfg := g.Config
	bus, err := g.Bus()
	if err != nil {
		return nil, errors.Annotate(err, "monitor")
	}
	out, err := g.Relay()
	if err != nil {
		return nil, errors.Annotate(err, "monitor")
	}

	m := &Monitor{
		g:               g,
		log:             g.Log,
		clock:           g.Clock,
		bus:             bus,
		relay:           out,
		layout:          cfg.Layout(),
		receiveTimeout:  cfg.Can.ReceiveTimeout(),
		transmitTimeout: cfg.Can.TransmitTimeout(),
		activeThreshold: cfg.ActiveThreshold(),
		flash:           cfg.RelayFlash(),
		resetUptime:     cfg.Stat.ResetUptime,
		sendLock:        maplock.New(),
		recovery:        helpers.Backoff{Min: recoveryMinDelay, Max: recoveryMaxDelay, K: 2},
	}
	lockTimeout := cfg.LockTimeout()
	signature := cfg.ControllerSignature()

	var exclude func(can.Frame) bool
	if cfg.Registry.ExcludeController {
		exclude = func(f can.Frame) bool {
			return f.Extended && signature.Match(m.layout.Decode(f.ID))
		}
	}
	m.devices = registry.New(registry.Options{
		MaxDevices:  cfg.Registry.MaxDevices,
		LockTimeout: lockTimeout,
		Exclude:     exclude,
	})
	m.robot = watchdog.New(watchdog.Options{
		Layout:       m.layout,
		Signature:    signature,
		Timeout:      cfg.WatchdogTimeout(),
		EmptyPayload: cfg.EmptyPayload(),
		LockTimeout:  lockTimeout,
		OnChange:     m.onWatchdogChange,
	})
	m.frames = framelog.New(cfg.Log.Capacity, lockTimeout)
	m.stats = stat.New(m.clock, lockTimeout)

	if err := m.initDeviceNumber(); err != nil {
		return nil, err
	}

	m.sched = schedule.New(m.clock, g.Log)
	if err := m.addTasks(ctx); err != nil {
		return nil, errors.Annotate(err, "monitor")
	}

	g.XXX_monitor.Store(m)
	return m, nil
}

func (m *Monitor) addTasks(ctx context.Context) error {
	cfg := m.g.Config
	errs := make([]error, 0, 4)
	errs = append(errs, m.sched.Add(schedule.Task{Name: "relay", Period: cfg.RelayPoll(), Run: m.relayTick}))
	if cfg.Beacon.Disable {
		m.log.Infof("beacon disabled")
	} else {
		errs = append(errs, m.sched.Add(schedule.Task{Name: "heartbeat", Period: cfg.BeaconHeartbeat(), Run: m.heartbeatTick}))
		errs = append(errs, m.sched.Add(schedule.Task{Name: "status", Period: cfg.BeaconStatus(), Run: m.statusTick}))
	}
	if tc := &cfg.Tele; tc.Enabled {
		errs = append(errs, m.sched.Add(schedule.Task{
			Name:   "tele-report",
			Period: helpers.IntSecondDefault(tc.ReportSec, DefaultReportInterval),
			Run: func(time.Time) {
				if err := m.g.Tele.Report(ctx); err != nil {
					m.log.Error(errors.Annotate(err, "tele report"))
				}
			},
		}))
	}
	return helpers.FoldErrors(errs)
}

// Run starts scheduler and blocks in ingestion loop until Global.Alive is stopped.
func (m *Monitor) Run(ctx context.Context) error {
	a := m.g.Alive
	if !a.Add(1) {
		return nil
	}
	defer a.Done()
	go m.sched.Run(a)

	m.log.Infof("monitor running layout=%s device_number=%d", m.layout, m.DeviceNumber())
	stopch := a.StopChan()
	for {
		select {
		case <-stopch:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := m.Poll(); err != nil {
			if can.IsClosed(err) {
				if a.IsRunning() {
					return errors.Annotate(err, "monitor")
				}
				return nil
			}
			m.log.Error(errors.Annotate(err, "monitor poll"))
		}
	}
}

// Tick runs due periodic tasks, for callers driving the clock by hand.
func (m *Monitor) Tick(now time.Time) int { return m.sched.RunDue(now) }

func (m *Monitor) TaskRuns(name string) uint64 { return m.sched.Runs(name) }

func (m *Monitor) onWatchdogChange(prev, next watchdog.State) {
	m.log.Infof("robot state %s -> %s", prev, next)
	m.g.Tele.State(TeleState(next))
}

// TeleState maps watchdog state to telemetry enum.
func TeleState(s watchdog.State) tele_api.State {
	switch s {
	case watchdog.StateEnabled:
		return tele_api.State_Enabled
	case watchdog.StateDisabled:
		return tele_api.State_Disabled
	case watchdog.StateHeartbeatLost:
		return tele_api.State_HeartbeatLost
	}
	return tele_api.State_Invalid
}
