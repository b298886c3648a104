package state

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"
	"github.com/temoto/canmon/frc"
	"github.com/temoto/canmon/hardware/can"
	"github.com/temoto/canmon/hardware/relay"
	"github.com/temoto/canmon/helpers"
	"github.com/temoto/canmon/internal/framelog"
	"github.com/temoto/canmon/internal/watchdog"
	"github.com/temoto/canmon/log2"
	tele_config "github.com/temoto/canmon/tele/config"
)

const (
	DefaultLockTimeout      = 5 * time.Millisecond
	DefaultMaxDevices       = 128
	DefaultActive           = 2 * time.Second
	DefaultBeaconStatus     = 1 * time.Second
	DefaultBeaconHeartbeat  = 100 * time.Millisecond
	DefaultRelayPoll        = 20 * time.Millisecond
	DefaultDeviceNumber     = 1
	DefaultPersistRoot      = "./tmp-canmon-db"
	DefaultLogFileMaxSizeMB = 10
)

type Config struct {
	// includeSeen contains absolute paths to prevent include loops
	includeSeen map[string]struct{}
	// only used for Unmarshal, do not access
	XXX_Include []ConfigSource `hcl:"include"`

	LockTimeoutMs int `hcl:"lock_timeout_ms"`

	Can can.Config `hcl:"can"`
	Frc struct {
		Layout     string `hcl:"layout"`
		Controller struct {
			DeviceType   int `hcl:"device_type"`
			Manufacturer int `hcl:"manufacturer"`
		} `hcl:"controller"`
		XXX_Layout frc.Layout `hcl:"-"`
	} `hcl:"frc"`
	Registry struct {
		MaxDevices        int  `hcl:"max_devices"`
		ExcludeController bool `hcl:"exclude_controller"`
		ActiveMs          int  `hcl:"active_ms"`
	} `hcl:"registry"`
	Watchdog struct {
		TimeoutMs        int                         `hcl:"timeout_ms"`
		EmptyPayload     string                      `hcl:"empty_payload"`
		XXX_EmptyPayload watchdog.EmptyPayloadPolicy `hcl:"-"`
	} `hcl:"watchdog"`
	Relay relay.Config `hcl:"relay"`
	Log   struct {
		Capacity      int    `hcl:"capacity"`
		File          string `hcl:"file"`
		FileMaxSizeMB int    `hcl:"file_max_size_mb"`
		FileMaxBackup int    `hcl:"file_max_backups"`
	} `hcl:"log"`
	Beacon struct {
		Disable     bool `hcl:"disable"`
		StatusMs    int  `hcl:"status_ms"`
		HeartbeatMs int  `hcl:"heartbeat_ms"`
		// nil means not configured, 0 is valid device number
		DeviceNumber *int `hcl:"device_number"`
	} `hcl:"beacon"`
	Stat struct {
		ResetUptime bool `hcl:"reset_uptime"`
	} `hcl:"stat"`
	Persist struct {
		Root string `hcl:"root"`
	} `hcl:"persist"`
	Tele tele_config.Config `hcl:"tele"`

	_copy_guard sync.Mutex //nolint:unused
}

type ConfigSource struct {
	Name     string `hcl:"name,key"`
	Optional bool   `hcl:"optional"`
}

func (c *Config) LockTimeout() time.Duration {
	return helpers.IntMillisecondDefault(c.LockTimeoutMs, DefaultLockTimeout)
}
func (c *Config) ActiveThreshold() time.Duration {
	return helpers.IntMillisecondDefault(c.Registry.ActiveMs, DefaultActive)
}
func (c *Config) WatchdogTimeout() time.Duration {
	return helpers.IntMillisecondDefault(c.Watchdog.TimeoutMs, watchdog.DefaultTimeout)
}
func (c *Config) BeaconStatus() time.Duration {
	return helpers.IntMillisecondDefault(c.Beacon.StatusMs, DefaultBeaconStatus)
}
func (c *Config) BeaconHeartbeat() time.Duration {
	return helpers.IntMillisecondDefault(c.Beacon.HeartbeatMs, DefaultBeaconHeartbeat)
}
func (c *Config) RelayFlash() time.Duration {
	return helpers.IntMillisecondDefault(c.Relay.FlashMs, watchdog.DefaultFlash)
}
func (c *Config) RelayPoll() time.Duration {
	return helpers.IntMillisecondDefault(c.Relay.PollMs, DefaultRelayPoll)
}
func (c *Config) Layout() frc.Layout { return c.Frc.XXX_Layout }
func (c *Config) DeviceNumber() uint8 {
	if c.Beacon.DeviceNumber == nil {
		return DefaultDeviceNumber
	}
	return uint8(*c.Beacon.DeviceNumber)
}
func (c *Config) EmptyPayload() watchdog.EmptyPayloadPolicy {
	return c.Watchdog.XXX_EmptyPayload
}
func (c *Config) ControllerSignature() frc.Signature {
	return frc.Signature{
		DeviceType:   uint8(c.Frc.Controller.DeviceType),
		Manufacturer: uint8(c.Frc.Controller.Manufacturer),
	}
}

// Normalize fills defaults and validates values.
// Safe to call more than once.
func (c *Config) Normalize() error {
	errs := make([]error, 0, 4)

	layout, err := frc.ParseLayout(c.Frc.Layout)
	if err != nil {
		errs = append(errs, errors.Annotate(err, "config: frc.layout"))
	}
	c.Frc.XXX_Layout = layout
	if c.Frc.Controller.DeviceType == 0 && c.Frc.Controller.Manufacturer == 0 {
		c.Frc.Controller.DeviceType = int(frc.ControllerSignature.DeviceType)
		c.Frc.Controller.Manufacturer = int(frc.ControllerSignature.Manufacturer)
	}
	if c.Frc.Controller.DeviceType < 0 || c.Frc.Controller.DeviceType > frc.DeviceTypeMask {
		errs = append(errs, errors.NotValidf("config: frc.controller.device_type=%d", c.Frc.Controller.DeviceType))
	}
	if c.Frc.Controller.Manufacturer < 0 || c.Frc.Controller.Manufacturer > frc.ManufacturerMask {
		errs = append(errs, errors.NotValidf("config: frc.controller.manufacturer=%d", c.Frc.Controller.Manufacturer))
	}

	if c.Registry.MaxDevices == 0 {
		c.Registry.MaxDevices = DefaultMaxDevices
	} else if c.Registry.MaxDevices < 0 {
		errs = append(errs, errors.NotValidf("config: registry.max_devices=%d", c.Registry.MaxDevices))
	}

	policy, err := watchdog.ParseEmptyPayloadPolicy(c.Watchdog.EmptyPayload)
	if err != nil {
		errs = append(errs, errors.Annotate(err, "config"))
	}
	c.Watchdog.XXX_EmptyPayload = policy

	if c.Log.Capacity == 0 {
		c.Log.Capacity = framelog.DefaultCapacity
	} else if c.Log.Capacity < 0 {
		errs = append(errs, errors.NotValidf("config: log.capacity=%d", c.Log.Capacity))
	}
	if c.Log.FileMaxSizeMB <= 0 {
		c.Log.FileMaxSizeMB = DefaultLogFileMaxSizeMB
	}

	if c.Beacon.DeviceNumber == nil {
		n := DefaultDeviceNumber
		c.Beacon.DeviceNumber = &n
	} else if n := *c.Beacon.DeviceNumber; n < 0 || n > frc.MaxDeviceNumber {
		errs = append(errs, errors.NotValidf("config: beacon.device_number=%d", n))
	}

	return helpers.FoldErrors(errs)
}

func (c *Config) read(log *log2.Log, fs FullReader, source ConfigSource, errs *[]error) {
	norm := fs.Normalize(source.Name)
	if _, ok := c.includeSeen[norm]; ok {
		log.Fatalf("config duplicate source=%s", source.Name)
	} else {
		log.Debugf("config reading source='%s' path=%s", source.Name, norm)
	}
	c.includeSeen[source.Name] = struct{}{}
	c.includeSeen[norm] = struct{}{}

	bs, err := fs.ReadAll(norm)
	if bs == nil && err == nil {
		if !source.Optional {
			err = errors.NotFoundf("config required name=%s path=%s", source.Name, norm)
			*errs = append(*errs, err)
			return
		}
	}
	if err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config source=%s", source.Name))
		return
	}

	err = hcl.Unmarshal(bs, c)
	if err != nil {
		err = errors.Annotatef(err, "config unmarshal source=%s content='%s'", source.Name, string(bs))
		*errs = append(*errs, err)
		return
	}

	var includes []ConfigSource
	includes, c.XXX_Include = c.XXX_Include, nil
	for _, include := range includes {
		includeNorm := fs.Normalize(include.Name)
		if _, ok := c.includeSeen[includeNorm]; ok {
			err = errors.Errorf("config include loop: from=%s include=%s", source.Name, include.Name)
			*errs = append(*errs, err)
			continue
		}
		c.read(log, fs, include, errs)
	}
}

func ReadConfig(log *log2.Log, fs FullReader, names ...string) (*Config, error) {
	if len(names) == 0 {
		log.Fatal("code error [Must]ReadConfig() without names")
	}

	if osfs, ok := fs.(*OsFullReader); ok {
		dir, name := filepath.Split(names[0])
		osfs.SetBase(dir)
		names[0] = name
	}
	c := &Config{
		includeSeen: make(map[string]struct{}),
	}
	errs := make([]error, 0, 8)
	for _, name := range names {
		c.read(log, fs, ConfigSource{Name: name}, &errs)
	}
	if len(errs) == 0 {
		if err := c.Normalize(); err != nil {
			errs = append(errs, err)
		}
	}
	return c, helpers.FoldErrors(errs)
}

func MustReadConfig(log *log2.Log, fs FullReader, names ...string) *Config {
	c, err := ReadConfig(log, fs, names...)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return c
}
